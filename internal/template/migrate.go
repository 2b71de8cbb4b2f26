package template

import "strings"

// Старые шаблоны держали биржу и тип рынка двумя отдельными токенами —
// в технической форме, в дружелюбной, а после ручных правок и вперемешку.
// Схлопываются только смежные пары; одиночный токен без пары не трогаем
// в обеих формах: это уже не смежное употребление, и решать за
// пользователя здесь нечего.
var legacyPairs = buildLegacyPairs()

// Порядок важен: сначала варианты с «|», иначе от пары останется висящий
// разделитель.
func buildLegacyPairs() []string {
	exchanges := []string{"{exchange}", "[[Биржа]]"}
	markets := []string{"{market}", "[[Тип рынка]]"}

	var pairs []string
	for _, sep := range []string{" | ", " "} {
		for _, ex := range exchanges {
			for _, mk := range markets {
				pairs = append(pairs, ex+sep+mk, mk+sep+ex)
			}
		}
	}
	return pairs
}

// MigrateLegacy выполняет одноразовую миграцию шаблона при загрузке:
// смежные легаси-токены биржи и рынка становятся одним {exchange_market}.
func MigrateLegacy(text string) string {
	for _, pair := range legacyPairs {
		text = strings.ReplaceAll(text, pair, "{exchange_market}")
	}
	return text
}
