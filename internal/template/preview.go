package template

import "strings"

var exampleReplacer *strings.Replacer

func init() {
	pairs := make([]string, 0, len(Tokens)*4)
	for _, t := range Tokens {
		pairs = append(pairs, t.Tech, t.Example)
		// защитно подменяем и дружелюбную форму: вход бывает смешанным
		pairs = append(pairs, FriendlyToken(t.Friendly), t.Example)
	}
	exampleReplacer = strings.NewReplacer(pairs...)
}

// Preview рендерит шаблон с примерами значений вместо токенов, чтобы
// пользователь видел реалистичное сообщение без живой сделки. Принимает
// текст в любой форме (дружелюбной, технической, смешанной).
func Preview(text string) string {
	text = ToTechnical(MigrateLegacy(text))
	return strings.TrimSpace(exampleReplacer.Replace(text))
}
