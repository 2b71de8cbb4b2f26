package template

import "strings"

// Подстановка — буквальная, по всем вхождениям, регистрозависимая.
// strings.Replacer делает один проход, поэтому результат замены не
// подхватывается следующими парами и круговой прогон
// ToFriendly(ToTechnical(s)) == s для любого s из словаря токенов и
// литерального текста. Регулярные выражения здесь запрещены: в литеральном
// тексте шаблона могут встречаться любые метасимволы.
var (
	toTechnical *strings.Replacer
	toFriendly  *strings.Replacer
)

func init() {
	tech := make([]string, 0, len(Tokens)*2)
	friendly := make([]string, 0, len(Tokens)*2)
	for _, t := range Tokens {
		tech = append(tech, FriendlyToken(t.Friendly), t.Tech)
		friendly = append(friendly, t.Tech, FriendlyToken(t.Friendly))
	}
	toTechnical = strings.NewReplacer(tech...)
	toFriendly = strings.NewReplacer(friendly...)
}

// ToTechnical переводит текст из авторской формы в форму хранения:
// каждое [[Метка]] становится своим {token}.
func ToTechnical(text string) string {
	return toTechnical.Replace(text)
}

// ToFriendly — обратное преобразование для показа в редакторе.
func ToFriendly(text string) string {
	return toFriendly.Replace(text)
}
