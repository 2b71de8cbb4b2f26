// Package template — кодек плейсхолдеров шаблона сообщения: человекочитаемая
// форма [[Метка]] для редактора, техническая {token} для хранения и движка.
package template

// Token — одна запись таблицы подстановок.
type Token struct {
	Friendly string // метка в редакторе, без скобок
	Tech     string // технический токен, как хранится на диске
	Example  string // значение для предпросмотра
}

// Tokens — полная таблица. Порядок фиксирован, метки и токены уникальны.
var Tokens = []Token{
	{Friendly: "Дельта стрелы", Tech: "{delta_formatted}", Example: "5.23%"},
	{Friendly: "Направление", Tech: "{direction}", Example: "⬆️"},
	{Friendly: "Биржа и тип рынка", Tech: "{exchange_market}", Example: "Binance Futures"},
	{Friendly: "Торговая пара", Tech: "{symbol}", Example: "BTCUSDT"},
	{Friendly: "Объём стрелы", Tech: "{volume_formatted}", Example: "1.5K$"},
	{Friendly: "Тень свечи", Tech: "{wick_formatted}", Example: "12.4%"},
	{Friendly: "Время детекта", Tech: "{time}", Example: "14:05:59"},
	{Friendly: "Временная метка", Tech: "{timestamp}", Example: "1693488359"},
}

// FriendlyToken оборачивает метку в скобки редактора: [[Метка]].
func FriendlyToken(label string) string {
	return "[[" + label + "]]"
}
