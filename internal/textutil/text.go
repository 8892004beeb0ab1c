// Package textutil общие функции для пользовательского текста.
package textutil

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	DateTimeLayout = "02.01.2006 15:04"
	DateLayout     = "02.01.2006"
	NotSpecified   = "Не указано"
)

// CollapseSpaces убирает лишние пробелы
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName "  иван   петров " -> "Иван Петров"
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// RuneLen длина строки в символах
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate обрезает до maxLen символов вместе с суффиксом
func Truncate(text string, maxLen int, suffix string) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	keep := maxLen - utf8.RuneCountInString(suffix)
	if keep <= 0 {
		return string(runes[:maxLen])
	}
	return strings.TrimRightFunc(string(runes[:keep]), unicode.IsSpace) + suffix
}

// EscapeMarkdown экранирует пользовательский ввод для parse_mode=Markdown
func EscapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

// FormatDateTime дата в поясе loc; нулевое время -> "Не указано"
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return NotSpecified
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateTimeLayout)
}

// FormatDateTimePtr то же для NULL-колонок
func FormatDateTimePtr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return NotSpecified
	}
	return FormatDateTime(*t, loc)
}

// ParseDateTime разбирает "ДД.ММ.ГГГГ ЧЧ:ММ" в поясе loc
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateTimeLayout, CollapseSpaces(raw), loc)
}
