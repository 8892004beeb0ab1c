// Package phone приводит телефонные номера к формату E.164.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrEmptyPhone   = errors.New("phone is empty")
	ErrInvalidPhone = errors.New("phone is invalid")
)

const defaultRegion = "RU"

// Normalize приводит произвольный ввод к виду +79991234567
func Normalize(input string) (string, error) {
	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return "", ErrEmptyPhone
	}

	switch {
	case strings.HasPrefix(cleaned, "8"):
		cleaned = "+7" + cleaned[1:]
	case strings.HasPrefix(cleaned, "7"):
		cleaned = "+" + cleaned
	case !strings.HasPrefix(cleaned, "+"):
		cleaned = "+7" + cleaned
	}

	num, err := phonenumbers.Parse(cleaned, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Valid сообщает, можно ли нормализовать номер
func Valid(input string) bool {
	_, err := Normalize(input)
	return err == nil
}

// FormatDisplay +79991234567 -> +7 (999) 123-45-67
func FormatDisplay(e164 string) string {
	if len(e164) != 12 || !strings.HasPrefix(e164, "+7") {
		return e164
	}
	return fmt.Sprintf("+7 (%s) %s-%s-%s", e164[2:5], e164[5:8], e164[8:10], e164[10:12])
}
