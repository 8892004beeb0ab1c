package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"E164", "+79991234567", "+79991234567"},
		{"LeadingEight", "89991234567", "+79991234567"},
		{"LeadingSeven", "79991234567", "+79991234567"},
		{"TenDigits", "9991234567", "+79991234567"},
		{"Formatted", "8 (999) 123-45-67", "+79991234567"},
		{"Spaces", " +7 999 123 45 67 ", "+79991234567"},
		{"Foreign", "+44 20 7183 8750", "+442071838750"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize("")
	assert.ErrorIs(t, err, ErrEmptyPhone)

	_, err = Normalize("abc")
	assert.ErrorIs(t, err, ErrEmptyPhone)

	_, err = Normalize("123")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	assert.False(t, Valid("12"))
	assert.True(t, Valid("8-999-123-45-67"))
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "+7 (999) 123-45-67", FormatDisplay("+79991234567"))
	assert.Equal(t, "+442071838750", FormatDisplay("+442071838750"))
	assert.Equal(t, "", FormatDisplay(""))
}
