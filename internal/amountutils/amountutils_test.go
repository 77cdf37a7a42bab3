package amountutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"european thousands and comma decimal", "1.234,56", "1234.56"},
		{"anglo thousands and dot decimal", "1,234.56", "1234.56"},
		{"swiss apostrophe thousands", "1'234.56", "1234.56"},
		{"lone comma decimal", "1234,56", "1234.56"},
		{"plain dot decimal", "9.99", "9.99"},
		{"integer", "1500", "1500"},
		{"negative comma decimal", "-12,50", "-12.50"},
		{"spaces stripped", " 1 234,56 ", "1234.56"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StandardizeAmount(tt.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{"comma decimal", "1234,56", "1234.56", false},
		{"dot decimal stays intact", "9.99", "9.99", false},
		{"european full format", "1.234,56", "1234.56", false},
		{"negative", "-45,00", "-45.00", false},
		{"empty is an error", "", "", true},
		{"garbage is an error", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ParseAmount(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amount.String())
		})
	}
}

func TestParseFloat(t *testing.T) {
	f, err := ParseFloat("1.234,50")
	require.NoError(t, err)
	assert.InDelta(t, 1234.50, f, 0.0001)

	_, err = ParseFloat("not a number")
	assert.Error(t, err)
}
