// Package amountutils parses the locale-formatted amount strings found in
// bank-statement exports into decimal values.
//
// One convention applies everywhere, replacing the two historical variants
// of this tool:
//
//  1. spaces and apostrophe thousands separators are stripped
//  2. when both '.' and ',' appear, the right-most one is the decimal
//     separator and the other is removed as a thousands separator
//  3. a lone ',' is the decimal separator
//  4. otherwise the string is plain dot-decimal
package amountutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a string representation of an amount into a decimal
// value. It handles formats like "1.234,56", "1,234.56", "1'234.56",
// "1234,56" and "1234.56".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParseFloat parses an amount string and returns it as a float64, the
// representation the transactions table stores.
func ParseFloat(amountStr string) (float64, error) {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return 0, err
	}
	f, _ := amount.Float64()
	return f, nil
}

// StandardizeAmount rewrites an amount string into the dot-decimal form
// decimal.NewFromString accepts, following the package convention.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)
	amountStr = strings.ReplaceAll(amountStr, " ", "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	hasDot := strings.Contains(amountStr, ".")
	hasComma := strings.Contains(amountStr, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Anglo format (1,234.56)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasComma:
		// Lone comma is the decimal separator (1234,56)
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	}

	return amountStr
}
