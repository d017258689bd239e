package repository

import (
	"fmt"
	"strconv"
)

// Currency columns (hourly_rate, price, total_price) are DECIMAL in the
// database and arrive through the driver as decimal text. Repositories scan
// them into strings and convert at the boundary so callers only ever see
// float64 values.

// parseAmount converts a decimal-text amount from the store into a float64.
func parseAmount(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return f, nil
}

// formatAmount renders an amount as fixed-point text with two decimals,
// the representation the DECIMAL(10,2) columns expect on write.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
