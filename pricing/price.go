// Package pricing formats and validates dish prices and applies transient discounts.
//
// Prices travel as decimal text with exactly two fraction digits ("80.50").
// Discounts are percentages kept outside the persisted dish, so every helper
// here is forgiving about the discount and strict about the stored price.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPrice is returned when a submitted price is not a usable number.
var ErrInvalidPrice = errors.New("price type is not correct")

// NormalizePrice formats x with two fraction digits.
func NormalizePrice(x float64) string {
	s := strconv.FormatFloat(x, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// ValidatePrice parses input as a float and returns its normalized form.
// NaN and infinities are rejected alongside unparsable text.
func ValidatePrice(input string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrice, input)
	}
	return NormalizePrice(v), nil
}

// EffectivePrice applies a percentage discount to a stored price.
//
// An empty, unparsable or out of range discount counts as no discount. The
// result is clamped at zero. A stored price that does not parse is returned
// unchanged since it never went through ValidatePrice.
func EffectivePrice(stored, discount string) string {
	price, err := strconv.ParseFloat(strings.TrimSpace(stored), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return stored
	}

	d := ParseDiscount(discount)
	return NormalizePrice(math.Max(0, price*(100-d)/100))
}

// ParseDiscount reads a discount percentage, falling back to 0.
func ParseDiscount(discount string) float64 {
	discount = strings.TrimSpace(discount)
	if discount == "" {
		return 0
	}
	d, err := strconv.ParseFloat(discount, 64)
	if err != nil || math.IsNaN(d) || d < 0 || d > 100 {
		return 0
	}
	return d
}
