package cardtpl

import "github.com/shopspring/decimal"

// PriceFormat turns an integer price in minor units into display text.
type PriceFormat struct {
	Exponent int    `json:"exponent,omitempty"` // digits after the decimal point
	Suffix   string `json:"suffix,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
}

// DefaultPrice prints whole kronor: 120 becomes "120 kr".
var DefaultPrice = PriceFormat{Suffix: " kr"}

// Format renders price. With Exponent 2, 1250 becomes "12.50".
func (f PriceFormat) Format(price int) string {
	exp := int32(max(f.Exponent, 0))
	return f.Prefix + decimal.New(int64(price), -exp).StringFixed(exp) + f.Suffix
}
