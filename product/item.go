// Package product holds the item records printed on tags and cards, and
// reads them from CSV exports.
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// DefaultHost is the public site product URLs point at.
const DefaultHost = "cosmicflowch.art"

// Item is one product line. Quantity is the number of physical cells the
// item occupies. Items are values; nothing in this module mutates them.
type Item struct {
	Identifier string `validate:"required,max=64,excludesall=/?# "`
	Title      string `validate:"max=200"`
	Subtitle   string `validate:"max=500"`
	Price      int    `validate:"gte=0"`
	Quantity   int    `validate:"gte=0"`
}

var validate = validator.New()

// ErrInvalidItem is wrapped by every validation failure from New.
var ErrInvalidItem = errors.New("product: invalid item")

// New builds a validated Item. Text fields are trimmed of surrounding
// whitespace and normalised to NFC; no-break spaces inside them are kept.
func New(identifier, title, subtitle string, price, quantity int) (Item, error) {
	it := Item{
		Identifier: strings.TrimSpace(identifier),
		Title:      norm.NFC.String(strings.Trim(title, " \t\r\n")),
		Subtitle:   norm.NFC.String(strings.Trim(subtitle, " \t\r\n")),
		Price:      price,
		Quantity:   quantity,
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Validate checks the field constraints of it.
func (it Item) Validate() error {
	if err := validate.Struct(it); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w %q: field %s fails %q", ErrInvalidItem, it.Identifier, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w %q: %v", ErrInvalidItem, it.Identifier, err)
	}
	return nil
}

// Slug is the identifier as it appears in URLs.
func (it Item) Slug() string {
	return strings.ToLower(it.Identifier)
}

// URL returns https://<host>/p/<slug>.
func (it Item) URL(host string) string {
	return "https://" + it.Caption(host)
}

// Caption returns the URL without its scheme, for printing under a code.
func (it Item) Caption(host string) string {
	if host == "" {
		host = DefaultHost
	}
	return host + "/p/" + it.Slug()
}

// Expand repeats every item Quantity times, keeping input order.
func Expand(items []Item) []Item {
	n := 0
	for _, it := range items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	out := make([]Item, 0, n)
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			out = append(out, it)
		}
	}
	return out
}

// TotalQuantity sums the quantities of items.
func TotalQuantity(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	return n
}
