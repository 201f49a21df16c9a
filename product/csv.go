package product

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV columns of the inventory export. Column 1 is not used.
const (
	colIdentifier = 0
	colSubtitle   = 2
	colTitle      = 3
	colPrice      = 4
	colQuantity   = 5
)

// ReadCSV reads items from an inventory export. The first row is a header.
// Rows with fewer than five columns or an empty identifier are skipped; a
// row without a quantity column counts once.
func ReadCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var items []Item
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("product: reading csv: %w", err)
		}
		if line == 1 {
			continue
		}
		if len(rec) < colPrice+1 || strings.TrimSpace(rec[colIdentifier]) == "" {
			continue
		}
		price, err := strconv.Atoi(strings.TrimSpace(rec[colPrice]))
		if err != nil {
			return nil, fmt.Errorf("product: csv line %d: price %q: %w", line, rec[colPrice], err)
		}
		quantity := 1
		if len(rec) > colQuantity && strings.TrimSpace(rec[colQuantity]) != "" {
			quantity, err = strconv.Atoi(strings.TrimSpace(rec[colQuantity]))
			if err != nil {
				return nil, fmt.Errorf("product: csv line %d: quantity %q: %w", line, rec[colQuantity], err)
			}
		}
		it, err := New(rec[colIdentifier], rec[colTitle], rec[colSubtitle], price, quantity)
		if err != nil {
			return nil, fmt.Errorf("product: csv line %d: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}
