package tagsheet_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/product"
)

func ExampleGenerator_Compose() {
	gen := tagsheet.New()
	items := []product.Item{
		{Identifier: "AC0101", Title: "Lavender", Subtitle: "Soy candle", Price: 120, Quantity: 7},
		{Identifier: "AC0102", Title: "Cedar", Subtitle: "Soy candle", Price: 140, Quantity: 3},
	}

	pages, err := gen.Compose(tagsheet.KindBackingCards, items)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, p := range pages {
		fmt.Printf("sheet %d %s: %d cells\n", p.Sheet, p.Side, len(p.Cells))
	}
	last, _ := pages[3].At(0, 2)
	fmt.Println("mirrored:", last.Item.Identifier)
	// Output:
	// sheet 1 front: 9 cells
	// sheet 1 back: 9 cells
	// sheet 2 front: 1 cells
	// sheet 2 back: 1 cells
	// mirrored: AC0102
}

func ExampleGenerator_PriceTags() {
	gen := tagsheet.New(tagsheet.WithHost("cosmicflowch.art"))
	items := []product.Item{
		{Identifier: "AC0111", Title: "Rosemary", Subtitle: "Beeswax tealights, 6 pcs", Price: 85, Quantity: 4},
	}

	var buf bytes.Buffer
	if err := gen.PriceTags(&buf, items); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	// Output: true
}

func ExampleGenerator_Generate_noItems() {
	var buf bytes.Buffer
	err := tagsheet.New().Generate(&buf, tagsheet.KindPriceTags, nil)
	fmt.Println(errors.Is(err, tagsheet.ErrNoItems))
	// Output: true
}
