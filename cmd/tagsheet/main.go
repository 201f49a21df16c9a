// Command tagsheet prints price tags and backing cards onto double-sided
// PDF sheets.
//
// Usage:
//
//	tagsheet price-tags inventory.csv -o tags.pdf
//	tagsheet backing-cards inventory.csv
//	tagsheet price-tags --from-db --prefix AC01 --in-stock
//	tagsheet all inventory.csv
//	tagsheet layout shelf-label.json inventory.csv -o labels.pdf
//	tagsheet grid --cell 30x52 --margin 10
//
// Settings are read from tagsheet.toml in the working directory (or the
// directory given with --config), a .env file and TAGSHEET_ environment
// variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tagsheet: %v\n", err)
		os.Exit(1)
	}
}
