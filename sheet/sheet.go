// Package sheet paginates items onto double-sided print sheets.
//
// Every sheet is a front page and a back page holding the same items. The
// back page mirrors the column order, so once the printed sheet is flipped
// about its vertical axis each back cell lands behind its front cell.
package sheet

import (
	"fmt"

	"github.com/cosmicflow/tagsheet/draw"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/product"
)

// Side is the face of a sheet a page is printed on.
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// Cell is one occupied grid slot on a page.
type Cell struct {
	Row, Col int
	X, Y     float64 // absolute top-left corner
	W, H     float64
	Item     product.Item
	Ops      []draw.Op
}

// Page is a finished page. Decor holds page-level primitives such as cut
// guides, which are drawn before the cells.
type Page struct {
	Sheet int // 1-based sheet number
	Side  Side
	Grid  grid.Params
	Decor []draw.Op
	Cells []Cell
}

// At returns the cell at row, col, if that slot is occupied.
func (p Page) At(row, col int) (Cell, bool) {
	for _, c := range p.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

// Ops returns every primitive on the page in playback order.
func (p Page) Ops() []draw.Op {
	n := len(p.Decor)
	for _, c := range p.Cells {
		n += len(c.Ops)
	}
	ops := make([]draw.Op, 0, n)
	ops = append(ops, p.Decor...)
	for _, c := range p.Cells {
		ops = append(ops, c.Ops...)
	}
	return ops
}

// Layout fixes the geometry of a document.
type Layout struct {
	Cell     grid.Size
	Page     grid.Size
	Margin   float64
	Gap      float64
	Guides   grid.Guides
	GuideArm float64 // half-length of crop crosses
}

// Grid computes the grid for l.
func (l Layout) Grid() grid.Params {
	return grid.ComputeWithGap(l.Cell, l.Page, l.Margin, l.Gap)
}

// CellRenderer decides what goes into a cell. It is called once per side
// for every cell, with the absolute position of the cell, and must return
// primitives that stay within the cell bounds.
type CellRenderer interface {
	RenderCell(side Side, cell Cell, item product.Item) ([]draw.Op, error)
}

// RendererFunc adapts a function to CellRenderer.
type RendererFunc func(side Side, cell Cell, item product.Item) ([]draw.Op, error)

// RenderCell calls f.
func (f RendererFunc) RenderCell(side Side, cell Cell, item product.Item) ([]draw.Op, error) {
	return f(side, cell, item)
}

// CellError reports a cell whose rendering failed. It aborts the document.
type CellError struct {
	Sheet    int
	Side     Side
	Row, Col int
	Item     string
	Err      error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet: rendering %s of sheet %d cell (%d,%d) for %q: %v",
		e.Side, e.Sheet, e.Row, e.Col, e.Item, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
