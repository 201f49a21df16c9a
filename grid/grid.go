// Package grid computes how many fixed-size cells fit on a page and where
// the centred grid of those cells sits.
package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PointsPerMM converts millimetres to PDF points.
const PointsPerMM = 72 / 25.4

// Size is a width and height in millimetres.
type Size struct {
	W, H float64
}

// Standard page sizes in portrait orientation.
var (
	A3     = Size{W: 297, H: 420}
	A4     = Size{W: 210, H: 297}
	A5     = Size{W: 148, H: 210}
	Letter = Size{W: 215.9, H: 279.4}
	Legal  = Size{W: 215.9, H: 355.6}
)

// PageSize returns a named page size. Names are case-insensitive.
func PageSize(name string) (Size, error) {
	switch strings.ToLower(name) {
	case "a3":
		return A3, nil
	case "a4", "":
		return A4, nil
	case "a5":
		return A5, nil
	case "letter":
		return Letter, nil
	case "legal":
		return Legal, nil
	}
	return ParseSize(name)
}

// ParseSize parses "WxH" in millimetres, e.g. "30x52".
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("grid: size %q is not WxH", s)
	}
	wv, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return Size{}, fmt.Errorf("grid: size %q: %w", s, err)
	}
	hv, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return Size{}, fmt.Errorf("grid: size %q: %w", s, err)
	}
	if !positive(wv) || !positive(hv) {
		return Size{}, fmt.Errorf("grid: size %q must be finite and positive", s)
	}
	return Size{W: wv, H: hv}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Points returns the size in PDF points.
func (s Size) Points() Size {
	return Size{W: s.W * PointsPerMM, H: s.H * PointsPerMM}
}

func (s Size) String() string {
	return strconv.FormatFloat(s.W, 'f', -1, 64) + "x" + strconv.FormatFloat(s.H, 'f', -1, 64)
}

// Params describes a centred grid of equally sized cells.
type Params struct {
	Columns int
	Rows    int
	Width   float64 // total grid width including gaps
	Height  float64 // total grid height including gaps
	X       float64 // left edge of the grid
	Y       float64 // top edge of the grid
	Cell    Size
	Gap     float64
}

// CapacityError reports a cell that does not fit the printable area even once.
type CapacityError struct {
	Cell   Size
	Page   Size
	Margin float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("grid: cell %s does not fit page %s with margin %g", e.Cell, e.Page, e.Margin)
}

// floor tolerates the rounding error of exact multiples such as 190/38.
func floor(v float64) int {
	n := int(math.Floor(v + 1e-9))
	if n < 0 {
		return 0
	}
	return n
}

// Compute lays out cells edge to edge. Partial cells are dropped. A cell
// larger than the printable area yields a zero-capacity grid, not an error.
func Compute(cell, page Size, margin float64) Params {
	return ComputeWithGap(cell, page, margin, 0)
}

// ComputeWithGap is Compute with gap millimetres between neighbouring cells.
func ComputeWithGap(cell, page Size, margin, gap float64) Params {
	p := Params{Cell: cell, Gap: gap}
	if cell.W <= 0 || cell.H <= 0 || gap < 0 {
		p.X, p.Y = page.W/2, page.H/2
		return p
	}
	p.Columns = floor((page.W - 2*margin + gap) / (cell.W + gap))
	p.Rows = floor((page.H - 2*margin + gap) / (cell.H + gap))
	if p.Columns == 0 || p.Rows == 0 {
		p.Columns, p.Rows = 0, 0
	} else {
		p.Width = float64(p.Columns)*cell.W + float64(p.Columns-1)*gap
		p.Height = float64(p.Rows)*cell.H + float64(p.Rows-1)*gap
	}
	p.X = (page.W - p.Width) / 2
	p.Y = (page.H - p.Height) / 2
	return p
}

// Capacity is the number of cells per page.
func (p Params) Capacity() int {
	return p.Columns * p.Rows
}

// CellOrigin returns the top-left corner of the cell at row, col.
func (p Params) CellOrigin(row, col int) (x, y float64) {
	x = p.X + float64(col)*(p.Cell.W+p.Gap)
	y = p.Y + float64(row)*(p.Cell.H+p.Gap)
	return x, y
}
