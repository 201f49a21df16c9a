package sheet

import (
	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/product"
)

// Option configures Compose.
type Option func(*composeConfig)

type composeConfig struct {
	log   *zap.Logger
	cache *grid.Cache
}

// WithLogger logs one debug entry per sealed page.
func WithLogger(log *zap.Logger) Option {
	return func(c *composeConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithGridCache reuses grid computations across calls.
func WithGridCache(cache *grid.Cache) Option {
	return func(c *composeConfig) {
		c.cache = cache
	}
}

// Compose expands items by quantity and lays them out sheet by sheet,
// front page first, then its mirrored back page. A grid with no room for a
// single cell fails with *grid.CapacityError before anything is rendered.
// Any renderer error aborts the whole composition.
func Compose(items []product.Item, layout Layout, r CellRenderer, opts ...Option) ([]Page, error) {
	cfg := composeConfig{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var params grid.Params
	if cfg.cache != nil {
		params = cfg.cache.Compute(layout.Cell, layout.Page, layout.Margin, layout.Gap)
	} else {
		params = layout.Grid()
	}
	if params.Capacity() == 0 {
		return nil, &grid.CapacityError{Cell: layout.Cell, Page: layout.Page, Margin: layout.Margin}
	}

	flat := product.Expand(items)
	perPage := params.Capacity()
	pages := make([]Page, 0, 2*((len(flat)+perPage-1)/perPage))

	for start, sheetNo := 0, 1; start < len(flat); start, sheetNo = start+perPage, sheetNo+1 {
		end := min(start+perPage, len(flat))
		chunk := flat[start:end]
		for _, side := range []Side{Front, Back} {
			page, err := composePage(chunk, params, layout, sheetNo, side, r)
			if err != nil {
				return nil, err
			}
			cfg.log.Debug("page sealed",
				zap.Int("sheet", sheetNo),
				zap.Stringer("side", side),
				zap.Int("cells", len(page.Cells)))
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// composePage builds one page. Chunk index i sits at row i/columns; its
// column is i%columns on the front and columns-1-i%columns on the back.
func composePage(chunk []product.Item, params grid.Params, layout Layout, sheetNo int, side Side, r CellRenderer) (Page, error) {
	page := Page{
		Sheet: sheetNo,
		Side:  side,
		Grid:  params,
		Decor: layout.Guides.Ops(params, layout.GuideArm),
		Cells: make([]Cell, 0, len(chunk)),
	}
	for i, item := range chunk {
		row, col := i/params.Columns, i%params.Columns
		if side == Back {
			col = params.Columns - 1 - col
		}
		x, y := params.CellOrigin(row, col)
		cell := Cell{Row: row, Col: col, X: x, Y: y, W: params.Cell.W, H: params.Cell.H, Item: item}
		ops, err := r.RenderCell(side, cell, item)
		if err != nil {
			return Page{}, &CellError{Sheet: sheetNo, Side: side, Row: row, Col: col, Item: item.Identifier, Err: err}
		}
		cell.Ops = ops
		page.Cells = append(page.Cells, cell)
	}
	return page, nil
}

// Sheets pairs consecutive front and back pages.
func Sheets(pages []Page) [][2]Page {
	out := make([][2]Page, 0, len(pages)/2)
	for i := 0; i+1 < len(pages); i += 2 {
		out = append(out, [2]Page{pages[i], pages[i+1]})
	}
	return out
}
