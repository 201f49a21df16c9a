package cardtpl

import (
	"errors"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/cosmicflow/tagsheet/asset"
	"github.com/cosmicflow/tagsheet/draw"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/product"
	"github.com/cosmicflow/tagsheet/qrsvg"
	"github.com/cosmicflow/tagsheet/sheet"
	"github.com/cosmicflow/tagsheet/textfit"
)

// DefaultStroke is the line width of circles without an explicit stroke:
// one point in millimetres.
const DefaultStroke = 1 / grid.PointsPerMM

// ErrNoLogo is returned by NewRenderer when a logo element has neither a
// source file nor a logo supplied with WithLogo.
var ErrNoLogo = errors.New("cardtpl: logo element without logo")

// Option configures a Renderer.
type Option func(*Renderer)

// WithHost sets the site host product URLs point at.
func WithHost(host string) Option {
	return func(r *Renderer) {
		if host != "" {
			r.host = host
		}
	}
}

// WithLogo supplies the SVG drawn by logo elements that name no file.
func WithLogo(svg []byte) Option {
	return func(r *Renderer) {
		r.logo = svg
	}
}

// WithAssetDir resolves relative logo paths against dir.
func WithAssetDir(dir string) Option {
	return func(r *Renderer) {
		r.assetDir = dir
	}
}

// Renderer draws the elements of a Layout into cells. It implements
// sheet.CellRenderer and is safe for concurrent use once built.
type Renderer struct {
	layout   *Layout
	fonts    *textfit.Registry
	host     string
	assetDir string
	logo     []byte
	price    PriceFormat
	elements []element
}

// element is an Element with its colour, face and artwork resolved.
type element struct {
	Element
	face  *textfit.Face
	color draw.Color
	align draw.Align
	level qrsvg.Level
	svg   []byte  // logo document
	ratio float64 // logo height over width
}

// NewRenderer prepares l for rendering with fonts. Every face the layout
// names must be registered, and every logo must load, before any cell is
// drawn.
func NewRenderer(l *Layout, fonts *textfit.Registry, opts ...Option) (*Renderer, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{layout: l, fonts: fonts, host: product.DefaultHost, price: DefaultPrice}
	for _, opt := range opts {
		opt(r)
	}
	if l.Price != nil {
		r.price = *l.Price
	}

	base := draw.Black
	if l.Color != "" {
		base = draw.MustHex(l.Color)
	}
	for i, e := range l.Elements {
		el := element{Element: e, color: base}
		if e.Color != "" {
			el.color = draw.MustHex(e.Color)
		}
		if e.isText() {
			face, err := fonts.Face(orDefault(e.Font, textfit.Regular))
			if err != nil {
				return nil, fmt.Errorf("cardtpl: element %d (%s): %w", i, e.Type, err)
			}
			el.face = face
			el.align, _ = parseAlign(e.Align)
		}
		switch e.Type {
		case TypeQR:
			el.level, _ = qrsvg.ParseLevel(orDefault(e.Level, "L"))
		case TypeLogo:
			svg, ratio, err := r.loadLogo(e.Src)
			if err != nil {
				return nil, err
			}
			el.svg, el.ratio = svg, ratio
		}
		r.elements = append(r.elements, el)
	}
	return r, nil
}

func (r *Renderer) loadLogo(src string) ([]byte, float64, error) {
	svg := r.logo
	path := src
	if src != "" {
		path = asset.Resolve(r.assetDir, src)
		data, err := asset.ReadFile(asset.KindLogo, path)
		if err != nil {
			return nil, 0, err
		}
		svg = data
	}
	if svg == nil {
		return nil, 0, ErrNoLogo
	}
	parsed, err := gofpdf.SVGBasicParse(svg)
	if err != nil {
		return nil, 0, asset.NewLoadError(asset.KindLogo, path, err)
	}
	if parsed.Wd <= 0 || parsed.Ht <= 0 {
		return nil, 0, asset.NewLoadError(asset.KindLogo, path, errors.New("svg has no width and height"))
	}
	return svg, parsed.Ht / parsed.Wd, nil
}

// Layout returns the layout r draws.
func (r *Renderer) Layout() *Layout { return r.layout }

// Fonts returns the registry r measures with.
func (r *Renderer) Fonts() *textfit.Registry { return r.fonts }

// RenderCell implements sheet.CellRenderer.
func (r *Renderer) RenderCell(side sheet.Side, cell sheet.Cell, item product.Item) ([]draw.Op, error) {
	pad := r.layout.Padding
	inner := cell.W - 2*pad
	cx := cell.X + cell.W/2

	var ops []draw.Op
	qrBottom := 0.0 // below the cell top, 0 until a symbol is placed
	for _, e := range r.elements {
		if !e.On(side) {
			continue
		}
		y := cell.Y + e.Y
		switch e.Type {
		case TypeTitle:
			ops = r.appendLine(ops, e, cell, item.Title, y, inner)
		case TypeText:
			ops = r.appendLine(ops, e, cell, e.Text, y, inner)
		case TypePrice:
			ops = r.appendLine(ops, e, cell, r.price.Format(item.Price), y, inner)
		case TypeCaption:
			ops = r.appendLine(ops, e, cell, item.Caption(r.host), cell.Y+qrBottom+e.Y, inner)
		case TypeSubtitle:
			lines := e.face.Wrap(item.Subtitle, e.Size, inner*grid.PointsPerMM)
			k := 0
			for _, line := range lines {
				if line == "" {
					continue
				}
				ops = append(ops, r.text(e, cell, line, e.Size, y+float64(k)*e.Leading))
				k++
			}
		case TypeQR:
			svg, err := qrsvg.Generate(item.URL(r.host), qrsvg.Options{Level: e.level})
			if err != nil {
				return nil, err
			}
			if e.Fill != "" {
				if svg, err = qrsvg.Recolor(svg, e.Fill); err != nil {
					return nil, err
				}
			}
			w := inner
			switch {
			case e.Height > 0:
				w = e.Height
			case e.Width > 0:
				w = e.Width
			}
			ops = append(ops, draw.Vector{X: cx - w/2, Y: y, W: w, H: w, SVG: svg})
			qrBottom = e.Y + w
		case TypeCircle:
			stroke := e.Stroke
			if stroke == 0 {
				stroke = DefaultStroke
			}
			ops = append(ops, draw.Circle{X: cx + e.X, Y: y, R: e.Radius, Width: stroke, Color: e.color})
		case TypeLogo:
			w := inner
			if e.Width > 0 {
				w = e.Width
			}
			h := w * e.ratio
			if e.Anchor == "bottom" {
				y -= h
			}
			ops = append(ops, draw.Vector{X: cx - w/2, Y: y, W: w, H: h, SVG: e.svg})
		}
	}
	return ops, nil
}

// appendLine adds a single line of text, shrunk to the padded width when
// the element asks for it. Empty text draws nothing.
func (r *Renderer) appendLine(ops []draw.Op, e element, cell sheet.Cell, s string, y, inner float64) []draw.Op {
	if s == "" {
		return ops
	}
	size := e.Size
	if e.Fit {
		size = e.face.MaxFittingSize(s, inner*grid.PointsPerMM, e.Size)
		if size <= 0 {
			return ops
		}
	}
	return append(ops, r.text(e, cell, s, size, y))
}

func (r *Renderer) text(e element, cell sheet.Cell, s string, size, y float64) draw.Text {
	x := cell.X + cell.W/2
	switch e.align {
	case draw.AlignLeft:
		x = cell.X + r.layout.Padding
	case draw.AlignRight:
		x = cell.X + cell.W - r.layout.Padding
	}
	return draw.Text{X: x, Y: y, Text: s, Font: e.face.Name(), Size: size, Color: e.color, Align: e.align}
}
