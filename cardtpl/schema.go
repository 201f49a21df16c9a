// Package cardtpl describes what is printed inside one tag or card with a
// small declarative JSON schema, and renders it cell by cell.
//
// A layout fixes the cell geometry and lists elements, each bound to the
// front or back of the sheet. Offsets are millimetres from the top of the
// cell; text elements are centred on the cell unless aligned otherwise.
//
// Example JSON:
//
//	{
//	  "name": "shelf-label",
//	  "title": "Shelf Labels",
//	  "cell": {"width": 60, "height": 20},
//	  "margin": 10,
//	  "padding": 2,
//	  "guides": "crosses",
//	  "elements": [
//	    {"type": "title", "side": "front", "y": 8, "font": "bold", "size": 12, "fit": true},
//	    {"type": "price", "side": "front", "y": 16, "font": "bold", "size": 10},
//	    {"type": "qr", "side": "back", "y": 2, "height": 16}
//	  ]
//	}
package cardtpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cosmicflow/tagsheet/draw"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/qrsvg"
	"github.com/cosmicflow/tagsheet/sheet"
)

// Element types.
const (
	TypeTitle    = "title"    // item title on one line
	TypeSubtitle = "subtitle" // item subtitle, word-wrapped
	TypeText     = "text"     // literal text
	TypePrice    = "price"    // formatted item price
	TypeQR       = "qr"       // product URL as a QR symbol
	TypeCaption  = "caption"  // product URL without scheme
	TypeCircle   = "circle"   // stroked circle, e.g. a punch mark
	TypeLogo     = "logo"     // vector logo
)

// Sides an element can be bound to.
const (
	SideFront = "front"
	SideBack  = "back"
	SideBoth  = "both"
)

// ErrInvalidLayout is wrapped by every validation failure.
var ErrInvalidLayout = errors.New("cardtpl: invalid layout")

// Layout is a complete cell design together with its sheet geometry.
type Layout struct {
	Name      string       `json:"name,omitempty"`
	Title     string       `json:"title,omitempty"`    // document title
	PageSize  string       `json:"pageSize,omitempty"` // A4, Letter or WxH in mm (default: A4)
	Cell      Box          `json:"cell"`
	Margin    float64      `json:"margin,omitempty"`
	Gap       float64      `json:"gap,omitempty"`
	Padding   float64      `json:"padding,omitempty"`
	Guides    string       `json:"guides,omitempty"`   // none, mesh, crosses (default: none)
	GuideArm  float64      `json:"guideArm,omitempty"` // crop cross half-length (default: 2)
	Color     string       `json:"color,omitempty"`    // default text colour
	Price     *PriceFormat `json:"price,omitempty"`
	Templates []string     `json:"templates,omitempty"` // background PDFs, alternating per page
	Elements  []Element    `json:"elements"`
}

// Box is a width and height in millimetres.
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is one thing drawn in every cell. Type decides which of the other
// fields are relevant.
type Element struct {
	Type string `json:"type"`
	Side string `json:"side,omitempty"` // front, back, both (default: both)

	// Y is the baseline of text, the top edge of a QR symbol or logo and the
	// centre of a circle. Captions measure Y from the bottom of the last QR
	// symbol drawn in the same cell.
	Y float64 `json:"y"`
	X float64 `json:"x,omitempty"` // horizontal offset from the cell centre (circle)

	Text    string  `json:"text,omitempty"`
	Font    string  `json:"font,omitempty"`    // registered face (default: regular)
	Size    float64 `json:"size,omitempty"`    // points; the starting size when Fit is set
	Fit     bool    `json:"fit,omitempty"`     // shrink to the padded cell width
	Leading float64 `json:"leading,omitempty"` // mm between wrapped lines
	Align   string  `json:"align,omitempty"`   // left, center, right (default: center)
	Color   string  `json:"color,omitempty"`   // overrides the layout colour

	Level  string  `json:"level,omitempty"`  // QR error correction: L, M, Q, H
	Fill   string  `json:"fill,omitempty"`   // QR module colour
	Width  float64 `json:"width,omitempty"`  // QR or logo width (default: padded cell width)
	Height float64 `json:"height,omitempty"` // QR height, overrides Width
	Anchor string  `json:"anchor,omitempty"` // "bottom" hangs a logo above Y

	Radius float64 `json:"radius,omitempty"`
	Stroke float64 `json:"stroke,omitempty"` // line width in mm
	Src    string  `json:"src,omitempty"`    // logo file
}

// On reports whether e is drawn on side.
func (e Element) On(side sheet.Side) bool {
	switch e.Side {
	case "", SideBoth:
		return true
	case SideFront:
		return side == sheet.Front
	case SideBack:
		return side == sheet.Back
	}
	return false
}

func (e Element) isText() bool {
	switch e.Type {
	case TypeTitle, TypeSubtitle, TypeText, TypePrice, TypeCaption:
		return true
	}
	return false
}

// Parse decodes and validates a JSON layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("cardtpl: parsing layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads a JSON layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cardtpl: reading layout: %w", err)
	}
	return Parse(data)
}

// Validate checks the layout for mistakes that would only surface halfway
// through a document. Fonts are checked later, against a registry.
func (l *Layout) Validate() error {
	if l.Cell.Width <= 0 || l.Cell.Height <= 0 {
		return fmt.Errorf("%w: cell %gx%g", ErrInvalidLayout, l.Cell.Width, l.Cell.Height)
	}
	if l.Margin < 0 || l.Gap < 0 || l.Padding < 0 || l.GuideArm < 0 {
		return fmt.Errorf("%w: negative margin, gap, padding or guide arm", ErrInvalidLayout)
	}
	if 2*l.Padding >= l.Cell.Width {
		return fmt.Errorf("%w: padding %g leaves no room in a %g mm cell", ErrInvalidLayout, l.Padding, l.Cell.Width)
	}
	if _, err := grid.PageSize(l.PageSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if _, err := parseGuides(l.Guides); err != nil {
		return err
	}
	if l.Color != "" {
		if _, err := draw.Hex(l.Color); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidLayout, err)
		}
	}
	for i, e := range l.Elements {
		if err := e.validate(); err != nil {
			return fmt.Errorf("%w: element %d (%s): %v", ErrInvalidLayout, i, e.Type, err)
		}
	}
	return nil
}

func (e Element) validate() error {
	switch e.Type {
	case TypeTitle, TypeSubtitle, TypeText, TypePrice, TypeCaption:
		if e.Size <= 0 {
			return errors.New("size must be positive")
		}
		if _, err := parseAlign(e.Align); err != nil {
			return err
		}
	case TypeQR:
		if _, err := qrsvg.ParseLevel(orDefault(e.Level, "L")); err != nil {
			return err
		}
		if e.Fill != "" {
			if _, _, _, err := qrsvg.RGB(e.Fill); err != nil {
				return err
			}
		}
	case TypeCircle:
		if e.Radius <= 0 {
			return errors.New("radius must be positive")
		}
	case TypeLogo:
	default:
		return fmt.Errorf("unknown element type %q", e.Type)
	}
	switch e.Side {
	case "", SideFront, SideBack, SideBoth:
	default:
		return fmt.Errorf("unknown side %q", e.Side)
	}
	if e.Color != "" {
		if _, err := draw.Hex(e.Color); err != nil {
			return err
		}
	}
	if e.Width < 0 || e.Height < 0 || e.Leading < 0 || e.Stroke < 0 {
		return errors.New("negative dimension")
	}
	return nil
}

// Sheet returns the sheet geometry of l.
func (l *Layout) Sheet() (sheet.Layout, error) {
	page, err := grid.PageSize(l.PageSize)
	if err != nil {
		return sheet.Layout{}, fmt.Errorf("cardtpl: %w", err)
	}
	guides, err := parseGuides(l.Guides)
	if err != nil {
		return sheet.Layout{}, err
	}
	arm := l.GuideArm
	if guides == grid.CrossGuides && arm == 0 {
		arm = grid.DefaultCrossArm
	}
	return sheet.Layout{
		Cell:     grid.Size{W: l.Cell.Width, H: l.Cell.Height},
		Page:     page,
		Margin:   l.Margin,
		Gap:      l.Gap,
		Guides:   guides,
		GuideArm: arm,
	}, nil
}

func parseGuides(s string) (grid.Guides, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return grid.NoGuides, nil
	case "mesh":
		return grid.MeshGuides, nil
	case "crosses":
		return grid.CrossGuides, nil
	}
	return grid.NoGuides, fmt.Errorf("%w: unknown guides %q", ErrInvalidLayout, s)
}

func parseAlign(s string) (draw.Align, error) {
	switch strings.ToLower(s) {
	case "", "center", "c":
		return draw.AlignCenter, nil
	case "left", "l":
		return draw.AlignLeft, nil
	case "right", "r":
		return draw.AlignRight, nil
	}
	return draw.AlignCenter, fmt.Errorf("unknown alignment %q", s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
