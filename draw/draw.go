// Package draw defines the immutable drawing primitives that cell renderers
// emit and the PDF backend plays back in order.
//
// All coordinates are absolute page coordinates in millimetres with the
// origin at the top-left corner; font sizes are in points.
package draw

import (
	"fmt"
	"strconv"
)

// Color is an 8-bit RGB colour.
type Color struct {
	R, G, B uint8
}

// Black is the zero Color.
var Black = Color{}

// Hex parses #rgb or #rrggbb.
func Hex(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("draw: invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("draw: invalid color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is like Hex but panics on malformed input.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Align anchors a text run horizontally on its X coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Op is one drawing primitive. The set of implementations is closed.
type Op interface {
	op()
}

// Text draws a single line with its baseline at Y.
type Text struct {
	X, Y  float64
	Text  string
	Font  string // registered face name
	Size  float64
	Color Color
	Align Align
}

// Line strokes a segment. Width is in millimetres.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
}

// Rect strokes an axis-aligned rectangle whose top-left corner is X, Y.
type Rect struct {
	X, Y, W, H float64
	Width      float64
	Color      Color
}

// Circle strokes a circle centred on X, Y.
type Circle struct {
	X, Y, R float64
	Width   float64
	Color   Color
}

// Vector places a path-based SVG document with its top-left corner at X, Y,
// scaled uniformly so that its width becomes W. H is the resulting height.
// Path fills come from the document itself.
type Vector struct {
	X, Y, W, H float64
	SVG        []byte
}

func (Text) op()   {}
func (Line) op()   {}
func (Rect) op()   {}
func (Circle) op() {}
func (Vector) op() {}

// Texts returns the text runs in ops, in order.
func Texts(ops []Op) []Text {
	var out []Text
	for _, o := range ops {
		if t, ok := o.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}
