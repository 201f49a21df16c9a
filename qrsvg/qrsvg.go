// Package qrsvg encodes URLs as QR codes and renders them as path-based SVG
// documents, so the symbol can be scaled to any footprint without loss.
//
// The SVG has a single <path> whose fill attribute carries the module
// colour. Recolor swaps that attribute without touching the geometry.
package qrsvg

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// Level is a QR error-correction level.
type Level int

const (
	LevelL Level = iota // ~7% redundancy
	LevelM              // ~15% redundancy
	LevelQ              // ~25% redundancy
	LevelH              // ~30% redundancy; use under heavy recolouring
)

// DefaultFill is the module colour of a freshly generated code.
const DefaultFill = "#000000"

// ErrInvalidColor is returned for fill colours that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("qrsvg: invalid hex color")

// ErrNoFill is returned when an SVG document carries no fill attribute.
var ErrNoFill = errors.New("qrsvg: no fill attribute")

// EncodingError reports a payload that does not fit any symbol version at
// the requested error-correction level.
type EncodingError struct {
	Content string
	Level   Level
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("qrsvg: encoding %q at level %s: %v", e.Content, e.Level, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	case LevelH:
		return "H"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel accepts L, M, Q or H in either case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LOW":
		return LevelL, nil
	case "M", "MEDIUM":
		return LevelM, nil
	case "Q", "QUARTILE":
		return LevelQ, nil
	case "H", "HIGH":
		return LevelH, nil
	}
	return 0, fmt.Errorf("qrsvg: unknown error correction level %q", s)
}

func (l Level) barcodeLevel() (qr.ErrorCorrectionLevel, error) {
	switch l {
	case LevelL:
		return qr.L, nil
	case LevelM:
		return qr.M, nil
	case LevelQ:
		return qr.Q, nil
	case LevelH:
		return qr.H, nil
	}
	return 0, fmt.Errorf("qrsvg: unknown error correction level %d", int(l))
}

// Options control symbol generation.
type Options struct {
	Level  Level  // error-correction level (default LevelL)
	Fill   string // module colour (default DefaultFill)
	Border int    // quiet zone in modules (default 0)
}

// Matrix is the module grid of an encoded symbol; true marks a dark module.
type Matrix struct {
	Size    int
	Modules [][]bool
}

// Encode builds the module matrix for content.
func Encode(content string, level Level) (*Matrix, error) {
	ecl, err := level.barcodeLevel()
	if err != nil {
		return nil, err
	}
	code, err := qr.Encode(content, ecl, qr.Auto)
	if err != nil {
		return nil, &EncodingError{Content: content, Level: level, Err: err}
	}
	return matrixOf(code), nil
}

func matrixOf(code barcode.Barcode) *Matrix {
	b := code.Bounds()
	n := b.Dx()
	m := &Matrix{Size: n, Modules: make([][]bool, n)}
	for y := 0; y < n; y++ {
		row := make([]bool, n)
		for x := 0; x < n; x++ {
			row[x] = isDark(code.At(b.Min.X+x, b.Min.Y+y))
		}
		m.Modules[y] = row
	}
	return m
}

func isDark(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y < 0x80
}

// Generate encodes url and renders it as an SVG document whose user unit is
// one module.
func Generate(url string, opts Options) ([]byte, error) {
	fill := opts.Fill
	if fill == "" {
		fill = DefaultFill
	}
	if err := validateColor(fill); err != nil {
		return nil, err
	}
	if opts.Border < 0 {
		return nil, fmt.Errorf("qrsvg: negative border %d", opts.Border)
	}
	m, err := Encode(url, opts.Level)
	if err != nil {
		return nil, err
	}
	return m.SVG(fill, opts.Border), nil
}

// SVG renders the matrix. Horizontal runs of dark modules become one
// rectangle each, expressed with absolute M/H/V/Z commands.
func (m *Matrix) SVG(fill string, border int) []byte {
	dim := m.Size + 2*border
	var path strings.Builder
	for y, row := range m.Modules {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			fmt.Fprintf(&path, "M %d %d H %d V %d H %d Z ",
				start+border, y+border, x+border, y+border+1, start+border)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, dim, dim, dim, dim)
	fmt.Fprintf(&buf, `<path d="%s" fill="%s"/>`, strings.TrimSpace(path.String()), fill)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var (
	fillAttr = regexp.MustCompile(`fill="([^"]*)"`)
	hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

func validateColor(hex string) error {
	if !hexColor.MatchString(hex) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return nil
}

// Recolor replaces every fill attribute in svg with hex.
func Recolor(svg []byte, hex string) ([]byte, error) {
	if err := validateColor(hex); err != nil {
		return nil, err
	}
	if !fillAttr.Match(svg) {
		return nil, ErrNoFill
	}
	return fillAttr.ReplaceAll(svg, []byte(`fill="`+hex+`"`)), nil
}

// Fill returns the first fill colour in svg.
func Fill(svg []byte) (string, error) {
	m := fillAttr.FindSubmatch(svg)
	if m == nil {
		return "", ErrNoFill
	}
	return string(m[1]), nil
}

// RGB converts a #rgb or #rrggbb colour to 8-bit components.
func RGB(hex string) (r, g, b int, err error) {
	if err := validateColor(hex); err != nil {
		return 0, 0, 0, err
	}
	digits := hex[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}
