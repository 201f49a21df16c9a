package pdfout

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicflow/tagsheet/draw"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/overlay"
	"github.com/cosmicflow/tagsheet/qrsvg"
	"github.com/cosmicflow/tagsheet/textfit"
)

func samplePage(t *testing.T) []draw.Op {
	t.Helper()
	code, err := qrsvg.Generate("https://cosmicflowch.art/p/ac0101", qrsvg.Options{Fill: "#e5ccff"})
	require.NoError(t, err)
	return []draw.Op{
		draw.Rect{X: 15, Y: 18.5, W: 180, H: 260, Width: grid.GuideWidth},
		draw.Line{X1: 45, Y1: 18.5, X2: 45, Y2: 278.5, Width: grid.GuideWidth},
		draw.Circle{X: 30, Y: 24.5, R: 2, Width: 0.35},
		draw.Text{X: 30, Y: 56.5, Text: "Lavender", Font: textfit.Bold, Size: 12, Align: draw.AlignCenter},
		draw.Text{X: 17, Y: 61.5, Text: "200 g", Font: textfit.Medium, Size: 8, Align: draw.AlignLeft},
		draw.Text{X: 43, Y: 66.5, Text: "120 kr", Font: textfit.Regular, Size: 8, Align: draw.AlignRight, Color: draw.MustHex("#e5ccff")},
		draw.Vector{X: 17, Y: 32.5, W: 26, H: 26, SVG: code},
	}
}

func sampleDoc(t *testing.T, pages int) Document {
	doc := Document{Title: "Price Tags", Page: grid.A4}
	for i := 0; i < pages; i++ {
		doc.Pages = append(doc.Pages, samplePage(t))
	}
	return doc
}

func templatePDF(t *testing.T, dir string, page grid.Size) string {
	t.Helper()
	path := filepath.Join(dir, page.String()+".pdf")
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm", Size: gofpdf.SizeType{Wd: page.W, Ht: page.H}})
	pdf.AddPage()
	pdf.SetFillColor(40, 20, 60)
	pdf.Rect(0, 0, page.W, page.H, "F")
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleDoc(t, 2), WithCompression(false), WithCreationDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "/Title")
	assert.Contains(t, string(out), "/Count 2")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.pdf")
	require.NoError(t, WriteFile(path, sampleDoc(t, 3)))

	n, err := overlay.PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWriteFileWithTemplates(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDoc(t, 4)
	doc.Templates = []string{templatePDF(t, dir, grid.A4), templatePDF(t, dir, grid.A4)}

	path := filepath.Join(dir, "cards.pdf")
	require.NoError(t, WriteFile(path, doc))
	n, err := overlay.PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestTemplateMismatchWritesNoFile(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDoc(t, 2)
	doc.Templates = []string{templatePDF(t, dir, grid.A4), templatePDF(t, dir, grid.Letter)}

	path := filepath.Join(dir, "cards.pdf")
	err := WriteFile(path, doc)
	var mismatch *overlay.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 1, mismatch.Index)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnknownFont(t *testing.T) {
	doc := Document{Page: grid.A4, Pages: [][]draw.Op{{
		draw.Text{X: 10, Y: 10, Text: "x", Font: "script", Size: 10},
	}}}
	path := filepath.Join(t.TempDir(), "out.pdf")
	err := WriteFile(path, doc)
	assert.ErrorIs(t, err, textfit.ErrUnknownFont)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEmptyDocuments(t *testing.T) {
	_, err := Bytes(Document{Page: grid.A4})
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = Bytes(Document{Pages: [][]draw.Op{{}}})
	assert.ErrorIs(t, err, ErrNoPageSize)
}

func TestBadVector(t *testing.T) {
	doc := Document{Page: grid.A4, Pages: [][]draw.Op{{
		draw.Vector{X: 0, Y: 0, W: 10, H: 10, SVG: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
	}}}
	_, err := Bytes(doc)
	assert.Error(t, err)
}

func TestParseVector(t *testing.T) {
	m := &qrsvg.Matrix{Size: 2, Modules: [][]bool{{true, true}, {false, true}}}
	v, err := parseVector(m.SVG("#336699", 1))
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.w)
	assert.Equal(t, 4.0, v.h)
	assert.Equal(t, draw.Color{R: 0x33, G: 0x66, B: 0x99}, v.color)

	// One rectangle per horizontal run.
	require.Len(t, v.polygons, 2)
	assert.Equal(t, []point{{1, 1}, {3, 1}, {3, 2}, {1, 2}}, v.polygons[0])
	assert.Equal(t, []point{{2, 2}, {3, 2}, {3, 3}, {2, 3}}, v.polygons[1])
}

func TestFlattenCurves(t *testing.T) {
	paths := [][]gofpdf.SVGBasicSegmentType{{
		{Cmd: 'M', Arg: [6]float64{0, 0}},
		{Cmd: 'C', Arg: [6]float64{0, 10, 10, 10, 10, 0}},
		{Cmd: 'Q', Arg: [6]float64{5, -5, 0, 0}},
		{Cmd: 'Z'},
		{Cmd: 'M', Arg: [6]float64{20, 20}},
		{Cmd: 'L', Arg: [6]float64{21, 20}},
		{Cmd: 'Z'},
	}}
	polys := flatten(paths)
	require.Len(t, polys, 1, "degenerate subpaths are dropped")
	assert.Len(t, polys[0], 1+2*bezierSteps)
	assert.Equal(t, point{10, 0}, polys[0][bezierSteps])
	mid := polys[0][bezierSteps/2]
	assert.InDelta(t, 5, mid.x, 1e-9)
	assert.InDelta(t, 7.5, mid.y, 1e-9)
}

func TestPDFError(t *testing.T) {
	inner := errors.New("boom")
	err := newPDFError("AddPage", inner)
	assert.Equal(t, "pdfout.AddPage: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "pdfout.Output: unknown error", (&PDFError{Op: "Output"}).Error())
}
