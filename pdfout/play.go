package pdfout

import (
	"errors"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/cosmicflow/tagsheet/draw"
	"github.com/cosmicflow/tagsheet/qrsvg"
	"github.com/cosmicflow/tagsheet/textfit"
)

// bezierSteps is the number of chords a curve segment is flattened into.
const bezierSteps = 8

// player draws ops onto one document. Parsed vectors are reused across
// cells, since logos repeat on every tag.
type player struct {
	pdf     *gofpdf.Fpdf
	fonts   *textfit.Registry
	vectors map[string]*vector
}

func (p *player) play(op draw.Op) error {
	pdf := p.pdf
	switch o := op.(type) {
	case draw.Text:
		if _, err := p.fonts.Face(o.Font); err != nil {
			return err
		}
		pdf.SetFont(o.Font, "", o.Size)
		pdf.SetTextColor(int(o.Color.R), int(o.Color.G), int(o.Color.B))
		x := o.X
		switch o.Align {
		case draw.AlignCenter:
			x -= pdf.GetStringWidth(o.Text) / 2
		case draw.AlignRight:
			x -= pdf.GetStringWidth(o.Text)
		}
		pdf.Text(x, o.Y, o.Text)
	case draw.Line:
		p.stroke(o.Width, o.Color)
		pdf.Line(o.X1, o.Y1, o.X2, o.Y2)
	case draw.Rect:
		p.stroke(o.Width, o.Color)
		pdf.Rect(o.X, o.Y, o.W, o.H, "D")
	case draw.Circle:
		p.stroke(o.Width, o.Color)
		pdf.Circle(o.X, o.Y, o.R, "D")
	case draw.Vector:
		v, err := p.vector(o.SVG)
		if err != nil {
			return err
		}
		v.fill(pdf, o)
	default:
		return fmt.Errorf("unsupported op %T", op)
	}
	return nil
}

func (p *player) stroke(width float64, c draw.Color) {
	if width > 0 {
		p.pdf.SetLineWidth(width)
	}
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func (p *player) vector(svg []byte) (*vector, error) {
	key := string(svg)
	if v, ok := p.vectors[key]; ok {
		return v, nil
	}
	v, err := parseVector(svg)
	if err != nil {
		return nil, err
	}
	p.vectors[key] = v
	return v, nil
}

// point is a vertex in SVG user units.
type point struct{ x, y float64 }

// vector is an SVG document reduced to filled polygons.
type vector struct {
	w, h     float64
	color    draw.Color
	polygons [][]point
}

// ErrEmptyVector is returned for SVG documents without a drawable size.
var ErrEmptyVector = errors.New("pdfout: svg has no width or height")

// parseVector reads the paths of svg. The fill colour is the first fill
// attribute in the document, black if there is none.
func parseVector(svg []byte) (*vector, error) {
	sig, err := gofpdf.SVGBasicParse(svg)
	if err != nil {
		return nil, fmt.Errorf("pdfout: parsing svg: %w", err)
	}
	if sig.Wd <= 0 || sig.Ht <= 0 {
		return nil, ErrEmptyVector
	}
	v := &vector{w: sig.Wd, h: sig.Ht, polygons: flatten(sig.Segments)}
	if hex, err := qrsvg.Fill(svg); err == nil {
		if r, g, b, err := qrsvg.RGB(hex); err == nil {
			v.color = draw.Color{R: uint8(r), G: uint8(g), B: uint8(b)}
		}
	}
	return v, nil
}

// fill draws v scaled into the box of o.
func (v *vector) fill(pdf *gofpdf.Fpdf, o draw.Vector) {
	sx, sy := o.W/v.w, o.H/v.h
	pdf.SetFillColor(int(v.color.R), int(v.color.G), int(v.color.B))
	for _, poly := range v.polygons {
		pts := make([]gofpdf.PointType, len(poly))
		for i, pt := range poly {
			pts[i] = gofpdf.PointType{X: o.X + pt.x*sx, Y: o.Y + pt.y*sy}
		}
		pdf.Polygon(pts, "F")
	}
}

// flatten turns absolute path segments into closed polygons, one per
// subpath. Curves are approximated by chords.
func flatten(paths [][]gofpdf.SVGBasicSegmentType) [][]point {
	var out [][]point
	for _, path := range paths {
		var (
			poly       []point
			cur, start point
		)
		flush := func() {
			if len(poly) >= 3 {
				out = append(out, poly)
			}
			poly = nil
		}
		for _, seg := range path {
			a := seg.Arg
			switch seg.Cmd {
			case 'M':
				flush()
				cur = point{a[0], a[1]}
				start = cur
				poly = []point{cur}
			case 'L':
				cur = point{a[0], a[1]}
				poly = append(poly, cur)
			case 'H':
				cur = point{a[0], cur.y}
				poly = append(poly, cur)
			case 'V':
				cur = point{cur.x, a[0]}
				poly = append(poly, cur)
			case 'C':
				c1, c2, end := point{a[0], a[1]}, point{a[2], a[3]}, point{a[4], a[5]}
				for i := 1; i <= bezierSteps; i++ {
					poly = append(poly, cubic(cur, c1, c2, end, float64(i)/bezierSteps))
				}
				cur = end
			case 'Q':
				c, end := point{a[0], a[1]}, point{a[2], a[3]}
				for i := 1; i <= bezierSteps; i++ {
					poly = append(poly, quad(cur, c, end, float64(i)/bezierSteps))
				}
				cur = end
			case 'Z':
				flush()
				cur = start
			}
		}
		flush()
	}
	return out
}

func cubic(p0, p1, p2, p3 point, t float64) point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return point{
		a*p0.x + b*p1.x + c*p2.x + d*p3.x,
		a*p0.y + b*p1.y + c*p2.y + d*p3.y,
	}
}

func quad(p0, p1, p2 point, t float64) point {
	u := 1 - t
	a, b, c := u*u, 2*u*t, t*t
	return point{a*p0.x + b*p1.x + c*p2.x, a*p0.y + b*p1.y + c*p2.y}
}
