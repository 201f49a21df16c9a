package grid

import "github.com/cosmicflow/tagsheet/draw"

// GuideWidth is the stroke width of cut guides: 0.4pt in millimetres.
const GuideWidth = 0.4 / PointsPerMM

// DefaultCrossArm is the crop cross half-length used when none is given.
const DefaultCrossArm = 2.0

// Guides selects the cut marks printed on each page.
type Guides int

const (
	NoGuides Guides = iota
	MeshGuides
	CrossGuides
)

// Ops returns the guide primitives for p. arm is the half-length of crop
// crosses and is ignored by the other styles.
func (g Guides) Ops(p Params, arm float64) []draw.Op {
	switch g {
	case MeshGuides:
		return Mesh(p)
	case CrossGuides:
		return Crosses(p, arm)
	}
	return nil
}

// Mesh outlines the grid and draws the lines between cells. With a gap,
// every cell is outlined on its own instead.
func Mesh(p Params) []draw.Op {
	if p.Capacity() == 0 {
		return nil
	}
	if p.Gap > 0 {
		ops := make([]draw.Op, 0, p.Capacity())
		for row := 0; row < p.Rows; row++ {
			for col := 0; col < p.Columns; col++ {
				x, y := p.CellOrigin(row, col)
				ops = append(ops, draw.Rect{X: x, Y: y, W: p.Cell.W, H: p.Cell.H, Width: GuideWidth})
			}
		}
		return ops
	}
	ops := []draw.Op{draw.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height, Width: GuideWidth}}
	for i := 1; i < p.Columns; i++ {
		x := p.X + float64(i)*p.Cell.W
		ops = append(ops, draw.Line{X1: x, Y1: p.Y, X2: x, Y2: p.Y + p.Height, Width: GuideWidth})
	}
	for i := 1; i < p.Rows; i++ {
		y := p.Y + float64(i)*p.Cell.H
		ops = append(ops, draw.Line{X1: p.X, Y1: y, X2: p.X + p.Width, Y2: y, Width: GuideWidth})
	}
	return ops
}

// Crosses draws a crop cross at every grid intersection. Grids with a gap
// have no shared intersections and get none.
func Crosses(p Params, arm float64) []draw.Op {
	if p.Capacity() == 0 || p.Gap > 0 {
		return nil
	}
	ops := make([]draw.Op, 0, 2*(p.Columns+1)*(p.Rows+1))
	for i := 0; i <= p.Columns; i++ {
		for j := 0; j <= p.Rows; j++ {
			x := p.X + float64(i)*p.Cell.W
			y := p.Y + float64(j)*p.Cell.H
			ops = append(ops,
				draw.Line{X1: x, Y1: y - arm, X2: x, Y2: y + arm, Width: GuideWidth},
				draw.Line{X1: x - arm, Y1: y, X2: x + arm, Y2: y, Width: GuideWidth},
			)
		}
	}
	return ops
}
