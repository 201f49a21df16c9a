package cardtpl

import "github.com/cosmicflow/tagsheet/textfit"

// Names of the built-in layouts.
const (
	PriceTagName    = "price-tag"
	BackingCardName = "backing-card"
)

// BackingCardColor is the lilac used for all backing card artwork.
const BackingCardColor = "#e5ccff"

const scanText = "Scan for more info"

// PriceTag is a 30×52 mm hanging tag. The front carries the logo, title and
// subtitle; the back carries the QR code, its caption and the price. Both
// sides have a punch circle and crop crosses at the cell corners.
func PriceTag() *Layout {
	return &Layout{
		Name:     PriceTagName,
		Title:    "Price Tags",
		PageSize: "A4",
		Cell:     Box{Width: 30, Height: 52},
		Margin:   10,
		Padding:  2,
		Guides:   "crosses",
		GuideArm: 2,
		Price:    &PriceFormat{Suffix: " kr"},
		Elements: []Element{
			{Type: TypeCircle, Side: SideBoth, Y: 6, Radius: 2},
			{Type: TypeLogo, Side: SideFront, Y: 30, Anchor: "bottom"},
			{Type: TypeTitle, Side: SideFront, Y: 38, Font: textfit.Bold, Size: 12, Fit: true},
			{Type: TypeSubtitle, Side: SideFront, Y: 43, Font: textfit.Medium, Size: 8, Leading: 3},
			{Type: TypeText, Side: SideBack, Y: 13, Text: scanText, Font: textfit.Bold, Size: 8},
			{Type: TypeQR, Side: SideBack, Y: 14, Level: "L"},
			{Type: TypeCaption, Side: SideBack, Y: 2, Font: textfit.Regular, Size: 5},
			{Type: TypePrice, Side: SideBack, Y: 48, Font: textfit.Bold, Size: 12},
		},
	}
}

// PriceTagWithoutLogo is PriceTag with the logo element removed.
func PriceTagWithoutLogo() *Layout {
	l := PriceTag()
	kept := l.Elements[:0]
	for _, e := range l.Elements {
		if e.Type != TypeLogo {
			kept = append(kept, e)
		}
	}
	l.Elements = kept
	return l
}

// BackingCard is a 53×85 mm card printed over pre-authored artwork, three
// by three on A4 with a 2 mm gutter.
func BackingCard() *Layout {
	return &Layout{
		Name:      BackingCardName,
		Title:     "Backing Cards",
		PageSize:  "A4",
		Cell:      Box{Width: 53, Height: 85},
		Margin:    10,
		Gap:       2,
		Padding:   4,
		Color:     BackingCardColor,
		Price:     &PriceFormat{Suffix: " kr"},
		Templates: []string{"backing-cards-front.pdf", "backing-cards-back.pdf"},
		Elements: []Element{
			{Type: TypeTitle, Side: SideFront, Y: 10, Font: textfit.Bold, Size: 20, Fit: true},
			{Type: TypeSubtitle, Side: SideFront, Y: 15, Font: textfit.Medium, Size: 12, Leading: 4},
			{Type: TypeText, Side: SideBack, Y: 38, Text: scanText, Font: textfit.Bold, Size: 10},
			{Type: TypeQR, Side: SideBack, Y: 40, Height: 30, Level: "H", Fill: BackingCardColor},
			{Type: TypeCaption, Side: SideBack, Y: 3, Font: textfit.Regular, Size: 7},
			{Type: TypePrice, Side: SideBack, Y: 80, Font: textfit.Bold, Size: 16},
		},
	}
}

// Builtin returns a fresh copy of the named built-in layout.
func Builtin(name string) (*Layout, bool) {
	switch name {
	case PriceTagName:
		return PriceTag(), true
	case BackingCardName:
		return BackingCard(), true
	}
	return nil, false
}
