package textfit

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Width returns the advance width of text in points when set at size points.
// Kerning is not applied. Runes missing from the font measure as the
// font's .notdef glyph.
func (f *Face) Width(text string, size float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	var buf sfnt.Buffer
	// At ppem == unitsPerEm advances come back in font units.
	ppem := fixed.I(int(f.upem))
	var units fixed.Int26_6
	for _, r := range text {
		idx, err := f.font.GlyphIndex(&buf, r)
		if err != nil {
			continue
		}
		adv, err := f.font.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		units += adv
	}
	return float64(units) / 64 * size / f.upem
}

// MaxFittingSize returns startSize when text already fits maxWidth at that
// size. Otherwise it scales startSize down proportionally and floors the
// result to a whole point. The estimate assumes width grows linearly with
// size, which holds for outline fonts; it is never larger than startSize.
func (f *Face) MaxFittingSize(text string, maxWidth, startSize float64) float64 {
	if maxWidth <= 0 {
		return 0
	}
	natural := f.Width(text, startSize)
	if natural <= maxWidth {
		return startSize
	}
	return math.Floor(startSize * maxWidth / natural)
}

// Wrap greedily breaks text into lines no wider than maxWidth points.
//
// Only U+0020 separates words, so tokens joined with a no-break space
// (U+00A0) always stay on one line. A word wider than maxWidth on its own
// still gets a line of its own; it is neither hyphenated nor truncated.
// A word never follows an empty line start, so leading or doubled spaces
// do not produce blank or space-prefixed lines. Empty text yields one
// empty line.
func (f *Face) Wrap(text string, size, maxWidth float64) []string {
	words := strings.Split(text, " ")
	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := len(lines) - 1
		if lines[last] == "" {
			lines[last] = word
			continue
		}
		candidate := lines[last] + " " + word
		if f.Width(candidate, size) <= maxWidth {
			lines[last] = candidate
		} else {
			lines = append(lines, word)
		}
	}
	return lines
}
