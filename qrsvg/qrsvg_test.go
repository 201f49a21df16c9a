package qrsvg

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://example.test/p/kc0001"

var pathData = regexp.MustCompile(`d="([^"]*)"`)

func TestGenerateLevelsDiffer(t *testing.T) {
	low, err := Generate(testURL, Options{Level: LevelL})
	require.NoError(t, err)
	high, err := Generate(testURL, Options{Level: LevelH})
	require.NoError(t, err)

	for _, svg := range [][]byte{low, high} {
		assert.Contains(t, string(svg), "<path ")
		assert.Contains(t, string(svg), `fill="#000000"`)
		assert.NotContains(t, string(svg), "<rect")
	}
	assert.False(t, bytes.Equal(low, high))

	lm, err := Encode(testURL, LevelL)
	require.NoError(t, err)
	hm, err := Encode(testURL, LevelH)
	require.NoError(t, err)
	assert.Greater(t, hm.Size, lm.Size)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(testURL, Options{Level: LevelM})
	require.NoError(t, err)
	b, err := Generate(testURL, Options{Level: LevelM})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMatrixFinderPatterns(t *testing.T) {
	m, err := Encode(testURL, LevelH)
	require.NoError(t, err)
	require.Len(t, m.Modules, m.Size)

	n := m.Size
	for i := 0; i < 7; i++ {
		assert.True(t, m.Modules[0][i], "top-left finder row")
		assert.True(t, m.Modules[0][n-1-i], "top-right finder row")
		assert.True(t, m.Modules[n-1][i], "bottom-left finder row")
	}
	// Separator next to the top-left finder is light.
	assert.False(t, m.Modules[7][0])
}

func TestSVGDimensionsIncludeBorder(t *testing.T) {
	m, err := Encode(testURL, LevelL)
	require.NoError(t, err)

	svg := string(m.SVG(DefaultFill, 4))
	dim := m.Size + 8
	assert.Contains(t, svg, `viewBox="0 0 `+strconv.Itoa(dim)+` `+strconv.Itoa(dim)+`"`)
	assert.Contains(t, svg, `width="`+strconv.Itoa(dim)+`"`)
	assert.True(t, strings.HasPrefix(pathData.FindStringSubmatch(svg)[1], "M 4 4 "))
}

func TestRecolorKeepsGeometry(t *testing.T) {
	svg, err := Generate(testURL, Options{Level: LevelH})
	require.NoError(t, err)

	recolored, err := Recolor(svg, "#e5ccff")
	require.NoError(t, err)

	fill, err := Fill(recolored)
	require.NoError(t, err)
	assert.Equal(t, "#e5ccff", fill)
	assert.NotContains(t, string(recolored), DefaultFill)
	assert.Equal(t, pathData.FindSubmatch(svg)[1], pathData.FindSubmatch(recolored)[1])
}

func TestRecolorErrors(t *testing.T) {
	svg, err := Generate(testURL, Options{})
	require.NoError(t, err)

	for _, bad := range []string{"e5ccff", "#e5ccf", "#gggggg", ""} {
		_, err := Recolor(svg, bad)
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}

	_, err = Recolor([]byte(`<svg><path d="M 0 0 Z"/></svg>`), "#fff")
	assert.ErrorIs(t, err, ErrNoFill)
}

func TestGenerateWithFill(t *testing.T) {
	svg, err := Generate(testURL, Options{Level: LevelH, Fill: "#abc"})
	require.NoError(t, err)
	fill, err := Fill(svg)
	require.NoError(t, err)
	assert.Equal(t, "#abc", fill)

	_, err = Generate(testURL, Options{Fill: "black"})
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestGenerateCapacityExceeded(t *testing.T) {
	long := "https://example.test/p/" + strings.Repeat("kc0001", 500)

	_, err := Generate(long, Options{Level: LevelH})
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr), "got %v", err)
	assert.Equal(t, LevelH, encErr.Level)
	assert.Equal(t, long, encErr.Content)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"l": LevelL, "M": LevelM, "q": LevelQ, "high": LevelH} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("X")
	assert.Error(t, err)
	assert.Equal(t, "H", LevelH.String())
}

func TestRGB(t *testing.T) {
	r, g, b, err := RGB("#e5ccff")
	require.NoError(t, err)
	assert.Equal(t, []int{0xe5, 0xcc, 0xff}, []int{r, g, b})

	r, g, b, err = RGB("#fa0")
	require.NoError(t, err)
	assert.Equal(t, []int{0xff, 0xaa, 0x00}, []int{r, g, b})

	_, _, _, err = RGB("red")
	assert.ErrorIs(t, err, ErrInvalidColor)
}
