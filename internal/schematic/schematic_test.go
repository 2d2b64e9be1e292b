package schematic

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type svgDoc struct {
	ViewBox string `xml:"viewBox,attr"`
	Group   struct {
		Rects []struct {
			Width  string `xml:"width,attr"`
			Height string `xml:"height,attr"`
		} `xml:"rect"`
		Lines []struct {
			X1 string `xml:"x1,attr"`
			Y1 string `xml:"y1,attr"`
			X2 string `xml:"x2,attr"`
			Y2 string `xml:"y2,attr"`
		} `xml:"line"`
	} `xml:"g"`
}

func parse(t *testing.T, svg string) svgDoc {
	t.Helper()
	var doc svgDoc
	require.NoError(t, xml.Unmarshal([]byte(svg), &doc))
	return doc
}

func TestRender_DrawsEachGridLineOnce(t *testing.T) {
	svg, err := Render(10, 3)
	require.NoError(t, err)

	doc := parse(t, svg)

	require.Len(t, doc.Group.Rects, 1)
	assert.Equal(t, "5", doc.Group.Rects[0].Width)
	assert.Equal(t, "1.5", doc.Group.Rects[0].Height)
	assert.Len(t, doc.Group.Lines, 9+2)

	seen := make(map[string]bool)
	for _, l := range doc.Group.Lines {
		key := l.X1 + "," + l.Y1 + "," + l.X2 + "," + l.Y2
		assert.False(t, seen[key], "line %s drawn twice", key)
		seen[key] = true
	}
	assert.True(t, seen["0.5,0,0.5,1.5"])
	assert.True(t, seen["0,1,5,1"])
}

func TestRender_SingleCabinetHasNoInternalLines(t *testing.T) {
	svg, err := Render(1, 1)
	require.NoError(t, err)

	doc := parse(t, svg)

	assert.Empty(t, doc.Group.Lines)
	assert.Equal(t, "-0.05 -0.05 0.6 0.6", doc.ViewBox)
}

func TestRender_ViewBoxKeepsAspectRatio(t *testing.T) {
	svg, err := Render(40, 20)
	require.NoError(t, err)

	doc := parse(t, svg)

	assert.Equal(t, "-0.05 -0.05 20.1 10.1", doc.ViewBox)
	assert.Contains(t, svg, `preserveAspectRatio="xMidYMid meet"`)
	assert.Len(t, doc.Group.Lines, 39+19)
}

func TestRender_RejectsEmptyGrid(t *testing.T) {
	_, err := Render(0, 3)
	assert.Error(t, err)

	_, err = Render(3, -1)
	assert.Error(t, err)
}

func TestRender_IsStandaloneSVG(t *testing.T) {
	svg, err := Render(2, 2)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.True(t, strings.HasSuffix(svg, `</svg>`))
}
