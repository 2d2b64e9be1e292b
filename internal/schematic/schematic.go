// Package schematic draws the cabinet grid preview as SVG.
package schematic

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/ledwall/internal/pricing"
)

const (
	padding = 0.05
	minSpan = 0.5

	outerStroke = 0.02
	gridStroke  = 0.01
)

// Render returns an SVG of a columns x rows grid of cabinets in meters.
// The outer boundary and every internal grid line are drawn exactly once and
// the viewBox keeps a 1:1 aspect ratio.
func Render(columns, rows int) (string, error) {
	if columns < 1 || rows < 1 {
		return "", fmt.Errorf("grid must be at least 1x1, got %dx%d", columns, rows)
	}

	wall := pricing.WallSpec{Columns: columns, Rows: rows}
	width, height := wall.Width(), wall.Height()

	viewW := math.Max(minSpan, width+padding) + padding
	viewH := math.Max(minSpan, height+padding) + padding

	var elements []string
	elements = append(elements, fmt.Sprintf(`<rect x="0" y="0" width="%s" height="%s" fill="none" stroke="#004080" stroke-width="%s" />`,
		formatFloat(width), formatFloat(height), formatFloat(outerStroke)))
	elements = append(elements, verticalLines(columns, height)...)
	elements = append(elements, horizontalLines(rows, width)...)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet" data-columns="%d" data-rows="%d">`,
		formatFloat(-padding), formatFloat(-padding), formatFloat(viewW), formatFloat(viewH), columns, rows))
	builder.WriteString("\n")

	// SVG's y axis points down; flip so row 0 sits at the bottom like the plot axes.
	builder.WriteString(fmt.Sprintf(`  <g transform="translate(0 %s) scale(1 -1)">`, formatFloat(height)))
	builder.WriteString("\n")
	for _, elem := range elements {
		builder.WriteString("    ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}
	builder.WriteString("  </g>\n")

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func verticalLines(columns int, height float64) []string {
	out := make([]string, 0, columns-1)
	for c := 1; c < columns; c++ {
		x := float64(c) * pricing.CabinetWidth
		out = append(out, line(x, 0, x, height))
	}
	return out
}

func horizontalLines(rows int, width float64) []string {
	out := make([]string, 0, rows-1)
	for r := 1; r < rows; r++ {
		y := float64(r) * pricing.CabinetHeight
		out = append(out, line(0, y, width, y))
	}
	return out
}

func line(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#004080" stroke-width="%s" />`,
		formatFloat(x1), formatFloat(y1), formatFloat(x2), formatFloat(y2), formatFloat(gridStroke))
}

// formatFloat rounds to micrometers so float noise from padding never reaches the markup.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
