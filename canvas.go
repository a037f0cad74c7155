package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qrterm/internal/domain"
)

// topsBottoms indexes half-block glyphs by (top dark) | (bottom dark)<<1.
var topsBottoms = []rune{' ', '▀', '▄', '█'}

// Dark modules are drawn in the foreground colour, so the preview is pinned
// to black on white whatever the terminal theme.
var previewStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("15"))

// Canvas is the terminal rendering of a QR symbol: one column per module
// and two module rows per text line, surrounded by the image's quiet zone.
type Canvas struct {
	cells [][]bool
}

// NewCanvas returns nil when img carries no module matrix.
func NewCanvas(img *domain.Image) *Canvas {
	if img == nil || len(img.Modules) == 0 {
		return nil
	}
	quiet := img.Margin
	if quiet < 0 {
		quiet = 0
	}
	n := len(img.Modules)
	total := n + 2*quiet

	cells := make([][]bool, total)
	for y := range cells {
		cells[y] = make([]bool, total)
		my := y - quiet
		if my < 0 || my >= n {
			continue
		}
		for x := range cells[y] {
			mx := x - quiet
			if mx >= 0 && mx < len(img.Modules[my]) {
				cells[y][x] = img.Modules[my][mx]
			}
		}
	}
	return &Canvas{cells: cells}
}

// Width is the number of terminal columns the canvas needs.
func (c *Canvas) Width() int {
	return len(c.cells)
}

// Height is the number of terminal lines the canvas needs.
func (c *Canvas) Height() int {
	return (len(c.cells) + 1) / 2
}

func (c *Canvas) Fits(width, height int) bool {
	return c.Width() <= width && c.Height() <= height
}

// Render returns the unstyled lines of the canvas.
func (c *Canvas) Render() []string {
	size := len(c.cells)
	lines := make([]string, 0, c.Height())
	for y := 0; y < size; y += 2 {
		var line strings.Builder
		for x := 0; x < size; x++ {
			num := 0
			if c.cells[y][x] {
				num += 1
			}
			if y+1 < size && c.cells[y+1][x] {
				num += 2
			}
			line.WriteRune(topsBottoms[num])
		}
		lines = append(lines, line.String())
	}
	return lines
}

// View renders the styled canvas.
func (c *Canvas) View() string {
	lines := c.Render()
	for i, line := range lines {
		lines[i] = previewStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}
