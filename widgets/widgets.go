package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lightmix/pixel"
)

// RenderPixel renders a single colored cell
func RenderPixel(c pixel.Color) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	return style.Render("■")
}

// RenderBuffer renders a buffer as a row of colored cells, downsampled to at
// most width cells
func RenderBuffer(buf *pixel.Buffer, width int) string {
	n := buf.Len()
	if n == 0 || width <= 0 {
		return ""
	}
	cells := n
	if cells > width {
		cells = width
	}

	var out strings.Builder
	for i := 0; i < cells; i++ {
		out.WriteString(RenderPixel(buf.Get(i * n / cells)))
	}
	return out.String()
}

// RenderGrid renders a grid-model buffer as rows of colored cells
func RenderGrid(buf *pixel.Buffer, w, h int) string {
	var lines []string
	for row := 0; row < h; row++ {
		var line strings.Builder
		for col := 0; col < w; col++ {
			i := row*w + col
			if i >= buf.Len() {
				break
			}
			line.WriteString(RenderPixel(buf.Get(i)))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderFader renders a horizontal fader bar, e.g. "▰▰▰▱▱▱▱▱ 38%"
func RenderFader(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level*float64(width) + 0.5)

	var out strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			out.WriteRune('▰')
		} else {
			out.WriteRune('▱')
		}
	}
	fmt.Fprintf(&out, " %3.0f%%", level*100)
	return out.String()
}

// RenderCrossfader renders the crossfader position between A and B,
// e.g. "A ▱▱▱▰▱▱▱ B"
func RenderCrossfader(pos float64, width int) string {
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	marker := int(pos * float64(width-1))

	var out strings.Builder
	out.WriteString("A ")
	for i := 0; i < width; i++ {
		if i == marker {
			out.WriteRune('▰')
		} else {
			out.WriteRune('▱')
		}
	}
	out.WriteString(" B")
	return out.String()
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(c pixel.Color, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPixel(c), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
