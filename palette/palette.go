package palette

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"lightmix/pixel"
)

// Palette is an ordered color ramp sampled by gradient generators.
type Palette struct {
	Name   string
	Colors []pixel.Color
}

// New creates a palette from explicit colors.
func New(name string, colors ...pixel.Color) *Palette {
	return &Palette{Name: name, Colors: colors}
}

// Rainbow builds a full hue sweep with n stops.
func Rainbow(n int) *Palette {
	p := &Palette{Name: "rainbow"}
	for i := 0; i < n; i++ {
		h := 360 * float64(i) / float64(n)
		p.Colors = append(p.Colors, pixel.FromColorful(colorful.Hsv(h, 1, 1)))
	}
	return p
}

// LoadGPL parses a GIMP palette file.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// Parse RGB values (first 3 fields are R G B)
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil {
				p.Colors = append(p.Colors, pixel.RGB(uint8(r), uint8(g), uint8(b)))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// MustLoadGPL panics on load failure, for wiring code with bundled palettes.
func MustLoadGPL(path string) *Palette {
	p, err := LoadGPL(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load palette %s: %v", path, err))
	}
	return p
}

// Lookup returns the interpolated color for normalized value 0-1.
func (p *Palette) Lookup(norm float64) pixel.Color {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	return pixel.LerpColor(p.Colors[i], p.Colors[i+1], frac)
}

// Index returns the color at a specific stop (no interpolation).
func (p *Palette) Index(i int) pixel.Color {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}
