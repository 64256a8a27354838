package theme

import (
	"github.com/charmbracelet/lipgloss"

	"lightmix/palette"
	"lightmix/pixel"
)

// Theme maps UI color roles onto a palette, so swapping the palette restyles
// the whole interface.
type Theme struct {
	Palette *palette.Palette
	Symbols Symbols
}

type Symbols struct {
	StripCursor rune // ▶ selected strip
	StripIdle   rune // space
	SlotEmpty   rune // · empty pattern slot
	SlotLoaded  rune // ■ loaded pattern
	SlotActive  rune // ● active pattern
	SlotNext    rune // ◌ transition target
}

func New(p *palette.Palette) *Theme {
	return &Theme{
		Palette: p,
		Symbols: Symbols{
			StripCursor: '▶',
			StripIdle:   ' ',
			SlotEmpty:   '·',
			SlotLoaded:  '■',
			SlotActive:  '●',
			SlotNext:    '◌',
		},
	}
}

// Default is the stock look: a warm magenta ramp.
func Default() *Theme {
	return New(palette.New("stock",
		pixel.RGB(30, 10, 40),
		pixel.RGB(90, 30, 90),
		pixel.RGB(170, 60, 140),
		pixel.RGB(230, 120, 160),
		pixel.RGB(255, 200, 120),
	))
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.25
	RoleFG      = 0.6
	RoleAccent  = 0.75
	RoleWarning = 1.0
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return t.Color(RoleBG)
}

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

func (t *Theme) Warning() lipgloss.Color {
	return t.Color(RoleWarning)
}

// Color returns a lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}
