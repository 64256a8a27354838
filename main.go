package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lightmix/config"
	"lightmix/midictl"
	"lightmix/mixer"
	"lightmix/model"
	"lightmix/palette"
	"lightmix/pattern"
	"lightmix/pixel"
	"lightmix/theme"
	"lightmix/tui"
)

// patternFactory rebuilds saved patterns by name.
func patternFactory(pal *palette.Palette) config.PatternFactory {
	return func(name string) (pattern.Pattern, error) {
		switch name {
		case "solid":
			return pattern.NewSolid(pixel.RGB(255, 40, 0)), nil
		case "gradient":
			return pattern.NewGradient(pal), nil
		case "huecycle":
			return pattern.NewHueCycle(), nil
		case "chase":
			return pattern.NewChase(pixel.White), nil
		case "strobe":
			return pattern.NewStrobe(pixel.White), nil
		}
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
}

func buildModel(cfg *config.Config) *model.Model {
	if cfg.Model.Kind == "grid" && cfg.Model.Width > 0 && cfg.Model.Height > 0 {
		return model.NewGrid(cfg.Model.Width, cfg.Model.Height)
	}
	points := cfg.Model.Points
	if points <= 0 {
		points = 60
	}
	return model.NewStrip(points)
}

// defaultSetup fills an empty mixer with a playable starting point.
func defaultSetup(mix *mixer.Engine, pal *palette.Palette) {
	ch1 := mix.AddChannel("patterns")
	eng := ch1.Patterns()
	eng.AddPattern(pattern.NewGradient(pal))
	eng.AddPattern(pattern.NewChase(pixel.White))
	eng.AddPattern(pattern.NewHueCycle())

	ch2 := mix.AddChannel("accents")
	ch2.BlendName = "add"
	ch2.Fader = 0.6
	ch2.Enabled = false
	ch2.Patterns().AddPattern(pattern.NewStrobe(pixel.White))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	pal, err := palette.LoadGPL("palettes/plasma.gpl")
	if err != nil {
		pal = palette.Rainbow(8)
	}
	th := theme.Default()

	reg := pixel.DefaultRegistry()
	mix := mixer.NewEngine(buildModel(cfg), reg)
	mix.Threaded = cfg.Engine.Threaded

	// Reload the last project, or start from the default setup
	loaded := false
	if cfg.UI.LastProject != "" {
		if err := config.LoadProject(cfg.UI.LastProject, "", mix, patternFactory(pal)); err == nil {
			loaded = true
		}
	}
	if !loaded {
		defaultSetup(mix, pal)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go mix.Run(ctx, cfg.Engine.FPS)

	// MIDI device manager (handles hot-plug)
	deviceMgr := midictl.NewDeviceManager()
	go deviceMgr.Run(ctx)

	m := tui.NewModel(mix, deviceMgr, th, cancel)
	m.ProjectName = cfg.UI.LastProject
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
