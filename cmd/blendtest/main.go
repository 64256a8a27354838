package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"lightmix/mixer"
	"lightmix/model"
	"lightmix/palette"
	"lightmix/pattern"
	"lightmix/pixel"
	"lightmix/widgets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "modes":
		listModes()
	case "sweep":
		sweepBlend(arg(2, "add"))
	case "fade":
		fadeTransition(arg(2, "dissolve"))
	case "bench":
		benchTick()
	default:
		usage()
	}
}

func arg(i int, fallback string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return fallback
}

func usage() {
	fmt.Println("Blend Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  modes         - List registered blend modes")
	fmt.Println("  sweep [mode]  - Sweep two layers through a blend mode")
	fmt.Println("  fade [mode]   - Animate a pattern transition")
	fmt.Println("  bench         - Compare sequential vs threaded tick times")
}

func listModes() {
	reg := pixel.DefaultRegistry()
	names := reg.Names()
	sort.Strings(names)

	fmt.Println("=== Registered Blend Modes ===")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
}

// sweepBlend layers a red and a blue channel and walks the second channel's
// fader from 0 to 1, printing the composite each step.
func sweepBlend(mode string) {
	reg := pixel.DefaultRegistry()
	if _, err := reg.Get(mode); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	mix := mixer.NewEngine(model.NewStrip(32), reg)
	base := mix.AddChannel("base")
	base.Patterns().AddPattern(pattern.NewGradient(palette.Rainbow(8)))

	layer := mix.AddChannel("layer")
	layer.BlendName = mode
	layer.Patterns().AddPattern(pattern.NewSolid(pixel.RGB(0, 80, 255)))

	fmt.Printf("=== %s, layer fader 0 -> 1 ===\n", mode)
	for i := 0; i <= 10; i++ {
		mix.SetFader(layer, float64(i)/10)
		mix.Tick(16)
		fmt.Printf("%4.1f %s\n", float64(i)/10, widgets.RenderBuffer(mix.Output(), 32))
	}
}

// fadeTransition runs a pattern change and prints the crossfade as it plays.
func fadeTransition(mode string) {
	mix := mixer.NewEngine(model.NewStrip(32), pixel.DefaultRegistry())
	ch := mix.AddChannel("demo")
	eng := ch.Patterns()
	eng.TransitionBlend = mode
	eng.TransitionDurationMs = 1000
	eng.AddPattern(pattern.NewSolid(pixel.RGB(255, 0, 0)))
	eng.AddPattern(pattern.NewSolid(pixel.RGB(0, 0, 255)))

	mix.Tick(16)
	mix.Do(func() { eng.GoPatternIndex(1) })

	fmt.Printf("=== %s transition, 1000ms ===\n", mode)
	for t := 0; t <= 1000; t += 100 {
		mix.Tick(100)
		fmt.Printf("%5dms %s\n", t, widgets.RenderBuffer(mix.Output(), 32))
	}
}

// benchTick compares sequential and threaded tick times on a wide model.
func benchTick() {
	points := 10000
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil {
			points = n
		}
	}

	build := func(threaded bool) *mixer.Engine {
		mix := mixer.NewEngine(model.NewStrip(points), pixel.DefaultRegistry())
		mix.Threaded = threaded
		for i := 0; i < 8; i++ {
			ch := mix.AddChannel(fmt.Sprintf("ch%d", i))
			ch.BlendName = "add"
			ch.Patterns().AddPattern(pattern.NewGradient(palette.Rainbow(8)))
		}
		return mix
	}

	const ticks = 200
	for _, threaded := range []bool{false, true} {
		mix := build(threaded)
		mix.Tick(16) // warm up workers
		start := time.Now()
		for i := 0; i < ticks; i++ {
			mix.Tick(16)
		}
		elapsed := time.Since(start)
		mix.Dispose()

		label := "sequential"
		if threaded {
			label = "threaded  "
		}
		fmt.Printf("%s  %d points x %d ticks: %v (%.2fms/tick)\n",
			label, points, ticks, elapsed, float64(elapsed.Microseconds())/1000/ticks)
	}
}
