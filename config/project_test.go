package config

import (
	"fmt"
	"testing"

	"lightmix/mixer"
	"lightmix/model"
	"lightmix/pattern"
	"lightmix/pixel"
)

func testFactory(name string) (pattern.Pattern, error) {
	switch name {
	case "solid":
		return pattern.NewSolid(pixel.RGB(255, 0, 0)), nil
	case "chase":
		return pattern.NewChase(pixel.RGB(0, 255, 0)), nil
	case "huecycle":
		return pattern.NewHueCycle(), nil
	}
	return nil, fmt.Errorf("unknown pattern %q", name)
}

func buildMixer(t *testing.T) *mixer.Engine {
	t.Helper()
	e := mixer.NewEngine(model.NewStrip(8), pixel.DefaultRegistry())

	ch1 := e.AddChannel("waves")
	ch1.Fader = 0.8
	ch1.Crossfade = mixer.CrossfadeA
	eng := ch1.Patterns()
	eng.TransitionDurationMs = 2500
	eng.AutoCycleEnabled = true
	eng.AutoCycleMs = 30000
	s1 := eng.AddPattern(pattern.NewSolid(pixel.RGB(255, 0, 0)))
	s1.CustomCycleMs = 5000
	s2 := eng.AddPattern(pattern.NewChase(pixel.RGB(0, 255, 0)))
	s2.AutoCycleEligible = false
	eng.AddPattern(pattern.NewHueCycle())
	eng.SetActiveIndex(2)

	g := e.AddGroup("backdrop")
	g.Fader = 0.5
	ch2 := e.AddChannel("fill")
	ch2.BlendName = "add"
	ch2.Patterns().AddPattern(pattern.NewSolid(pixel.RGB(255, 0, 0)))
	if err := e.GroupChannel(g, ch2); err != nil {
		t.Fatal(err)
	}

	e.Crossfader.Position = 0.25
	e.Master().Fader = 0.9
	return e
}

func TestProjectRoundTrip(t *testing.T) {
	src := buildMixer(t)
	snap := Snapshot(src)

	dst := mixer.NewEngine(model.NewStrip(8), pixel.DefaultRegistry())
	if err := snap.Apply(dst, testFactory); err != nil {
		t.Fatal(err)
	}

	if dst.Crossfader.Position != 0.25 {
		t.Errorf("crossfader = %v, want 0.25", dst.Crossfader.Position)
	}
	if dst.Master().Fader != 0.9 {
		t.Errorf("master fader = %v, want 0.9", dst.Master().Fader)
	}

	strips := dst.Strips()
	if len(strips) != 2 {
		t.Fatalf("strips = %d, want 2", len(strips))
	}

	ch1, ok := strips[0].(*mixer.Channel)
	if !ok {
		t.Fatalf("strip 0 is %T, want channel", strips[0])
	}
	if ch1.Name != "waves" || ch1.Fader != 0.8 || ch1.Crossfade != mixer.CrossfadeA {
		t.Errorf("channel bus not restored: %+v", ch1.Bus)
	}

	eng := ch1.Patterns()
	if eng.TransitionDurationMs != 2500 {
		t.Errorf("transition duration = %v, want 2500", eng.TransitionDurationMs)
	}
	if !eng.AutoCycleEnabled || eng.AutoCycleMs != 30000 {
		t.Errorf("auto cycle not restored")
	}

	slots := eng.Patterns()
	if len(slots) != 3 {
		t.Fatalf("patterns = %d, want 3", len(slots))
	}
	wantNames := []string{"solid", "chase", "huecycle"}
	for i, want := range wantNames {
		if got := slots[i].Pattern.Name(); got != want {
			t.Errorf("pattern %d = %q, want %q (order must survive)", i, got, want)
		}
	}
	if slots[0].CustomCycleMs != 5000 {
		t.Errorf("custom cycle time = %v, want 5000", slots[0].CustomCycleMs)
	}
	if slots[1].AutoCycleEligible {
		t.Error("eligibility flag lost")
	}

	// Active index restores as an instant cut
	if got := eng.ActiveIndex(); got != 2 {
		t.Errorf("active index = %d, want 2", got)
	}
	if eng.InTransition() {
		t.Error("loading must not start a transition")
	}

	g, ok := strips[1].(*mixer.Group)
	if !ok {
		t.Fatalf("strip 1 is %T, want group", strips[1])
	}
	if g.Name != "backdrop" || g.Fader != 0.5 {
		t.Errorf("group bus not restored: %+v", g.Bus)
	}
	if len(g.Members()) != 1 || g.Members()[0].Name != "fill" {
		t.Fatalf("group members not restored")
	}
	if g.Members()[0].BlendName != "add" {
		t.Errorf("member blend = %q, want add", g.Members()[0].BlendName)
	}
}

func TestApplyUnknownPattern(t *testing.T) {
	p := &Project{
		Strips: []StripState{
			{Channel: &ChannelState{
				Name:     "a",
				Fader:    1,
				Enabled:  true,
				Blend:    "normal",
				Patterns: []PatternState{{Name: "nope", Enabled: true, CompositeLevel: 1}},
			}},
		},
	}

	dst := mixer.NewEngine(model.NewStrip(4), pixel.DefaultRegistry())
	if err := p.Apply(dst, testFactory); err == nil {
		t.Fatal("expected error for unknown pattern name")
	}
}

func TestSaveLoadProjectFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	src := buildMixer(t)
	if err := SaveProject("demo", src); err != nil {
		t.Fatal(err)
	}

	projects, err := ListProjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0] != "demo" {
		t.Fatalf("projects = %v, want [demo]", projects)
	}

	saves, err := ListSaves("demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(saves))
	}

	dst := mixer.NewEngine(model.NewStrip(8), pixel.DefaultRegistry())
	if err := LoadProject("demo", "", dst, testFactory); err != nil {
		t.Fatal(err)
	}
	if len(dst.Strips()) != 2 {
		t.Fatalf("loaded strips = %d, want 2", len(dst.Strips()))
	}

	if err := DeleteProject("demo"); err != nil {
		t.Fatal(err)
	}
	projects, _ = ListProjects()
	if len(projects) != 0 {
		t.Fatalf("projects after delete = %v", projects)
	}
}
