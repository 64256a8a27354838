package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lightmix/mixer"
	"lightmix/pattern"
)

// PatternFactory rebuilds a pattern from its saved name. Returning an error
// skips the slot and surfaces the problem to the caller of Apply.
type PatternFactory func(name string) (pattern.Pattern, error)

// PatternState is the serialized form of one pattern slot.
type PatternState struct {
	Name              string  `json:"name"`
	Enabled           bool    `json:"enabled"`
	AutoCycleEligible bool    `json:"autoCycleEligible"`
	CompositeBlend    string  `json:"compositeBlend,omitempty"`
	CompositeLevel    float64 `json:"compositeLevel"`
	CustomCycleMs     float64 `json:"customCycleMs,omitempty"`
	Cue               bool    `json:"cue,omitempty"`
	Aux               bool    `json:"aux,omitempty"`
}

// ChannelState is the serialized form of one channel strip, pattern list
// order and active index included.
type ChannelState struct {
	Name      string  `json:"name"`
	Fader     float64 `json:"fader"`
	Enabled   bool    `json:"enabled"`
	Blend     string  `json:"blend"`
	Crossfade string  `json:"crossfade,omitempty"`
	Cue       bool    `json:"cue,omitempty"`
	Aux       bool    `json:"aux,omitempty"`

	CompositeMode string `json:"compositeMode,omitempty"`

	TransitionsEnabled   bool    `json:"transitionsEnabled"`
	TransitionDurationMs float64 `json:"transitionDurationMs"`
	TransitionBlend      string  `json:"transitionBlend"`

	AutoCycleEnabled bool    `json:"autoCycleEnabled"`
	AutoCycleMode    string  `json:"autoCycleMode,omitempty"`
	AutoCycleMs      float64 `json:"autoCycleMs"`

	Patterns    []PatternState `json:"patterns"`
	ActiveIndex int            `json:"activeIndex"`
}

// GroupState is the serialized form of one group strip and its members.
type GroupState struct {
	Name      string  `json:"name"`
	Fader     float64 `json:"fader"`
	Enabled   bool    `json:"enabled"`
	Blend     string  `json:"blend"`
	Crossfade string  `json:"crossfade,omitempty"`
	Cue       bool    `json:"cue,omitempty"`
	Aux       bool    `json:"aux,omitempty"`

	Channels []ChannelState `json:"channels"`
}

// StripState holds exactly one of a channel or a group, in strip order.
type StripState struct {
	Channel *ChannelState `json:"channel,omitempty"`
	Group   *GroupState   `json:"group,omitempty"`
}

// Project is a complete serialized mixer setup.
type Project struct {
	Crossfader      float64      `json:"crossfader"`
	CrossfaderBlend string       `json:"crossfaderBlend"`
	MasterFader     float64      `json:"masterFader"`
	Strips          []StripState `json:"strips"`
}

// Snapshot captures the mixer's current setup. Runtime-only state (buffers,
// in-flight transitions, damping ramps) is not captured.
func Snapshot(e *mixer.Engine) *Project {
	p := &Project{
		Crossfader:      e.Crossfader.Position,
		CrossfaderBlend: e.Crossfader.BlendName,
		MasterFader:     e.Master().Fader,
	}
	for _, s := range e.Strips() {
		switch v := s.(type) {
		case *mixer.Channel:
			cs := snapshotChannel(v)
			p.Strips = append(p.Strips, StripState{Channel: &cs})
		case *mixer.Group:
			gs := GroupState{
				Name:      v.Name,
				Fader:     v.Fader,
				Enabled:   v.Enabled,
				Blend:     v.BlendName,
				Crossfade: crossfadeName(v.Crossfade),
				Cue:       v.Cue,
				Aux:       v.Aux,
			}
			for _, m := range v.Members() {
				gs.Channels = append(gs.Channels, snapshotChannel(m))
			}
			p.Strips = append(p.Strips, StripState{Group: &gs})
		}
	}
	return p
}

func snapshotChannel(ch *mixer.Channel) ChannelState {
	eng := ch.Patterns()
	cs := ChannelState{
		Name:      ch.Name,
		Fader:     ch.Fader,
		Enabled:   ch.Enabled,
		Blend:     ch.BlendName,
		Crossfade: crossfadeName(ch.Crossfade),
		Cue:       ch.Cue,
		Aux:       ch.Aux,

		CompositeMode: eng.CompositeMode().String(),

		TransitionsEnabled:   eng.TransitionsEnabled,
		TransitionDurationMs: eng.TransitionDurationMs,
		TransitionBlend:      eng.TransitionBlend,

		AutoCycleEnabled: eng.AutoCycleEnabled,
		AutoCycleMode:    cycleModeName(eng.AutoCycleMode),
		AutoCycleMs:      eng.AutoCycleMs,

		ActiveIndex: eng.ActiveIndex(),
	}
	for _, slot := range eng.Patterns() {
		cs.Patterns = append(cs.Patterns, PatternState{
			Name:              slot.Pattern.Name(),
			Enabled:           slot.Enabled,
			AutoCycleEligible: slot.AutoCycleEligible,
			CompositeBlend:    slot.CompositeBlend,
			CompositeLevel:    slot.CompositeLevel,
			CustomCycleMs:     slot.CustomCycleMs,
			Cue:               slot.Cue,
			Aux:               slot.Aux,
		})
	}
	return cs
}

// Apply rebuilds the saved setup into e, which must be freshly created and
// not yet ticking. Pattern list order, strip order and the active index are
// restored exactly; activation is an instant cut, never a transition.
func (p *Project) Apply(e *mixer.Engine, factory PatternFactory) error {
	e.Crossfader.Position = p.Crossfader
	if p.CrossfaderBlend != "" {
		e.Crossfader.BlendName = p.CrossfaderBlend
	}
	e.Master().Fader = p.MasterFader

	for _, ss := range p.Strips {
		switch {
		case ss.Channel != nil:
			ch := e.AddChannel(ss.Channel.Name)
			if err := applyChannel(ch, ss.Channel, factory); err != nil {
				return err
			}
		case ss.Group != nil:
			gs := ss.Group
			g := e.AddGroup(gs.Name)
			g.Fader = gs.Fader
			g.Enabled = gs.Enabled
			g.BlendName = gs.Blend
			g.Crossfade = crossfadeFromName(gs.Crossfade)
			g.Cue = gs.Cue
			g.Aux = gs.Aux
			for i := range gs.Channels {
				ch := e.AddChannel(gs.Channels[i].Name)
				if err := applyChannel(ch, &gs.Channels[i], factory); err != nil {
					return err
				}
				if err := e.GroupChannel(g, ch); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func applyChannel(ch *mixer.Channel, cs *ChannelState, factory PatternFactory) error {
	ch.Fader = cs.Fader
	ch.Enabled = cs.Enabled
	ch.BlendName = cs.Blend
	ch.Crossfade = crossfadeFromName(cs.Crossfade)
	ch.Cue = cs.Cue
	ch.Aux = cs.Aux

	eng := ch.Patterns()
	eng.TransitionsEnabled = cs.TransitionsEnabled
	eng.TransitionDurationMs = cs.TransitionDurationMs
	if cs.TransitionBlend != "" {
		eng.TransitionBlend = cs.TransitionBlend
	}
	eng.AutoCycleEnabled = cs.AutoCycleEnabled
	eng.AutoCycleMode = cycleModeFromName(cs.AutoCycleMode)
	if cs.AutoCycleMs > 0 {
		eng.AutoCycleMs = cs.AutoCycleMs
	}

	for _, ps := range cs.Patterns {
		pat, err := factory(ps.Name)
		if err != nil {
			return fmt.Errorf("channel %q: %w", cs.Name, err)
		}
		slot := eng.AddPattern(pat)
		slot.Enabled = ps.Enabled
		slot.AutoCycleEligible = ps.AutoCycleEligible
		slot.CompositeBlend = ps.CompositeBlend
		slot.CompositeLevel = ps.CompositeLevel
		slot.CustomCycleMs = ps.CustomCycleMs
		slot.Cue = ps.Cue
		slot.Aux = ps.Aux
	}

	if cs.CompositeMode == "blend" {
		eng.SetCompositeMode(pattern.Blend)
	}
	if cs.ActiveIndex >= 0 {
		eng.SetActiveIndex(cs.ActiveIndex)
	}
	return nil
}

func crossfadeName(g mixer.CrossfadeGroup) string {
	if g == mixer.CrossfadeBypass {
		return ""
	}
	return g.String()
}

func crossfadeFromName(s string) mixer.CrossfadeGroup {
	switch s {
	case "A":
		return mixer.CrossfadeA
	case "B":
		return mixer.CrossfadeB
	}
	return mixer.CrossfadeBypass
}

func cycleModeName(m pattern.CycleMode) string {
	if m == pattern.CycleRandom {
		return "random"
	}
	return "next"
}

func cycleModeFromName(s string) pattern.CycleMode {
	if s == "random" {
		return pattern.CycleRandom
	}
	return pattern.CycleNext
}

// SaveInfo represents a saved project file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// ProjectsDir returns the projects directory path
func ProjectsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

// ProjectDir returns the path to a specific project
func ProjectDir(projectName string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, projectName), nil
}

// ListProjects returns all project folder names
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		// Parse filename: 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_name.json
		baseName := strings.TrimSuffix(name, ".json")
		if len(baseName) < 19 {
			continue
		}

		tsStr := baseName[:19]
		ts, err := time.Parse("2006-01-02_15-04-05", tsStr)
		if err != nil {
			continue
		}

		saveName := ""
		if len(baseName) > 20 && baseName[19] == '_' {
			saveName = baseName[20:]
		}

		saves = append(saves, SaveInfo{
			Filename:  name,
			Name:      saveName,
			Timestamp: ts,
		})
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// SaveProject writes a snapshot of e to the project with a timestamped name
func SaveProject(projectName string, e *mixer.Engine) error {
	if projectName == "" {
		projectName = "untitled"
	}

	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(Snapshot(e), "", "  ")
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, timestamp+".json")
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a specific save (or the most recent if filename is
// empty) and applies it to e
func LoadProject(projectName, filename string, e *mixer.Engine, factory PatternFactory) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}

	if filename == "" {
		saves, err := ListSaves(projectName)
		if err != nil || len(saves) == 0 {
			return fmt.Errorf("no saves found in project %s", projectName)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return err
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	return p.Apply(e, factory)
}

// CreateProject creates a new empty project folder
func CreateProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DeleteSave deletes a specific save file
func DeleteSave(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(dir, filename))
}

// DeleteProject deletes an entire project folder
func DeleteProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// RenameProject renames a project folder
func RenameProject(oldName, newName string) error {
	oldDir, err := ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := ProjectDir(newName)
	if err != nil {
		return err
	}
	return os.Rename(oldDir, newDir)
}
