package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lightmix/config"
	"lightmix/midictl"
	"lightmix/mixer"
	"lightmix/theme"
	"lightmix/widgets"
)

const previewWidth = 48

type Model struct {
	Mix       *mixer.Engine
	DeviceMgr *midictl.DeviceManager
	Theme     *theme.Theme

	// ProjectName is where 's' saves to.
	ProjectName string

	selected int
	status   string
	quitting bool
	onQuit   func()

	surfaces map[string]context.CancelFunc
}

type UpdateMsg struct{}

type DeviceEventMsg midictl.DeviceEvent

// NewModel builds the TUI over a running mixer. onQuit is called once when
// the user quits, before the program exits.
func NewModel(mix *mixer.Engine, deviceMgr *midictl.DeviceManager, th *theme.Theme, onQuit func()) Model {
	return Model{
		Mix:       mix,
		DeviceMgr: deviceMgr,
		Theme:     th,
		onQuit:    onQuit,
		surfaces:  make(map[string]context.CancelFunc),
	}
}

func ListenForUpdates(mix *mixer.Engine) tea.Cmd {
	return func() tea.Msg {
		<-mix.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midictl.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event := <-deviceMgr.Events()
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Mix),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Mix)

	case DeviceEventMsg:
		event := midictl.DeviceEvent(msg)
		if event.Type == midictl.DeviceConnected {
			ctx, cancel := context.WithCancel(context.Background())
			m.surfaces[event.ID] = cancel
			surface := midictl.NewSurface(event.Controller, m.Mix)
			go surface.Run(ctx)
			m.status = "connected " + event.ID
		} else if cancel, ok := m.surfaces[event.ID]; ok {
			cancel()
			delete(m.surfaces, event.ID)
			m.status = "disconnected " + event.ID
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	strips := m.Mix.Strips()

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(strips)-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "h", "left":
		if s := m.selectedStrip(strips); s != nil {
			m.Mix.Do(func() { nudgeFader(s, -0.05) })
		}
	case "l", "right":
		if s := m.selectedStrip(strips); s != nil {
			m.Mix.Do(func() { nudgeFader(s, 0.05) })
		}

	case "e", " ":
		if s := m.selectedStrip(strips); s != nil {
			m.Mix.ToggleEnabled(s)
		}
	case "c":
		if s := m.selectedStrip(strips); s != nil {
			m.Mix.Do(func() {
				b := busOf(s)
				b.Cue = !b.Cue
			})
		}

	case "[":
		m.Mix.SetCrossfader(m.Mix.Crossfader.Position - 0.05)
	case "]":
		m.Mix.SetCrossfader(m.Mix.Crossfader.Position + 0.05)

	case "n":
		if ch := m.selectedChannel(strips); ch != nil {
			m.Mix.Do(func() { ch.Patterns().GoNextPattern() })
		}
	case "p":
		if ch := m.selectedChannel(strips); ch != nil {
			m.Mix.Do(func() { ch.Patterns().GoPreviousPattern() })
		}

	case "1", "2", "3", "4", "5", "6", "7", "8":
		idx := int(key[0] - '1')
		if ch := m.selectedChannel(strips); ch != nil {
			m.Mix.Do(func() { ch.Patterns().GoPatternIndex(idx) })
		}

	case "s":
		name := m.ProjectName
		if name == "" {
			name = "untitled"
		}
		if err := config.SaveProject(name, m.Mix); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved to " + name
		}
	}

	return m, nil
}

func (m Model) selectedStrip(strips []mixer.Strip) mixer.Strip {
	if m.selected < 0 || m.selected >= len(strips) {
		return nil
	}
	return strips[m.selected]
}

func (m Model) selectedChannel(strips []mixer.Strip) *mixer.Channel {
	ch, _ := m.selectedStrip(strips).(*mixer.Channel)
	return ch
}

func nudgeFader(s mixer.Strip, d float64) {
	b := busOf(s)
	b.Fader += d
	if b.Fader < 0 {
		b.Fader = 0
	}
	if b.Fader > 1 {
		b.Fader = 1
	}
}

func busOf(s mixer.Strip) *mixer.Bus {
	switch v := s.(type) {
	case *mixer.Channel:
		return &v.Bus
	case *mixer.Group:
		return &v.Bus
	}
	return nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("lightmix"))
	out.WriteString("  ")
	out.WriteString(widgets.RenderCrossfader(m.Mix.Crossfader.Position, 15))
	out.WriteString("\n\n")

	strips := m.Mix.Strips()
	for i, s := range strips {
		out.WriteString(m.renderStrip(s, i == m.selected))
		out.WriteString("\n")
	}
	if len(strips) == 0 {
		out.WriteString(dimStyle.Render("  (no channels)"))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("out "))
	out.WriteString(widgets.RenderBuffer(m.Mix.Output(), previewWidth))
	out.WriteString("\n")

	if m.Mix.CueActive() {
		out.WriteString(warnStyle.Render("cue "))
		out.WriteString(widgets.RenderBuffer(m.Mix.CueOutput(), previewWidth))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("jk:select  hl:fader  1-8:pattern  n/p:cycle  e:on/off  c:cue  []:crossfade  s:save  q:quit"))

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}

	return out.String()
}

func (m Model) renderStrip(s mixer.Strip, selected bool) string {
	sym := m.Theme.Symbols
	b := busOf(s)

	cursor := sym.StripIdle
	if selected {
		cursor = sym.StripCursor
	}

	state := " "
	if !b.Enabled {
		state = "-"
	}
	flags := ""
	if b.Cue {
		flags += "C"
	}
	switch b.Crossfade {
	case mixer.CrossfadeA, mixer.CrossfadeB:
		flags += b.Crossfade.String()
	}

	var line strings.Builder
	fmt.Fprintf(&line, "%c %s %-10s %s %-8s %-3s",
		cursor, state, b.Name, widgets.RenderFader(b.Fader, 10), b.BlendName, flags)

	if ch, ok := s.(*mixer.Channel); ok {
		line.WriteString("  ")
		line.WriteString(m.renderSlots(ch))
	} else if g, ok := s.(*mixer.Group); ok {
		fmt.Fprintf(&line, "  group(%d)", len(g.Members()))
	}

	line.WriteString("  ")
	line.WriteString(widgets.RenderBuffer(s.Buffer(), 16))
	return line.String()
}

func (m Model) renderSlots(ch *mixer.Channel) string {
	eng := ch.Patterns()
	slots := eng.Patterns()
	active := eng.ActiveIndex()
	next := eng.NextIndex()
	sym := m.Theme.Symbols

	var out strings.Builder
	for i := 0; i < 8; i++ {
		r := sym.SlotEmpty
		switch {
		case i >= len(slots):
		case i == active:
			r = sym.SlotActive
		case i == next && eng.InTransition():
			r = sym.SlotNext
		default:
			r = sym.SlotLoaded
		}
		out.WriteRune(r)
	}
	return out.String()
}
