// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"math"
	"strings"

	"audiotrim/internal/pcm"
	"audiotrim/internal/trim"
	"audiotrim/internal/waveform"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5C5C5C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))
)

var levels = []rune(" ▁▂▃▄▅▆▇█")

const (
	minStep = 0.001
	maxStep = 60.0
)

// ExportFunc writes the selected window somewhere and returns a short
// description of the result, such as the output path.
type ExportFunc func(trim.Window) (string, error)

// PlayFunc previews the selected window.
type PlayFunc func(trim.Window) error

// Handle identifies the window bound the arrow keys move.
type Handle int

const (
	StartHandle Handle = iota
	EndHandle
)

func (h Handle) String() string {
	if h == EndHandle {
		return "end"
	}
	return "start"
}

// Options configures a RangeModel.
type Options struct {
	Width   int          // Waveform columns.
	Step    float64      // Initial handle step in seconds.
	Initial *trim.Window // Starting selection; the whole signal when nil.
	Export  ExportFunc
	Play    PlayFunc
}

type exportedMsg struct {
	result string
	err    error
}

type playedMsg struct {
	err error
}

// RangeModel is a bubbletea model for choosing a trim window bounded by
// [0, duration].
type RangeModel struct {
	title    string
	duration float64
	buckets  []waveform.Bucket
	window   trim.Window
	active   Handle
	step     float64

	export ExportFunc
	play   PlayFunc
	busy   bool
	status string
	err    error

	keys keyMap
	help help.Model
}

// NewRangeModel builds a selector for sig. The title is shown in the header,
// usually the source file name.
func NewRangeModel(title string, sig *pcm.Signal, opts Options) RangeModel {
	duration := sig.Seconds()
	w := trim.Window{Start: 0, End: duration}
	if opts.Initial != nil {
		w = opts.Initial.Clamp(duration)
		if !(w.Start < w.End) {
			w = trim.Window{Start: 0, End: duration}
		}
	}

	step := opts.Step
	if step <= 0 {
		step = 0.1
	}

	return RangeModel{
		title:    title,
		duration: duration,
		buckets:  waveform.Summarize(sig, opts.Width),
		window:   w,
		step:     math.Min(math.Max(step, minStep), maxStep),
		export:   opts.Export,
		play:     opts.Play,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Window returns the current selection.
func (m RangeModel) Window() trim.Window { return m.window }

// Active returns the handle the arrow keys currently move.
func (m RangeModel) Active() Handle { return m.active }

// Step returns the handle step in seconds.
func (m RangeModel) Step() float64 { return m.step }

// Status returns the last export or preview message.
func (m RangeModel) Status() string { return m.status }

// Err returns the last export or preview error.
func (m RangeModel) Err() error { return m.err }

// Init implements tea.Model.
func (m RangeModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m RangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case exportedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.status = "exported " + msg.result
		} else {
			m.status = ""
		}

	case playedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.status = "preview finished"
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			if m.active == StartHandle {
				m.active = EndHandle
			} else {
				m.active = StartHandle
			}

		case key.Matches(msg, m.keys.Left):
			m = m.move(-m.step)

		case key.Matches(msg, m.keys.Right):
			m = m.move(m.step)

		case key.Matches(msg, m.keys.Coarser):
			m.step = math.Min(m.step*2, maxStep)

		case key.Matches(msg, m.keys.Finer):
			m.step = math.Max(m.step/2, minStep)

		case key.Matches(msg, m.keys.Export):
			if m.export == nil || m.busy {
				break
			}
			m.busy = true
			m.status = "exporting..."
			export, w := m.export, m.window
			return m, func() tea.Msg {
				result, err := export(w)
				return exportedMsg{result: result, err: err}
			}

		case key.Matches(msg, m.keys.Play):
			if m.play == nil || m.busy {
				break
			}
			m.busy = true
			m.status = "playing..."
			play, w := m.play, m.window
			return m, func() tea.Msg {
				return playedMsg{err: play(w)}
			}
		}
	}
	return m, nil
}

// move shifts the active handle by delta seconds. The handles stay at least
// one step apart (or as far apart as the signal allows) and a handle never
// moves against the key direction when it is already pinned.
func (m RangeModel) move(delta float64) RangeModel {
	gap := math.Min(m.step, m.duration)
	w := m.window

	switch m.active {
	case StartHandle:
		s := math.Max(0, math.Min(w.Start+delta, w.End-gap))
		if delta > 0 {
			s = math.Max(s, w.Start)
		} else {
			s = math.Min(s, w.Start)
		}
		w.Start = s
	case EndHandle:
		e := math.Min(m.duration, math.Max(w.End+delta, w.Start+gap))
		if delta > 0 {
			e = math.Max(e, w.End)
		} else {
			e = math.Min(e, w.End)
		}
		w.End = e
	}

	m.window = w
	return m
}

// View implements tea.Model.
func (m RangeModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderWaveform())
	sb.WriteString("\n")
	sb.WriteString(m.renderMarkers())
	sb.WriteString("\n\n")

	info := fmt.Sprintf("start %.3fs  end %.3fs  length %.3fs  of %.3fs",
		m.window.Start, m.window.End, m.window.Seconds(), m.duration)
	sb.WriteString(infoStyle.Render(info))
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("moving %s by %.3fs", m.active, m.step)))
	sb.WriteString("\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render("error: " + m.err.Error()))
	case m.status != "":
		sb.WriteString(highlightStyle.Render(m.status))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m RangeModel) renderWaveform() string {
	var sb strings.Builder
	for i, b := range m.buckets {
		peak := math.Min(math.Max(math.Abs(b.Min), math.Abs(b.Max)), 1)
		glyph := string(levels[int(math.Round(peak*float64(len(levels)-1)))])
		if m.columnSelected(i) {
			sb.WriteString(highlightStyle.Render(glyph))
		} else {
			sb.WriteString(dimStyle.Render(glyph))
		}
	}
	return sb.String()
}

func (m RangeModel) renderMarkers() string {
	n := len(m.buckets)
	if n == 0 || m.duration <= 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", n))
	line[m.column(m.window.Start)] = '['
	line[m.column(m.window.End)] = ']'
	return string(line)
}

// column maps a time to a waveform column.
func (m RangeModel) column(t float64) int {
	n := len(m.buckets)
	c := int(t / m.duration * float64(n))
	return max(0, min(c, n-1))
}

func (m RangeModel) columnSelected(i int) bool {
	if m.duration <= 0 {
		return false
	}
	center := (float64(i) + 0.5) * m.duration / float64(len(m.buckets))
	return center >= m.window.Start && center <= m.window.End
}

// Run starts the selector full screen and returns the model as it was when
// the user quit.
func Run(m RangeModel) (RangeModel, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return m, err
	}
	return final.(RangeModel), nil
}
