// Package soundboard provides a terminal view of the loaded sound table
// that plays entries on demand.
package soundboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/sound"
	"github.com/zjrosen/chime/internal/ui/styles"
)

const volumeStep = 0.1

// Player plays a preset by key.
type Player interface {
	PlayKey(key string, volume *float64)
}

// Row is one table entry.
type Row struct {
	Key    string
	Source string
	Volume float64
}

// ReadyMsg carries the table once the sound system is ready.
type ReadyMsg struct {
	Summary sound.Summary
	Rows    []Row
}

// FailedMsg reports that the sound system could not start.
type FailedMsg struct {
	Err error
}

// PlayedMsg reports a started playback.
type PlayedMsg struct {
	Event playback.Event
}

// Model holds the soundboard state.
type Model struct {
	player   Player
	rows     []Row
	cursor   int
	override *float64

	ready   bool
	err     error
	summary sound.Summary
	last    *playback.Event

	width  int
	height int
}

// New creates a soundboard that plays through player.
func New(player Player) Model {
	return Model{player: player}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// Override returns the session volume override, if any.
func (m Model) Override() (float64, bool) {
	if m.override == nil {
		return 0, false
	}
	return *m.override, true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ReadyMsg:
		m.ready = true
		m.summary = msg.Summary
		m.rows = msg.Rows
		m.cursor = 0

	case FailedMsg:
		m.err = msg.Err

	case PlayedMsg:
		ev := msg.Event
		m.last = &ev

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Up):
		if len(m.rows) > 0 {
			m.cursor = (m.cursor - 1 + len(m.rows)) % len(m.rows)
		}
	case key.Matches(msg, Keys.Down):
		if len(m.rows) > 0 {
			m.cursor = (m.cursor + 1) % len(m.rows)
		}
	case key.Matches(msg, Keys.Play):
		if row, ok := m.Selected(); ok && m.ready {
			m.player.PlayKey(row.Key, m.override)
		}
	case key.Matches(msg, Keys.VolumeUp):
		m = m.nudge(volumeStep)
	case key.Matches(msg, Keys.VolumeDown):
		m = m.nudge(-volumeStep)
	case key.Matches(msg, Keys.ResetVol):
		m.override = nil
	}
	return m, nil
}

// nudge moves the override by delta, starting from the selected row's volume.
func (m Model) nudge(delta float64) Model {
	base := sound.DefaultVolume
	if m.override != nil {
		base = *m.override
	} else if row, ok := m.Selected(); ok {
		base = row.Volume
	}
	v := math.Round(min(max(base+delta, 0), 1)*10) / 10
	m.override = &v
	return m
}

// View renders the soundboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.err != nil {
		return m.emptyView()
	}

	panel := styles.Panel{
		Title:   "chime",
		Status:  m.status(),
		Width:   m.width,
		Height:  m.height,
		Focused: m.ready,
	}
	return panel.Render(m.body(max(m.width-2, 1), max(m.height-2, 1)))
}

func (m Model) status() string {
	switch {
	case !m.ready:
		return "loading"
	default:
		return fmt.Sprintf("%d loaded, %d failed", m.summary.Loaded, m.summary.Failed)
	}
}

func (m Model) body(width, height int) string {
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	switch {
	case !m.ready:
		return muted.Render("Loading sounds...")
	case len(m.rows) == 0:
		return muted.Render("No sounds loaded.")
	}

	keyWidth := 0
	for _, r := range m.rows {
		keyWidth = max(keyWidth, lipgloss.Width(r.Key))
	}
	const barWidth = 10
	// cursor(2) key gap(2) source gap(2) bar gap(1) pct(4)
	sourceWidth := max(width-2-keyWidth-2-2-barWidth-1-4, 4)

	// Footer takes two lines.
	visible := max(height-2, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.rows))

	normal := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	selected := normal.Background(styles.SelectionBackgroundColor).Bold(true)

	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.rows[i]
		marker, style := "  ", normal
		if i == m.cursor {
			marker, style = "▸ ", selected
		}
		line := fmt.Sprintf("%s%-*s  %-*s  %s %s",
			marker,
			keyWidth, r.Key,
			sourceWidth, styles.TruncateString(r.Source, sourceWidth),
			styles.VolumeBar(r.Volume, barWidth),
			styles.FormatVolume(r.Volume),
		)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	for i := end - start; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(muted.Render(m.footer()))
	b.WriteString("\n")
	b.WriteString(muted.Render(helpLine()))
	return b.String()
}

func (m Model) footer() string {
	vol := "preset volume"
	if v, ok := m.Override(); ok {
		vol = "override " + strings.TrimSpace(styles.FormatVolume(v))
	}
	if m.last == nil {
		return vol
	}
	name := m.last.Key
	if m.last.Branch == playback.BranchCustom {
		name = m.last.Path
	}
	return fmt.Sprintf("%s · last: %s (%s)", vol, name, strings.TrimSpace(styles.FormatVolume(m.last.Volume)))
}

func helpLine() string {
	parts := make([]string, 0, len(Keys.ShortHelp()))
	for _, b := range Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

// RowsFromTable lists the table's entries in key order with current volumes.
// The default alias is skipped when it shares a handle with click.
func RowsFromTable(t *sound.Table) []Row {
	if t == nil {
		return nil
	}
	click, hasClick := t.Get(sound.ClickKey)
	rows := make([]Row, 0, t.Len())
	for _, k := range t.Keys() {
		e, ok := t.Get(k)
		if !ok {
			continue
		}
		if k == sound.DefaultKey && hasClick && e == click {
			continue
		}
		rows = append(rows, Row{Key: k, Source: e.Source, Volume: e.Handle.Volume()})
	}
	return rows
}
