package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/parser"
	"github.com/agencia-digital/agencia/internal/priority"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// TimerModel shows a running stopwatch for one task
type TimerModel struct {
	width  int
	height int

	task     models.Task
	sw       *timetrack.Stopwatch
	clock    timetrack.Clock
	interval time.Duration

	elapsed time.Duration
	frame   int // header animation frame

	// Notes are asked for before stopping
	askingNotes bool
	notes       textinput.Model

	help help.Model
	keys timerKeyMap

	stopping bool // user confirmed stop & save
	exiting  bool // user left with the timer still running
}

// timerTickMsg re-arms while the stopwatch is tracking
type timerTickMsg time.Time

// NewTimerModel creates a timer view over sw. interval is the refresh rate.
func NewTimerModel(task models.Task, sw *timetrack.Stopwatch, clock timetrack.Clock, interval time.Duration) TimerModel {
	if interval <= 0 {
		interval = time.Second
	}
	notes := textinput.New()
	notes.Placeholder = "what did you work on? (optional)"
	notes.CharLimit = 500
	notes.Width = 50

	return TimerModel{
		task:     task,
		sw:       sw,
		clock:    clock,
		interval: interval,
		elapsed:  sw.Tick(),
		notes:    notes,
		help:     help.New(),
		keys:     timerKeys,
	}
}

func (m TimerModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// Init starts ticking only if the stopwatch is tracking
func (m TimerModel) Init() tea.Cmd {
	if !m.sw.Tracking() {
		return nil
	}
	return m.tick()
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		// Not rescheduled once stopped or torn down
		if m.stopping || m.exiting || !m.sw.Tracking() {
			return m, nil
		}
		m.elapsed = m.sw.Tick()
		m.frame = (m.frame + 1) % 4
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.exiting = true
			return m, tea.Quit
		}
		if m.askingNotes {
			return m.updateNotes(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Stop):
			m.askingNotes = true
			return m, m.notes.Focus()
		case key.Matches(msg, m.keys.Exit):
			m.exiting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m TimerModel) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.stopping = true
		m.notes.Blur()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.askingNotes = false
		m.notes.Blur()
		m.notes.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

// Stopping reports whether the user asked to stop and save
func (m TimerModel) Stopping() bool { return m.stopping }

// Exiting reports whether the user left with the timer running
func (m TimerModel) Exiting() bool { return m.exiting }

// Notes returns what the user typed before stopping
func (m TimerModel) Notes() string { return strings.TrimSpace(m.notes.Value()) }

// Elapsed is the last displayed elapsed time
func (m TimerModel) Elapsed() time.Duration { return m.elapsed }

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(m.help.View(m.keys))
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTaskDetailsPanel(rightWidth),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	header := fmt.Sprintf("%s  TRACKING TIME  %s", animChars[m.frame], animChars[m.frame])
	components = append(components, center.
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(header))

	components = append(components, center.
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render(fmt.Sprintf("#%d", m.task.ID)))

	title := m.task.Title
	if limit := width - 4; limit > 3 && len([]rune(title)) > limit {
		title = string([]rune(title)[:limit-3]) + "..."
	}
	components = append(components, center.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(title))

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, center.Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	if active, ok := m.sw.Active(); ok {
		components = append(components, center.
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("Started at "+active.StartTime.In(m.clock.Now().Location()).Format("15:04:05")))
	}

	if m.askingNotes {
		components = append(components, center.Render("Notes: "+m.notes.View()))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m TimerModel) renderTaskDetailsPanel(width int) string {
	task := m.task
	now := m.clock.Now()
	line := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 8).
		Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width - 12).
		Padding(0, 1).
		Render(task.Title))
	b.WriteString("\n\n")

	b.WriteString(line.Render(fmt.Sprintf("%s Status: %s", statusIcon(task.Status), StatusStyle(task.Status).Render(string(task.Status)))))
	b.WriteString("\n")

	project := muted.Render("none")
	if task.Project != nil {
		project = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(task.Project.Name)
	}
	b.WriteString(line.Render("📁 Project: " + project))
	b.WriteString("\n")

	score := priority.ComputeOptional(task.Priority, task.DueDate, now)
	b.WriteString(line.Render(fmt.Sprintf("⚑ Priority: %s · %s",
		task.Priority, ScoreStyle(score).Bold(true).Render(fmt.Sprintf("%s (%d)", score.Label, score.Score)))))
	b.WriteString("\n")

	due := muted.Render("none")
	if task.DueDate != nil {
		due = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(parser.FormatDueDate(task.DueDate, now))
	}
	b.WriteString(line.Render("Due: " + due))
	b.WriteString("\n")

	b.WriteString(line.Render("📊 Total tracked: " +
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(timetrack.Format(m.sw.Total()))))
	return b.String()
}

var logoLines = []string{
	"┏━┓┏━╸┏━╸┏┓╻┏━╸╻┏━┓",
	"┣━┫┃╺┓┣╸ ┃┗┫┃  ┃┣━┫",
	"╹ ╹┗━┛┗━╸╹ ╹┗━╸╹╹ ╹",
}

// bigDigits is 5-row block art for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock draws d as HH:MM:SS, or MM:SS under an hour
func renderBigClock(d time.Duration) string {
	text := timetrack.Format(d)
	if d < time.Hour {
		text = text[3:]
	}

	var lines [5]strings.Builder
	for _, r := range text {
		art, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	rows := make([]string, len(lines))
	for i := range lines {
		rows[i] = style.Render(lines[i].String())
	}
	return strings.Join(rows, "\n")
}
