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

	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/parser"
	"github.com/agencia-digital/agencia/internal/search"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// BoardModel lists tasks by urgency with live filtering
type BoardModel struct {
	width  int
	height int
	now    time.Time

	all      []db.ScoredTask
	tasks    []db.ScoredTask // all, filtered by the search query
	selected int

	searching bool
	input     textinput.Model

	currentPage  int
	tasksPerPage int

	help help.Model
	keys boardKeyMap
}

// NewBoardModel creates a board over tasks, which should already be sorted
// by priority
func NewBoardModel(tasks []db.ScoredTask, now time.Time) BoardModel {
	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "title, project, assignee, status"

	return BoardModel{
		now:          now,
		all:          tasks,
		tasks:        tasks,
		input:        input,
		tasksPerPage: 10,
		help:         help.New(),
		keys:         boardKeys,
	}
}

// Init initializes the model
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// header, column headers, pagination, help and borders
		m.tasksPerPage = max(m.height-12, 3)
		m.currentPage = m.selected / m.tasksPerPage
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Search):
			m.searching = true
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Clear) && m.input.Value() != "":
			m.input.Reset()
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			return m.moveSelection(-1), nil
		case key.Matches(msg, m.keys.Down):
			return m.moveSelection(1), nil
		case key.Matches(msg, m.keys.Prev):
			return m.changePage(-1), nil
		case key.Matches(msg, m.keys.Next):
			return m.changePage(1), nil
		}
	}
	return m, nil
}

func (m BoardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Apply):
		m.searching = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.searching = false
		m.input.Blur()
		m.input.Reset()
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter narrows the board to tasks matching the search input,
// keeping priority order
func (m *BoardModel) applyFilter() {
	m.tasks = search.Filter(m.all, m.input.Value(), func(t db.ScoredTask) []string {
		fields := []string{t.Title, t.Description, string(t.Status), t.Priority, t.Score.Label}
		if t.Project != nil {
			fields = append(fields, t.Project.Name)
		}
		if t.Assignee != nil {
			fields = append(fields, t.Assignee.Name)
		}
		return fields
	})
	m.selected = 0
	m.currentPage = 0
}

func (m BoardModel) moveSelection(delta int) BoardModel {
	next := m.selected + delta
	if next < 0 || next >= len(m.tasks) {
		return m
	}
	m.selected = next
	m.currentPage = m.selected / m.tasksPerPage
	return m
}

func (m BoardModel) changePage(delta int) BoardModel {
	pages := m.pageCount()
	next := m.currentPage + delta
	if next < 0 || next >= pages {
		return m
	}
	m.currentPage = next
	first := next * m.tasksPerPage
	last := min(first+m.tasksPerPage, len(m.tasks)) - 1
	m.selected = min(max(m.selected, first), last)
	return m
}

func (m BoardModel) pageCount() int {
	if len(m.tasks) == 0 {
		return 1
	}
	return (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
}

// Visible returns the tasks currently on the board
func (m BoardModel) Visible() []db.ScoredTask { return m.tasks }

// Selected returns the highlighted task
func (m BoardModel) Selected() (db.ScoredTask, bool) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return db.ScoredTask{}, false
	}
	return m.tasks[m.selected], true
}

// View renders the TUI
func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	bottom := m.help.View(m.keys)
	if m.searching || m.input.Value() != "" {
		bottom = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1).
			Width(m.width - 2).
			Render(m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

func (m BoardModel) renderTaskTable(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("📋 Tasks by priority"))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render("No tasks found"))
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(ColorBorder)).Width(width).Render(b.String())
	}

	idWidth, scoreWidth, statusWidth := 5, 16, 13
	titleWidth := max(width-4-idWidth-scoreWidth-statusWidth-6, 20)

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Padding(0, 1).Render(
		fmt.Sprintf("%-*s %-*s %-*s %-*s", idWidth, "ID", titleWidth, "TITLE", scoreWidth, "URGENCY", statusWidth, "STATUS")))
	b.WriteString("\n\n")

	start := m.currentPage * m.tasksPerPage
	end := min(start+m.tasksPerPage, len(m.tasks))
	for i := start; i < end; i++ {
		t := m.tasks[i]

		title := []rune(t.Title)
		if len(title) > titleWidth-1 {
			title = append(title[:titleWidth-4], []rune("...")...)
		}
		urgency := fmt.Sprintf("%-*s", scoreWidth, fmt.Sprintf("%d %s", t.Score.Score, t.Score.Label))
		status := fmt.Sprintf("%-*s", statusWidth, statusIcon(t.Status)+" "+string(t.Status))

		row := fmt.Sprintf("%-*s %-*s %s %s",
			idWidth, fmt.Sprintf("#%d", t.ID),
			titleWidth, string(title),
			ScoreStyle(t.Score).Render(urgency),
			StatusStyle(t.Status).Render(status))

		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, m.pageCount(), len(m.tasks))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m BoardModel) renderTaskDetails(width int) string {
	var b strings.Builder
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	t, ok := m.Selected()
	if !ok {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width).
			Render(strings.Join(logoLines, "\n")))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			Render("Select a task to view details"))
	} else {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).Width(width).Render("📋 " + t.Title))
		b.WriteString("\n\n")

		b.WriteString("Status: " + StatusStyle(t.Status).Render(string(t.Status)) + "\n")
		b.WriteString("Priority: " + t.Priority + "\n")
		b.WriteString("Urgency: " + ScoreStyle(t.Score).Bold(true).Render(fmt.Sprintf("%s (%d)", t.Score.Label, t.Score.Score)) + "\n")
		if t.Project != nil {
			b.WriteString("Project: " + accent.Render(t.Project.Name) + "\n")
		}
		if t.Assignee != nil {
			b.WriteString("Assignee: " + accent.Render(t.Assignee.Name) + "\n")
		}
		if t.DueDate != nil {
			b.WriteString("Due: " + lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(parser.FormatDueDate(t.DueDate, m.now)) + "\n")
		}
		if len(t.TimeEntries) > 0 {
			b.WriteString("Tracked: " + timetrack.Format(timetrack.TotalDuration(t.TimeEntries)) + "\n")
		}
		if t.Description != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSecondaryText)).
				Italic(true).
				Width(width - 2).
				Render(t.Description))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}
