package tui

import "github.com/charmbracelet/bubbles/key"

type timerKeyMap struct {
	Stop    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Exit    key.Binding
	Quit    key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Exit, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Stop, k.Confirm, k.Cancel}, {k.Exit, k.Quit}}
}

var timerKeys = timerKeyMap{
	Stop:    key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "stop & save")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Exit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("esc/q", "exit (keep running)")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
}

type boardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Search key.Binding
	Apply  key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Search, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Prev, k.Next}, {k.Search, k.Apply, k.Clear, k.Quit}}
}

var boardKeys = boardKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}
