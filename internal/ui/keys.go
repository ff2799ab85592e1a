package ui

import "github.com/charmbracelet/bubbles/key"

type cardKeyMap struct {
	Select key.Binding
	Open   key.Binding
	Done   key.Binding
}

type modalKeyMap struct {
	Close  key.Binding
	Save   key.Binding
	Delete key.Binding
	Next   key.Binding
}

type boardKeyMap struct {
	Quit     key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	View     key.Binding
	Refresh  key.Binding
	BulkDone key.Binding
}

func defaultCardKeys() cardKeyMap {
	return cardKeyMap{
		Select: key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "select")),
		Open:   key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "open")),
		Done:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done")),
	}
}

func defaultModalKeys() modalKeyMap {
	return modalKeyMap{
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Next:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	}
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		View:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "active/deleted")),
		Refresh:  key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		BulkDone: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "complete selected")),
	}
}
