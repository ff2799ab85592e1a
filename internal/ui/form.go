package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todocard-go/internal/i18n"
	"github.com/nibzard/todocard-go/internal/todo"
)

// ItemEditor saves or deletes one item.
type ItemEditor interface {
	UpdateItem(ctx context.Context, id string, req todo.UpdateRequest) error
	DeleteItem(ctx context.Context, id string) error
}

const (
	fieldTitle = iota
	fieldContent
)

// Form edits the title and content of a loaded detail.
type Form struct {
	ctx     context.Context
	editor  ItemEditor
	tr      *i18n.Translator
	detail  todo.Detail
	title   textinput.Model
	content textarea.Model
	focus   int
	keys    modalKeyMap
	submits int
	// readOnly forms never send updates or deletes and ignore typing.
	readOnly bool

	afterFinish func()
}

// NewForm builds a form over detail. afterFinish runs after every submit.
func NewForm(ctx context.Context, editor ItemEditor, tr *i18n.Translator, detail todo.Detail, readOnly bool, afterFinish func()) *Form {
	if ctx == nil {
		ctx = context.Background()
	}

	title := textinput.New()
	title.Placeholder = tr.T(i18n.KeyTitle)
	title.CharLimit = 200
	title.Width = defaultCardWidth
	title.SetValue(detail.Title)
	title.Focus()

	content := textarea.New()
	content.Placeholder = tr.T(i18n.KeyContent)
	content.ShowLineNumbers = false
	content.SetWidth(defaultCardWidth + 8)
	content.SetHeight(6)
	content.SetValue(detail.Content)
	content.Blur()

	return &Form{
		ctx:         ctx,
		editor:      editor,
		tr:          tr,
		detail:      detail,
		title:       title,
		content:     content,
		focus:       fieldTitle,
		keys:        defaultModalKeys(),
		readOnly:    readOnly,
		afterFinish: afterFinish,
	}
}

// Changed reports whether either field differs from the loaded detail.
func (f *Form) Changed() bool {
	return f.title.Value() != f.detail.Title || f.content.Value() != f.detail.Content
}

// ReadOnly reports whether the form rejects edits.
func (f *Form) ReadOnly() bool {
	return f.readOnly
}

// Submits returns how many times Submit has run.
func (f *Form) Submits() int {
	return f.submits
}

// SetValues replaces the field contents.
func (f *Form) SetValues(title, content string) {
	f.title.SetValue(title)
	f.content.SetValue(content)
}

// Submit runs the submit handler. An unchanged or read-only form finishes
// without a request.
func (f *Form) Submit() tea.Cmd {
	f.submits++
	id := f.detail.ID
	if f.afterFinish != nil {
		f.afterFinish()
	}
	if f.readOnly || !f.Changed() {
		return func() tea.Msg {
			return FormSubmitted{CardID: id}
		}
	}

	req := todo.UpdateRequest{
		Title:   strings.TrimSpace(f.title.Value()),
		Content: f.content.Value(),
	}
	// The saved values become the new baseline so a second close is a no-op.
	f.detail.Title = req.Title
	f.detail.Content = req.Content
	f.title.SetValue(req.Title)

	ctx, editor := f.ctx, f.editor
	return func() tea.Msg {
		err := editor.UpdateItem(ctx, id, req)
		return FormSubmitted{CardID: id, Changed: true, Err: err}
	}
}

// Delete deletes the item. It returns nil on a read-only form.
func (f *Form) Delete() tea.Cmd {
	if f.readOnly {
		return nil
	}
	ctx, editor, id := f.ctx, f.editor, f.detail.ID
	return func() tea.Msg {
		return FormDeleted{CardID: id, Err: editor.DeleteItem(ctx, id)}
	}
}

// Update forwards input to the focused field. Read-only forms only move
// focus.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, f.keys.Next) {
			return f.toggleFocus()
		}
		if f.readOnly {
			return nil
		}
	}

	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.content, cmd = f.content.Update(msg)
	}
	return cmd
}

func (f *Form) toggleFocus() tea.Cmd {
	if f.focus == fieldTitle {
		f.focus = fieldContent
		f.title.Blur()
		return f.content.Focus()
	}
	f.focus = fieldTitle
	f.content.Blur()
	return f.title.Focus()
}

// View renders the form fields.
func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(f.tr.T(i18n.KeyTitle)) + "\n")
	b.WriteString(f.title.View() + "\n\n")
	b.WriteString(labelStyle.Render(f.tr.T(i18n.KeyContent)) + "\n")
	b.WriteString(f.content.View())
	return b.String()
}
