// Package ui renders to-do cards and the board that hosts them.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todocard-go/internal/i18n"
	"github.com/nibzard/todocard-go/internal/list"
	"github.com/nibzard/todocard-go/internal/todo"
	"github.com/nibzard/todocard-go/internal/utils"
)

// ListContext is the shared list a card belongs to.
type ListContext interface {
	Refresh(ctx context.Context) error
	Params() todo.Params
}

// ItemAPI is the backend surface a card and its form use.
type ItemAPI interface {
	ItemEditor
	GetDetail(ctx context.Context, id string) (todo.Detail, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// CardDeps are the collaborators every card shares.
type CardDeps struct {
	Context    context.Context
	List       ListContext
	API        ItemAPI
	Translator *i18n.Translator
	Logger     *log.Logger
}

func (d CardDeps) withDefaults() CardDeps {
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	return d
}

// Card shows one task summary. It fetches the detail into an edit modal on
// open and toggles completion through the API.
type Card struct {
	deps CardDeps

	item           todo.Summary
	selected       bool
	focused        bool
	updateSelected func(id string)
	afterDelete    func(id string)

	showModal  bool
	isLoading  bool
	detail     *todo.Detail
	form       *Form
	lastNotice *Notice

	spinner spinner.Model
	keys    cardKeyMap
	modal   modalKeyMap
	width   int
}

// NewCard creates a card for item.
func NewCard(item todo.Summary, isSelected bool, updateSelected, afterDelete func(id string), deps CardDeps) *Card {
	return &Card{
		deps:           deps.withDefaults(),
		item:           item,
		selected:       isSelected,
		updateSelected: updateSelected,
		afterDelete:    afterDelete,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(labelStyle)),
		keys:           defaultCardKeys(),
		modal:          defaultModalKeys(),
		width:          defaultCardWidth,
	}
}

// ID returns the task id.
func (c *Card) ID() string { return c.item.ID }

// Summary returns the rendered summary.
func (c *Card) Summary() todo.Summary { return c.item }

// Detail returns the loaded detail, or nil.
func (c *Card) Detail() *todo.Detail { return c.detail }

// Form returns the edit form of the loaded detail, or nil.
func (c *Card) Form() *Form { return c.form }

// ModalOpen reports whether the detail modal is visible.
func (c *Card) ModalOpen() bool { return c.showModal && c.detail != nil }

// Loading reports whether a request started by the card is in flight.
func (c *Card) Loading() bool { return c.isLoading }

// Selected reports the checkbox state.
func (c *Card) Selected() bool { return c.selected }

// LastNotice returns the most recent notice the card raised, or nil.
func (c *Card) LastNotice() *Notice { return c.lastNotice }

// SetSummary replaces the summary after a list refresh.
func (c *Card) SetSummary(item todo.Summary) { c.item = item }

// SetSelected sets the checkbox state.
func (c *Card) SetSelected(selected bool) { c.selected = selected }

// SetFocused marks the card under the board cursor.
func (c *Card) SetFocused(focused bool) { c.focused = focused }

// SetWidth sets the rendered width.
func (c *Card) SetWidth(width int) {
	if width > 12 {
		c.width = width
	}
}

func (c *Card) deleted() bool {
	return c.deps.List != nil && c.deps.List.Params().IsDeleted
}

func (c *Card) notify(level NoticeLevel, text string) tea.Cmd {
	n := Notice{Level: level, Text: text}
	c.lastNotice = &n
	return func() tea.Msg { return NoticeMsg{Notice: n} }
}

// ToggleSelected reports the checkbox change to the owner. The checkbox is
// disabled in the deleted view.
func (c *Card) ToggleSelected() {
	if c.deleted() {
		return
	}
	if c.updateSelected != nil {
		c.updateSelected(c.item.ID)
	}
}

// OpenDetail fetches the detail. The modal opens when the DetailResult
// arrives. In the deleted view a warning is raised but the fetch still runs.
func (c *Card) OpenDetail() tea.Cmd {
	var cmds []tea.Cmd
	if c.deleted() {
		cmds = append(cmds, c.notify(NoticeWarning, c.deps.Translator.T(i18n.KeyCannotEdit)))
	}

	c.isLoading = true
	ctx, api, id := c.deps.Context, c.deps.API, c.item.ID
	cmds = append(cmds, func() tea.Msg {
		detail, err := api.GetDetail(ctx, id)
		return DetailResult{CardID: id, Detail: detail, Err: err}
	}, c.spinner.Tick)
	return tea.Batch(cmds...)
}

// ToggleComplete flips the completion flag and then refreshes the list.
// It is a no-op in the deleted view.
func (c *Card) ToggleComplete() tea.Cmd {
	if c.deleted() {
		return nil
	}

	c.isLoading = true
	ctx, api, lc := c.deps.Context, c.deps.API, c.deps.List
	id, completed := c.item.ID, !c.item.IsCompleted
	return tea.Batch(func() tea.Msg {
		if err := api.SetCompleted(ctx, id, completed); err != nil {
			return CompleteResult{CardID: id, Completed: completed, Err: err}
		}
		var err error
		if lc != nil {
			err = lc.Refresh(ctx)
		}
		if errors.Is(err, list.ErrStale) {
			err = nil
		}
		return CompleteResult{CardID: id, Completed: completed, Refreshed: true, Err: err}
	}, c.spinner.Tick)
}

// CloseModal submits the form and hides the modal. The submit handler runs
// even when nothing changed.
func (c *Card) CloseModal() tea.Cmd {
	var cmd tea.Cmd
	if c.form != nil {
		cmd = c.form.Submit()
	}
	c.showModal = false
	return cmd
}

// hideModal closes the modal without submitting. The loaded detail and form
// are kept.
func (c *Card) hideModal() { c.showModal = false }

// Init implements tea.Model.
func (c *Card) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (c *Card) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c, c.handleKey(msg)

	case spinner.TickMsg:
		if !c.isLoading {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case DetailResult:
		if msg.CardID != c.item.ID {
			return c, nil
		}
		return c, c.handleDetail(msg)

	case CompleteResult:
		if msg.CardID != c.item.ID {
			return c, nil
		}
		c.isLoading = false
		if msg.Err != nil {
			c.deps.Logger.Error("toggle completion failed", "id", msg.CardID, "completed", msg.Completed, "refreshed", msg.Refreshed, "err", msg.Err)
			return c, nil
		}
		c.deps.Logger.Info("completion toggled", "id", msg.CardID, "completed", msg.Completed)
		return c, nil

	case FormSubmitted:
		if msg.CardID != c.item.ID {
			return c, nil
		}
		return c, c.handleSubmitted(msg)

	case FormDeleted:
		if msg.CardID != c.item.ID {
			return c, nil
		}
		if msg.Err != nil {
			c.deps.Logger.Error("delete failed", "id", msg.CardID, "err", msg.Err)
			return c, c.notify(NoticeError, fmt.Sprintf("%s: %v", c.deps.Translator.T(i18n.KeyDelete), msg.Err))
		}
		c.deps.Logger.Info("item deleted", "id", msg.CardID)
		c.showModal = false
		if c.afterDelete != nil {
			c.afterDelete(msg.CardID)
		}
		return c, nil
	}
	return c, nil
}

func (c *Card) handleKey(msg tea.KeyMsg) tea.Cmd {
	if c.ModalOpen() {
		switch {
		case key.Matches(msg, c.modal.Close), key.Matches(msg, c.modal.Save):
			return c.CloseModal()
		case key.Matches(msg, c.modal.Delete):
			if c.form.ReadOnly() {
				return c.notify(NoticeWarning, c.deps.Translator.T(i18n.KeyCannotEdit))
			}
			return c.form.Delete()
		default:
			return c.form.Update(msg)
		}
	}

	switch {
	case key.Matches(msg, c.keys.Select):
		c.ToggleSelected()
	case key.Matches(msg, c.keys.Open):
		return c.OpenDetail()
	case key.Matches(msg, c.keys.Done):
		return c.ToggleComplete()
	}
	return nil
}

func (c *Card) handleDetail(msg DetailResult) tea.Cmd {
	c.isLoading = false
	err := msg.Err
	if err == nil && msg.Detail.ID != c.item.ID {
		err = fmt.Errorf("detail id %q does not match card %q", msg.Detail.ID, c.item.ID)
	}
	if err != nil {
		c.deps.Logger.Error("fetch detail failed", "id", c.item.ID, "err", err)
		return c.notify(NoticeError, fmt.Sprintf("%s: %v", c.deps.Translator.T(i18n.KeyDetailFailed), err))
	}

	detail := msg.Detail
	c.detail = &detail
	c.form = NewForm(c.deps.Context, c.deps.API, c.deps.Translator, detail, c.deleted(), func() {
		c.showModal = false
	})
	c.showModal = true
	c.deps.Logger.Debug("detail loaded", "id", detail.ID)
	return nil
}

func (c *Card) handleSubmitted(msg FormSubmitted) tea.Cmd {
	if msg.Err != nil {
		c.deps.Logger.Error("save failed", "id", msg.CardID, "err", msg.Err)
		return c.notify(NoticeError, fmt.Sprintf("%s: %v", c.deps.Translator.T(i18n.KeySave), msg.Err))
	}
	if !msg.Changed {
		return nil
	}
	c.deps.Logger.Info("item saved", "id", msg.CardID)
	ctx, lc := c.deps.Context, c.deps.List
	if lc == nil {
		return nil
	}
	return func() tea.Msg {
		return ListRefreshed{Err: lc.Refresh(ctx)}
	}
}

// View implements tea.Model. It renders the modal in place of the card
// while the modal is open.
func (c *Card) View() string {
	if c.ModalOpen() {
		return c.viewModal()
	}
	return c.viewCard()
}

func (c *Card) viewCard() string {
	tr := c.deps.Translator
	disabled := c.deleted()
	inner := c.width - 4

	checkbox := "[ ]"
	if c.selected {
		checkbox = "[x]"
	}
	if disabled {
		checkbox = disabledStyle.Render(checkbox)
	}

	title := cardTitleStyle.Render(utils.Truncate(c.item.DisplayTitle(tr.T(i18n.KeyNoTitle)), inner-4))
	gap := inner - lipgloss.Width(title) - lipgloss.Width(checkbox)
	if gap < 1 {
		gap = 1
	}
	header := title + strings.Repeat(" ", gap) + checkbox

	var body string
	if c.isLoading {
		body = c.spinner.View() + " " + labelStyle.Render(tr.T(i18n.KeyLoading))
	} else {
		body = previewStyle.Render(utils.Truncate(c.item.Preview+"...", inner))
	}

	button := doneButtonStyle.
		Foreground(doneColor(c.item.IsCompleted)).
		BorderForeground(doneColor(c.item.IsCompleted)).
		Render(tr.T(i18n.KeyDone))
	if disabled {
		button = disabledStyle.Render(button)
	}

	style := cardStyle
	if c.focused {
		style = focusedCardStyle
	}
	return style.Width(c.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, button))
}

func (c *Card) viewModal() string {
	tr := c.deps.Translator
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(c.detail.Summary(0).DisplayTitle(tr.T(i18n.KeyNoTitle))) + "\n")
	if !c.detail.LastModificationTime.IsZero() {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%s: %s",
			tr.T(i18n.KeyLastModified),
			c.detail.LastModificationTime.Local().Format("2006-01-02 15:04"))) + "\n")
	}
	b.WriteString("\n")
	if c.isLoading {
		b.WriteString(c.spinner.View() + " " + tr.T(i18n.KeyLoading) + "\n\n")
	}
	b.WriteString(c.form.View() + "\n\n")
	if c.form.ReadOnly() {
		b.WriteString(helpStyle.Render(fmt.Sprintf("esc %s • tab", tr.T(i18n.KeyClose))))
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("esc %s • ctrl+s %s • ctrl+d %s • tab",
			tr.T(i18n.KeyClose), tr.T(i18n.KeySave), tr.T(i18n.KeyDelete))))
	}
	return modalStyle.Render(b.String())
}
