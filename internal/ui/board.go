package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todocard-go/internal/i18n"
	"github.com/nibzard/todocard-go/internal/list"
	"github.com/nibzard/todocard-go/internal/parallel"
)

const noticeTTL = 3 * time.Second

// Board hosts a grid of cards over the shared list store. It owns the
// selection set and the focus cursor.
type Board struct {
	ctx    context.Context
	store  *list.Store
	api    ItemAPI
	tr     *i18n.Translator
	logger *log.Logger

	cards    []*Card
	selected map[string]bool
	cursor   int

	loaded    bool
	loadErr   error
	notice    *Notice
	noticeSeq int

	keys   boardKeyMap
	width  int
	height int
}

// NewBoard creates a board. The first refresh runs from Init.
func NewBoard(ctx context.Context, store *list.Store, api ItemAPI, tr *i18n.Translator, logger *log.Logger) *Board {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{
		ctx:      ctx,
		store:    store,
		api:      api,
		tr:       tr,
		logger:   logger,
		selected: make(map[string]bool),
		keys:     defaultBoardKeys(),
	}
}

// Cards returns the hosted cards in list order.
func (b *Board) Cards() []*Card { return b.cards }

// Selected returns the ids of the checked cards.
func (b *Board) Selected() []string {
	ids := make([]string, 0, len(b.selected))
	for _, c := range b.cards {
		if b.selected[c.ID()] {
			ids = append(ids, c.ID())
		}
	}
	return ids
}

// Notice returns the visible notice, or nil.
func (b *Board) Notice() *Notice { return b.notice }

// UpdateSelected toggles id in the selection set.
func (b *Board) UpdateSelected(id string) {
	if b.selected[id] {
		delete(b.selected, id)
	} else {
		b.selected[id] = true
	}
	if c := b.card(id); c != nil {
		c.SetSelected(b.selected[id])
	}
}

// AfterDelete drops a deleted item from the board.
func (b *Board) AfterDelete(id string) {
	delete(b.selected, id)
	b.store.Remove(id)
	for i, c := range b.cards {
		if c.ID() == id {
			b.cards = append(b.cards[:i:i], b.cards[i+1:]...)
			break
		}
	}
	b.clampCursor()
}

func (b *Board) card(id string) *Card {
	for _, c := range b.cards {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

func (b *Board) focused() *Card {
	if b.cursor < 0 || b.cursor >= len(b.cards) {
		return nil
	}
	return b.cards[b.cursor]
}

func (b *Board) clampCursor() {
	if b.cursor >= len(b.cards) {
		b.cursor = len(b.cards) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	for i, c := range b.cards {
		c.SetFocused(i == b.cursor)
	}
}

func (b *Board) refreshCmd() tea.Cmd {
	ctx, store := b.ctx, b.store
	return func() tea.Msg {
		return ListRefreshed{Err: store.Refresh(ctx)}
	}
}

// syncCards rebuilds the card list from the store. Existing cards keep
// their modal and loading state.
func (b *Board) syncCards() {
	deps := CardDeps{
		Context:    b.ctx,
		List:       b.store,
		API:        b.api,
		Translator: b.tr,
		Logger:     b.logger,
	}
	existing := make(map[string]*Card, len(b.cards))
	for _, c := range b.cards {
		existing[c.ID()] = c
	}

	items := b.store.Items()
	cards := make([]*Card, 0, len(items))
	present := make(map[string]bool, len(items))
	for _, item := range items {
		present[item.ID] = true
		c, ok := existing[item.ID]
		if ok {
			c.SetSummary(item)
			c.SetSelected(b.selected[item.ID])
		} else {
			c = NewCard(item, b.selected[item.ID], b.UpdateSelected, b.AfterDelete, deps)
		}
		cards = append(cards, c)
	}
	for id := range b.selected {
		if !present[id] {
			delete(b.selected, id)
		}
	}
	b.cards = cards
	b.clampCursor()
}

func (b *Board) columns() int {
	if b.width <= 0 {
		return 3
	}
	cols := b.width / (defaultCardWidth + 1)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return b.refreshCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		return b, nil

	case tea.KeyMsg:
		return b, b.handleKey(msg)

	case ListRefreshed:
		if errors.Is(msg.Err, list.ErrStale) {
			return b, nil
		}
		b.loaded = true
		b.loadErr = msg.Err
		if msg.Err != nil {
			b.logger.Error("list refresh failed", "err", msg.Err)
			return b, b.showNotice(Notice{Level: NoticeError, Text: fmt.Sprintf("%s: %v", b.tr.T(i18n.KeyRefreshFailed), msg.Err)})
		}
		b.syncCards()
		return b, nil

	case NoticeMsg:
		return b, b.showNotice(msg.Notice)

	case clearNoticeMsg:
		if msg.seq == b.noticeSeq {
			b.notice = nil
		}
		return b, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		for _, c := range b.cards {
			_, cmd := c.Update(msg)
			cmds = append(cmds, cmd)
		}
		return b, tea.Batch(cmds...)

	case DetailResult:
		return b, b.handleDetail(msg)

	case CompleteResult:
		cmd := b.route(msg.CardID, msg)
		if msg.Refreshed {
			b.syncCards()
		}
		return b, cmd

	case FormSubmitted:
		return b, b.route(msg.CardID, msg)

	case FormDeleted:
		return b, b.route(msg.CardID, msg)

	case BulkCompleted:
		return b, b.handleBulkCompleted(msg)
	}
	return b, nil
}

// CompleteSelected marks every selected item completed, then refreshes the
// list once. It is a no-op in the deleted view or without a selection.
func (b *Board) CompleteSelected() tea.Cmd {
	ids := b.Selected()
	if len(ids) == 0 || b.store.Params().IsDeleted {
		return nil
	}
	ctx, api, store := b.ctx, b.api, b.store
	return func() tea.Msg {
		results := parallel.Each(ctx, ids, parallel.DefaultWorkers, false, func(ctx context.Context, id string) error {
			return api.SetCompleted(ctx, id, true)
		})
		return BulkCompleted{Results: results, RefreshErr: store.Refresh(ctx)}
	}
}

func (b *Board) handleBulkCompleted(msg BulkCompleted) tea.Cmd {
	for _, r := range msg.Results {
		if r.Err == nil {
			delete(b.selected, r.ID)
			continue
		}
		b.logger.Error("bulk complete failed", "id", r.ID, "err", r.Err)
	}
	switch {
	case msg.RefreshErr == nil:
		b.syncCards()
	case !errors.Is(msg.RefreshErr, list.ErrStale):
		b.logger.Error("list refresh failed", "err", msg.RefreshErr)
	}

	failed := parallel.Failed(msg.Results)
	b.logger.Info("bulk complete", "items", len(msg.Results), "failed", len(failed))
	if len(failed) > 0 {
		return b.showNotice(Notice{Level: NoticeError, Text: b.tr.Tf(i18n.KeyBulkFailed, len(failed), len(msg.Results))})
	}
	return b.showNotice(Notice{Level: NoticeInfo, Text: b.tr.Tf(i18n.KeyBulkDone, len(msg.Results))})
}

// handleDetail moves the cursor to the card whose modal opened. A detail that
// arrives while another modal is open is kept but its modal stays closed.
func (b *Board) handleDetail(msg DetailResult) tea.Cmd {
	open := b.focused()
	busy := open != nil && open.ID() != msg.CardID && open.ModalOpen()

	cmd := b.route(msg.CardID, msg)
	for i, c := range b.cards {
		if c.ID() != msg.CardID || !c.ModalOpen() {
			continue
		}
		if busy {
			c.hideModal()
			b.logger.Debug("detail arrived behind an open modal", "id", msg.CardID, "open", open.ID())
			break
		}
		b.cursor = i
		b.clampCursor()
		break
	}
	return cmd
}

func (b *Board) route(id string, msg tea.Msg) tea.Cmd {
	c := b.card(id)
	if c == nil {
		b.logger.Debug("result for unknown card", "id", id)
		return nil
	}
	_, cmd := c.Update(msg)
	return cmd
}

func (b *Board) showNotice(n Notice) tea.Cmd {
	b.notice = &n
	b.noticeSeq++
	seq := b.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (b *Board) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	c := b.focused()
	if c != nil && c.ModalOpen() {
		_, cmd := c.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, b.keys.Quit):
		return tea.Quit
	case key.Matches(msg, b.keys.Refresh):
		return b.refreshCmd()
	case key.Matches(msg, b.keys.BulkDone):
		return b.CompleteSelected()
	case key.Matches(msg, b.keys.View):
		b.store.SetDeleted(!b.store.Params().IsDeleted)
		b.cards = nil
		b.cursor = 0
		b.loaded = false
		return b.refreshCmd()
	case key.Matches(msg, b.keys.Left):
		b.moveCursor(-1)
		return nil
	case key.Matches(msg, b.keys.Right):
		b.moveCursor(1)
		return nil
	case key.Matches(msg, b.keys.Up):
		b.moveCursor(-b.columns())
		return nil
	case key.Matches(msg, b.keys.Down):
		b.moveCursor(b.columns())
		return nil
	}

	if c == nil {
		return nil
	}
	_, cmd := c.Update(msg)
	return cmd
}

func (b *Board) moveCursor(delta int) {
	next := b.cursor + delta
	if next < 0 || next >= len(b.cards) {
		return
	}
	b.cursor = next
	b.clampCursor()
}

// View implements tea.Model.
func (b *Board) View() string {
	var sb strings.Builder
	b.writeHeader(&sb)

	if c := b.focused(); c != nil && c.ModalOpen() {
		sb.WriteString(c.View() + "\n")
		b.writeNotice(&sb)
		return sb.String()
	}

	switch {
	case !b.loaded:
		sb.WriteString(b.tr.T(i18n.KeyLoading) + "\n\n")
	case b.loadErr != nil && len(b.cards) == 0:
		sb.WriteString(fmt.Sprintf("%s: %v\n\n", b.tr.T(i18n.KeyRefreshFailed), b.loadErr))
	case len(b.cards) == 0:
		sb.WriteString(labelStyle.Render(b.tr.T(i18n.KeyEmptyList)) + "\n\n")
	default:
		sb.WriteString(b.grid() + "\n")
	}

	b.writeNotice(&sb)
	sb.WriteString(helpStyle.Render("←↓↑→ move • space select • enter open • d done • D done selected • tab view • r refresh • q quit") + "\n")
	return sb.String()
}

func (b *Board) writeHeader(sb *strings.Builder) {
	view := b.tr.T(i18n.KeyActiveView)
	if b.store.Params().IsDeleted {
		view = b.tr.T(i18n.KeyDeletedView)
	}
	line := headerStyle.Render("todocard") + "  " + view
	if n := len(b.selected); n > 0 {
		line += labelStyle.Render(fmt.Sprintf("  (%d selected)", n))
	}
	sb.WriteString(line + "\n\n")
}

func (b *Board) writeNotice(sb *strings.Builder) {
	if b.notice == nil {
		return
	}
	sb.WriteString(noticeStyles[b.notice.Level].Render(b.notice.Text) + "\n\n")
}

func (b *Board) grid() string {
	cols := b.columns()
	var rows []string
	for start := 0; start < len(b.cards); start += cols {
		end := start + cols
		if end > len(b.cards) {
			end = len(b.cards)
		}
		views := make([]string, 0, end-start)
		for _, c := range b.cards[start:end] {
			views = append(views, c.View())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, views...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
