package ui

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todocard-go/internal/i18n"
	"github.com/nibzard/todocard-go/internal/list"
	"github.com/nibzard/todocard-go/internal/todo"
)

type fakeSource struct {
	mu      sync.Mutex
	active  []todo.Summary
	deleted []todo.Summary
	err     error
	queries []todo.Params
}

func (s *fakeSource) ListItems(_ context.Context, params todo.Params) ([]todo.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, params)
	if s.err != nil {
		return nil, s.err
	}
	items := s.active
	if params.IsDeleted {
		items = s.deleted
	}
	out := make([]todo.Summary, len(items))
	copy(out, items)
	return out, nil
}

func newTestBoard(t *testing.T, src *fakeSource, api *fakeAPI) *Board {
	t.Helper()
	store := list.NewStore(src, todo.Params{}, nil)
	b := NewBoard(context.Background(), store, api, testTranslator(), nil)
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	for _, msg := range runCmd(b.Init()) {
		b.Update(msg)
	}
	return b
}

func cardIDs(b *Board) []string {
	var ids []string
	for _, c := range b.Cards() {
		ids = append(ids, c.ID())
	}
	return ids
}

func TestBoardLoadsCards(t *testing.T) {
	src := &fakeSource{active: []todo.Summary{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}}}
	b := newTestBoard(t, src, newFakeAPI())

	if got := cardIDs(b); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("cards = %v", got)
	}
	view := b.View()
	for _, want := range []string{"One", "Two", testTranslator().T(i18n.KeyActiveView)} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBoardEmptyList(t *testing.T) {
	b := newTestBoard(t, &fakeSource{}, newFakeAPI())
	if !strings.Contains(b.View(), testTranslator().T(i18n.KeyEmptyList)) {
		t.Fatalf("empty list not rendered:\n%s", b.View())
	}
}

func TestBoardSelection(t *testing.T) {
	src := &fakeSource{active: []todo.Summary{{ID: "1"}, {ID: "2"}}}
	b := newTestBoard(t, src, newFakeAPI())

	b.Update(keySpace)
	b.Update(tea.KeyMsg{Type: tea.KeyRight})
	b.Update(keySpace)
	if got := b.Selected(); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("selected = %v", got)
	}
	if !b.Cards()[1].Selected() {
		t.Fatalf("card checkbox not synced")
	}

	b.Update(keySpace)
	if got := b.Selected(); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("selected after untoggle = %v", got)
	}
}

func TestBoardSwitchView(t *testing.T) {
	src := &fakeSource{
		active:  []todo.Summary{{ID: "1"}},
		deleted: []todo.Summary{{ID: "9", Title: "Old"}},
	}
	b := newTestBoard(t, src, newFakeAPI())

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyTab})
	if len(b.Cards()) != 0 {
		t.Fatalf("cards from the previous view kept")
	}
	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}

	if got := cardIDs(b); !reflect.DeepEqual(got, []string{"9"}) {
		t.Fatalf("cards = %v", got)
	}
	if last := src.queries[len(src.queries)-1]; !last.IsDeleted {
		t.Fatalf("last query = %+v, want deleted view", last)
	}
	if !strings.Contains(b.View(), testTranslator().T(i18n.KeyDeletedView)) {
		t.Fatalf("deleted view header missing")
	}

	// done is disabled for cards in the deleted view
	if _, cmd := b.Update(keyDone); cmd != nil {
		t.Fatalf("done produced a command in deleted view")
	}
}

func TestBoardIgnoresStaleRefresh(t *testing.T) {
	src := &fakeSource{
		active:  []todo.Summary{{ID: "1"}},
		deleted: []todo.Summary{{ID: "9"}},
	}
	b := newTestBoard(t, src, newFakeAPI())
	tr := testTranslator()

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyTab})
	b.Update(ListRefreshed{Err: list.ErrStale})
	view := b.View()
	if strings.Contains(view, tr.T(i18n.KeyEmptyList)) || !strings.Contains(view, tr.T(i18n.KeyLoading)) {
		t.Fatalf("stale refresh rendered as a loaded list:\n%s", view)
	}
	if b.Notice() != nil {
		t.Fatalf("stale refresh raised a notice: %+v", b.Notice())
	}

	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}
	if got := cardIDs(b); !reflect.DeepEqual(got, []string{"9"}) {
		t.Fatalf("cards = %v", got)
	}
}

func TestBoardToggleCompleteResyncs(t *testing.T) {
	src := &fakeSource{active: []todo.Summary{{ID: "1", Title: "One"}}}
	api := newFakeAPI()
	b := newTestBoard(t, src, api)
	first := b.Cards()[0]

	_, cmd := b.Update(keyDone)
	src.mu.Lock()
	src.active = []todo.Summary{{ID: "1", Title: "One", IsCompleted: true}}
	src.mu.Unlock()
	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}

	if len(api.completes) != 1 || !api.completes[0].Completed {
		t.Fatalf("completes = %+v", api.completes)
	}
	if b.Cards()[0] != first {
		t.Fatalf("card instance replaced on resync")
	}
	if !b.Cards()[0].Summary().IsCompleted || b.Cards()[0].Loading() {
		t.Fatalf("card not resynced: %+v", b.Cards()[0].Summary())
	}
}

func TestBoardOpenEditDelete(t *testing.T) {
	src := &fakeSource{active: []todo.Summary{{ID: "1"}, {ID: "2"}}}
	api := newFakeAPI(todo.Detail{ID: "2", Title: "Two"})
	b := newTestBoard(t, src, api)

	b.Update(tea.KeyMsg{Type: tea.KeyRight})
	b.Update(keySpace)
	_, cmd := b.Update(keyEnter)
	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}
	if !b.Cards()[1].ModalOpen() {
		t.Fatalf("modal not open")
	}

	// keys go to the modal while it is open
	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !b.Cards()[1].Form().Changed() {
		t.Fatalf("typed key did not reach the form")
	}

	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}
	if got := cardIDs(b); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("cards after delete = %v", got)
	}
	if len(b.Selected()) != 0 {
		t.Fatalf("deleted card still selected")
	}
	if !reflect.DeepEqual(api.deletes, []string{"2"}) {
		t.Fatalf("deletes = %v", api.deletes)
	}
}

func TestBoardLateDetailKeepsOpenModal(t *testing.T) {
	src := &fakeSource{active: []todo.Summary{{ID: "1"}, {ID: "2"}}}
	api := newFakeAPI(todo.Detail{ID: "1", Title: "One"}, todo.Detail{ID: "2", Title: "Two"})
	b := newTestBoard(t, src, api)

	_, cmd := b.Update(keyEnter)
	late := runCmd(cmd)

	b.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd = b.Update(keyEnter)
	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}
	if !b.Cards()[1].ModalOpen() {
		t.Fatalf("second modal not open")
	}
	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'!'}})

	for _, msg := range late {
		b.Update(msg)
	}
	if b.Cards()[0].ModalOpen() {
		t.Fatalf("late detail opened a second modal")
	}
	if b.Cards()[0].Detail() == nil || b.Cards()[0].Loading() {
		t.Fatalf("late detail not stored")
	}
	if !b.Cards()[1].ModalOpen() || !b.Cards()[1].Form().Changed() {
		t.Fatalf("open modal lost focus or edits")
	}

	_, cmd = b.Update(keyEsc)
	for _, msg := range runCmd(cmd) {
		b.Update(msg)
	}
	if b.Cards()[1].ModalOpen() {
		t.Fatalf("esc did not close the edited modal")
	}
	if want := []todo.UpdateRequest{{Title: "Two!"}}; !reflect.DeepEqual(api.updates, want) {
		t.Fatalf("updates = %+v, want %+v", api.updates, want)
	}
}

func TestBoardNotices(t *testing.T) {
	b := newTestBoard(t, &fakeSource{}, newFakeAPI())

	b.Update(NoticeMsg{Notice: Notice{Level: NoticeWarning, Text: "first"}})
	b.Update(NoticeMsg{Notice: Notice{Level: NoticeInfo, Text: "second"}})
	if b.Notice() == nil || b.Notice().Text != "second" {
		t.Fatalf("notice = %+v", b.Notice())
	}

	// a stale clear must not hide the newer notice
	b.Update(clearNoticeMsg{seq: 1})
	if b.Notice() == nil {
		t.Fatalf("stale clear removed the notice")
	}
	b.Update(clearNoticeMsg{seq: 2})
	if b.Notice() != nil {
		t.Fatalf("notice not cleared")
	}
}

func TestBoardRefreshFailure(t *testing.T) {
	src := &fakeSource{err: errBackend}
	b := newTestBoard(t, src, newFakeAPI())

	if b.Notice() == nil || b.Notice().Level != NoticeError {
		t.Fatalf("expected error notice, got %+v", b.Notice())
	}
	if !strings.Contains(b.View(), errBackend.Error()) {
		t.Fatalf("view missing refresh error:\n%s", b.View())
	}
}

func TestBoardCompleteSelected(t *testing.T) {
	keyBulk := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}}

	t.Run("completes every selected item and refreshes once", func(t *testing.T) {
		src := &fakeSource{active: []todo.Summary{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
		api := newFakeAPI()
		b := newTestBoard(t, src, api)
		b.UpdateSelected("1")
		b.UpdateSelected("3")
		queries := len(src.queries)

		_, cmd := b.Update(keyBulk)
		for _, msg := range runCmd(cmd) {
			b.Update(msg)
		}

		if len(api.completes) != 2 {
			t.Fatalf("completes = %+v", api.completes)
		}
		for _, c := range api.completes {
			if !c.Completed || c.ID == "2" {
				t.Errorf("unexpected completion %+v", c)
			}
		}
		if got := len(src.queries) - queries; got != 1 {
			t.Errorf("refreshes = %d, want 1", got)
		}
		if len(b.Selected()) != 0 {
			t.Errorf("selection kept: %v", b.Selected())
		}
		if n := b.Notice(); n == nil || n.Level != NoticeInfo || n.Text != "Completed 2 items" {
			t.Errorf("notice = %+v", n)
		}
	})

	t.Run("failures keep the selection", func(t *testing.T) {
		src := &fakeSource{active: []todo.Summary{{ID: "1"}}}
		api := newFakeAPI()
		api.setErr = errBackend
		b := newTestBoard(t, src, api)
		b.UpdateSelected("1")

		for _, msg := range runCmd(b.CompleteSelected()) {
			b.Update(msg)
		}
		if got := b.Selected(); !reflect.DeepEqual(got, []string{"1"}) {
			t.Errorf("selected = %v", got)
		}
		if n := b.Notice(); n == nil || n.Level != NoticeError || n.Text != "1 of 1 items failed" {
			t.Errorf("notice = %+v", n)
		}
	})

	t.Run("nothing selected", func(t *testing.T) {
		b := newTestBoard(t, &fakeSource{active: []todo.Summary{{ID: "1"}}}, newFakeAPI())
		if cmd := b.CompleteSelected(); cmd != nil {
			t.Error("expected no command without a selection")
		}
	})
}
