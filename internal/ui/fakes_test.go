package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todocard-go/internal/i18n"
	"github.com/nibzard/todocard-go/internal/todo"
)

var errBackend = errors.New("backend unavailable")

type completeCall struct {
	ID        string
	Completed bool
}

// fakeAPI records calls in order. Methods are safe for concurrent use.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	details   map[string]todo.Detail
	detailErr error
	completes []completeCall
	updates   []todo.UpdateRequest
	deletes   []string
	setErr    error
	updateErr error
	deleteErr error
}

func newFakeAPI(details ...todo.Detail) *fakeAPI {
	f := &fakeAPI{details: make(map[string]todo.Detail)}
	for _, d := range details {
		f.details[d.ID] = d
	}
	return f
}

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) GetDetail(_ context.Context, id string) (todo.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get " + id)
	if f.detailErr != nil {
		return todo.Detail{}, f.detailErr
	}
	d, ok := f.details[id]
	if !ok {
		return todo.Detail{}, errors.New("not found")
	}
	return d, nil
}

func (f *fakeAPI) SetCompleted(_ context.Context, id string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("complete " + id)
	f.completes = append(f.completes, completeCall{ID: id, Completed: completed})
	return f.setErr
}

func (f *fakeAPI) UpdateItem(_ context.Context, id string, req todo.UpdateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update " + id)
	f.updates = append(f.updates, req)
	return f.updateErr
}

func (f *fakeAPI) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete " + id)
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeList shares the call log of api so ordering across the two can be
// asserted.
type fakeList struct {
	api       *fakeAPI
	params    todo.Params
	refreshes int
	err       error
}

func (l *fakeList) Refresh(context.Context) error {
	l.api.mu.Lock()
	defer l.api.mu.Unlock()
	l.api.record("refresh")
	l.refreshes++
	return l.err
}

func (l *fakeList) Params() todo.Params { return l.params }

func testTranslator() *i18n.Translator {
	tr, err := i18n.New("en")
	if err != nil {
		panic(err)
	}
	return tr
}

// runCmd executes cmd and returns the messages it yields. Batches are
// flattened and spinner ticks dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
