package ui

import (
	"github.com/nibzard/todocard-go/internal/parallel"
	"github.com/nibzard/todocard-go/internal/todo"
)

// DetailResult is the outcome of a detail fetch. Exactly one of Detail and
// Err is meaningful.
type DetailResult struct {
	CardID string
	Detail todo.Detail
	Err    error
}

// CompleteResult is the outcome of a completion toggle followed by the list
// refresh. Refreshed is false when the toggle request itself failed.
type CompleteResult struct {
	CardID    string
	Completed bool
	Refreshed bool
	Err       error
}

// FormSubmitted reports a form submit. Changed is false when nothing was
// edited and no request was sent.
type FormSubmitted struct {
	CardID  string
	Changed bool
	Err     error
}

// FormDeleted reports a delete issued from the form.
type FormDeleted struct {
	CardID string
	Err    error
}

// ListRefreshed reports a refresh of the shared list.
type ListRefreshed struct {
	Err error
}

// BulkCompleted reports a completion over the selected cards followed by
// one list refresh.
type BulkCompleted struct {
	Results    []parallel.Result
	RefreshErr error
}

// NoticeLevel ranks a notification.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient, non-blocking notification.
type Notice struct {
	Level NoticeLevel
	Text  string
}

// NoticeMsg asks the host to show a notice.
type NoticeMsg struct {
	Notice Notice
}

type clearNoticeMsg struct {
	seq int
}
