package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Summary is the minimal task shape a list card renders.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Preview     string `json:"preview"`
	IsCompleted bool   `json:"isCompleted"`
}

// Detail is the full task shape used by the detail modal and edit form.
type Detail struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	IsCompleted          bool      `json:"isCompleted"`
	LastModificationTime Timestamp `json:"lastModificationTime"`
}

// Params carries the list view parameters shared by every card.
type Params struct {
	// IsDeleted marks the read-only view over deleted items.
	IsDeleted bool `json:"isDeleted"`
}

// CompleteRequest is the body of a completion toggle.
type CompleteRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

// UpdateRequest is the body of an edit submitted from the form.
type UpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// timestampLayouts are tried in order. The backend may omit the zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a time that tolerates zone-less server formats and null.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ParseTimestamp parses a backend timestamp. Zone-less values are read as UTC.
// An empty string yields the zero time.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// DisplayTitle returns the title, or fallback when the title is blank.
func (s Summary) DisplayTitle(fallback string) string {
	if strings.TrimSpace(s.Title) == "" {
		return fallback
	}
	return s.Title
}

// Summary reduces a detail to the card shape. Preview is the first line of
// content, truncated to maxPreview runes when maxPreview > 0.
func (d Detail) Summary(maxPreview int) Summary {
	preview := d.Content
	if i := strings.IndexByte(preview, '\n'); i >= 0 {
		preview = preview[:i]
	}
	if maxPreview > 0 {
		runes := []rune(preview)
		if len(runes) > maxPreview {
			preview = string(runes[:maxPreview])
		}
	}
	return Summary{
		ID:          d.ID,
		Title:       d.Title,
		Preview:     preview,
		IsCompleted: d.IsCompleted,
	}
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dot-notation path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
