// Package i18n resolves display strings from embedded TOML catalogs.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Message keys used by the card and board.
const (
	KeyDone          = "DONE"
	KeyCannotEdit    = "CANNOTEDIT"
	KeyNoTitle       = "NO_TITLE"
	KeyLoading       = "LOADING"
	KeyDetailFailed  = "DETAIL_FAILED"
	KeySave          = "SAVE"
	KeyDelete        = "DELETE"
	KeyClose         = "CLOSE"
	KeyTitle         = "TITLE"
	KeyContent       = "CONTENT"
	KeyLastModified  = "LAST_MODIFIED"
	KeyDeletedView   = "DELETED_VIEW"
	KeyActiveView    = "ACTIVE_VIEW"
	KeyEmptyList     = "EMPTY_LIST"
	KeyRefreshFailed = "REFRESH_FAILED"
	KeyBulkDone      = "BULK_DONE"
	KeyBulkFailed    = "BULK_FAILED"
)

// supported lists the bundled catalogs. The first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.Chinese,
}

// Translator looks up display strings for one language.
type Translator struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

// New returns a translator for the best bundled match of lang.
// lang accepts a BCP 47 tag or an Accept-Language style list; an empty or
// unparsable value selects English.
func New(lang string) (*Translator, error) {
	fallback, err := loadCatalog(supported[0])
	if err != nil {
		return nil, err
	}

	tag := Match(lang)
	messages := fallback
	if tag != supported[0] {
		if messages, err = loadCatalog(tag); err != nil {
			return nil, err
		}
	}

	return &Translator{
		tag:      tag,
		messages: messages,
		fallback: fallback,
	}, nil
}

// Match returns the bundled language that best serves lang.
func Match(lang string) language.Tag {
	lang = normalizePOSIX(lang)
	if lang == "" {
		return supported[0]
	}
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		return supported[0]
	}
	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// normalizePOSIX turns values like "zh_CN.UTF-8" into "zh-CN".
func normalizePOSIX(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "C" || lang == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(lang, "_", "-")
}

func loadCatalog(tag language.Tag) (map[string]string, error) {
	base, _ := tag.Base()
	path := "locales/" + base.String() + ".toml"
	data, err := localeFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	messages := make(map[string]string)
	if _, err := toml.Decode(string(data), &messages); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return messages, nil
}

// T returns the display string for key. Missing keys fall back to English,
// then to the key itself.
func (t *Translator) T(key string) string {
	if t == nil {
		return key
	}
	if msg, ok := t.messages[key]; ok {
		return msg
	}
	if msg, ok := t.fallback[key]; ok {
		return msg
	}
	return key
}

// Tf formats the display string for key with args.
func (t *Translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}

// Language returns the resolved language tag.
func (t *Translator) Language() language.Tag {
	if t == nil {
		return supported[0]
	}
	return t.tag
}
