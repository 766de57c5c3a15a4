package glassdoor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StateKind identifies how a page embeds its client-side state.
type StateKind int

const (
	// StateSingleObject is one "apolloState" object holding a flat
	// key to record mapping under ROOT_QUERY.
	StateSingleObject StateKind = iota + 1
	// StateMultiObjectCache is a window.appCache script holding many
	// keyed objects that have to be brace-scanned.
	StateMultiObjectCache
)

func (s StateKind) String() string {
	switch s {
	case StateSingleObject:
		return "apollo-state"
	case StateMultiObjectCache:
		return "apollo-cache"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const appCacheMarker = "window.appCache"

var apolloStatePattern = regexp.MustCompile(`apolloState":\s*(\{.+\})\};`)

// ExtractApolloState decodes the "apolloState" object embedded in content.
func ExtractApolloState(content string) (map[string]any, error) {
	match := apolloStatePattern.FindStringSubmatch(content)
	if match == nil {
		return nil, fmt.Errorf("%w: apolloState", ErrStateNotFound)
	}

	var state map[string]any
	if err := decodeJSON(match[1], &state); err != nil {
		return nil, fmt.Errorf("decode apolloState: %w", err)
	}
	return state, nil
}

// ExtractApolloCache scans the window.appCache script of doc and groups the
// decoded objects by key. Repeated keys keep every value in document order.
func ExtractApolloCache(doc *goquery.Document) (map[string][]any, error) {
	script, ok := findScript(doc, appCacheMarker)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStateNotFound, appCacheMarker)
	}

	cache := map[string][]any{}
	for key, value := range FindJSONObjects(script) {
		cache[key] = append(cache[key], value)
	}
	return cache, nil
}

func findScript(doc *goquery.Document, marker string) (string, bool) {
	var (
		script string
		found  bool
	)
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, marker) {
			return true
		}
		script = text
		found = true
		return false
	})
	return script, found
}

func decodeJSON(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after object")
	}
	return nil
}
