package glassdoor

import (
	"encoding/json"
	"iter"
	"strings"
)

// FindJSONObjects scans text for JSON objects and yields each decoded object
// together with its key. Decoding starts at every '{' and stops at the end of
// the first complete value, so trailing text is left for the next step of the
// scan. Fragments that fail to decode are skipped one byte at a time.
//
// The key is a heuristic: it is the contents of the last "..." pair anywhere
// before the brace. Objects preceded by unrelated quoted text receive that
// text as key, and an object with no quote before it gets an empty key.
func FindJSONObjects(text string) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		pos := 0
		for pos < len(text) {
			offset := strings.IndexByte(text[pos:], '{')
			if offset < 0 {
				return
			}
			start := pos + offset

			value, consumed, err := decodePrefix(text[start:])
			if err != nil {
				pos = start + 1
				continue
			}
			if !yield(objectKey(text, start), value) {
				return
			}
			pos = start + consumed
		}
	}
}

// decodePrefix decodes the JSON value at the start of text and reports how
// many bytes it spans.
func decodePrefix(text string) (any, int, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, 0, err
	}
	return value, int(dec.InputOffset()), nil
}

func objectKey(text string, brace int) string {
	end := strings.LastIndexByte(text[:brace], '"')
	if end < 0 {
		return ""
	}
	start := strings.LastIndexByte(text[:end], '"')
	return text[start+1 : end]
}
