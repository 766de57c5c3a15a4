package seen

import (
	"strings"

	"github.com/jimezsa/gdscrape/internal/models"
)

const keySeparator = "::"

// DiffStats captures stats for unseen filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for seen history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Normalize lowercases value and collapses whitespace.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key identifies an item across runs. Items with a site id use kind::id;
// otherwise the normalized title, role and employer stand in for it.
func Key(item models.Item) (string, bool) {
	kind := Normalize(string(item.Kind))
	if kind == "" {
		return "", false
	}
	if id := strings.TrimSpace(item.ID); id != "" {
		return kind + keySeparator + id, true
	}

	title := Normalize(item.Title)
	if title == "" {
		return "", false
	}
	return strings.Join([]string{kind, title, Normalize(item.Role), Normalize(item.Employer)}, keySeparator), true
}

// Diff returns the indexes of items in newItems whose key is not in
// seenItems. Items repeated within newItems are reported once.
func Diff(newItems []models.Item, seenItems []models.Item) ([]int, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(newItems),
		TotalSeen: len(seenItems),
	}

	seenKeys := make(map[string]struct{}, len(seenItems))
	for _, item := range seenItems {
		key, ok := Key(item)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		seenKeys[key] = struct{}{}
	}

	newKeys := make(map[string]struct{}, len(newItems))
	unseen := make([]int, 0, len(newItems))
	for idx, item := range newItems {
		key, ok := Key(item)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := newKeys[key]; exists {
			continue
		}
		newKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, idx)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends unique input items to the seen history. Existing entries win
// collisions; invalid history entries are kept as they are.
func Merge(existing []models.Item, input []models.Item) ([]models.Item, MergeStats) {
	stats := MergeStats{
		TotalSeen:  len(existing),
		TotalInput: len(input),
	}

	keys := make(map[string]struct{}, len(existing)+len(input))
	out := make([]models.Item, 0, len(existing)+len(input))

	for _, item := range existing {
		key, ok := Key(item)
		if !ok {
			stats.InvalidSeen++
			out = append(out, item)
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, item)
	}

	for _, item := range input {
		key, ok := Key(item)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, item)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
