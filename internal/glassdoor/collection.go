package glassdoor

import (
	"encoding/json"
	"maps"

	"github.com/jimezsa/gdscrape/internal/models"
)

// Collection accumulates the records of one listing kind across pages.
// Pages is read from the first page only. Items follow fetch completion
// order, so their order past the first page varies between runs.
type Collection struct {
	Kind  models.Kind
	Pages int
	Items []any

	// object is the first page's state record for reviews and salaries.
	object     map[string]any
	itemsField string
	baseURL    string
}

// NewCollection builds a collection of the given kind. object is the state
// record that Value merges the items back into; pass nil for jobs.
func NewCollection(kind models.Kind, pages int, items []any, object map[string]any) *Collection {
	c := &Collection{Kind: kind, Pages: pages, Items: items, object: object}
	if l, err := listingFor(kind); err == nil {
		c.itemsField = l.itemsField
	}
	return c
}

// Value returns the collection in its scraped shape: the job record list for
// jobs, or the reviews/salaries state object with its item list replaced by
// every merged item.
func (c *Collection) Value() any {
	if c.object == nil || c.itemsField == "" {
		if c.Items == nil {
			return []any{}
		}
		return c.Items
	}
	out := maps.Clone(c.object)
	out[c.itemsField] = c.Items
	return out
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// Normalize returns one models.Item per record, in the same order as Items.
func (c *Collection) Normalize() []models.Item {
	items := make([]models.Item, 0, len(c.Items))
	for _, record := range c.Items {
		items = append(items, NormalizeItem(c.Kind, c.baseURL, record))
	}
	return items
}

// Select returns a copy of the collection holding only the records at the
// given indexes.
func (c *Collection) Select(indexes []int) *Collection {
	out := *c
	out.Items = make([]any, 0, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < len(c.Items) {
			out.Items = append(out.Items, c.Items[idx])
		}
	}
	return &out
}
