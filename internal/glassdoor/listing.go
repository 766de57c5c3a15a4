package glassdoor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/gdscrape/internal/models"
)

const (
	jobsCacheKey  = "JobListingSearchResult"
	rootQueryKey  = "ROOT_QUERY"
	jobviewField  = "jobview"
	reviewsPrefix = "employerReviews"
	salaryPrefix  = "salariesByEmployer"
)

// listing describes where a listing kind lives on the site and how its pages
// are parsed.
type listing struct {
	kind       models.Kind
	state      StateKind
	path       string
	rootPrefix string
	itemsField string
	pagesField string
}

var listings = map[models.Kind]listing{
	models.KindJobs: {
		kind:  models.KindJobs,
		state: StateMultiObjectCache,
		path:  "Jobs",
	},
	models.KindReviews: {
		kind:       models.KindReviews,
		state:      StateSingleObject,
		path:       "Reviews",
		rootPrefix: reviewsPrefix,
		itemsField: "reviews",
		pagesField: "numberOfPages",
	},
	models.KindSalaries: {
		kind:       models.KindSalaries,
		state:      StateSingleObject,
		path:       "Salaries",
		rootPrefix: salaryPrefix,
		itemsField: "results",
		pagesField: "pages",
	},
}

func listingFor(kind models.Kind) (listing, error) {
	l, ok := listings[kind]
	if !ok {
		return listing{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return l, nil
}

// StateFor reports which embedded state representation a listing kind uses.
func StateFor(kind models.Kind) (StateKind, error) {
	l, err := listingFor(kind)
	if err != nil {
		return 0, err
	}
	return l.state, nil
}

// parsedPage is the result of extracting one listing page.
type parsedPage struct {
	items []any
	// object is the state record holding items; nil for cache-backed kinds.
	object map[string]any
	doc    *goquery.Document
}

func (l listing) parse(content string) (*parsedPage, error) {
	switch l.state {
	case StateMultiObjectCache:
		return l.parseCache(content)
	case StateSingleObject:
		return l.parseState(content)
	default:
		return nil, fmt.Errorf("%s: unsupported state %s", l.kind, l.state)
	}
}

func (l listing) parseCache(content string) (*parsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	cache, err := ExtractApolloCache(doc)
	if err != nil {
		return nil, err
	}

	results, ok := cache[jobsCacheKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyMissing, jobsCacheKey)
	}
	items := make([]any, 0, len(results))
	for i, result := range results {
		record, ok := result.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrCacheKeyMissing, jobsCacheKey, i)
		}
		job, ok := record[jobviewField]
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d].%s", ErrCacheKeyMissing, jobsCacheKey, i, jobviewField)
		}
		items = append(items, job)
	}
	return &parsedPage{items: items, doc: doc}, nil
}

func (l listing) parseState(content string) (*parsedPage, error) {
	state, err := ExtractApolloState(content)
	if err != nil {
		return nil, err
	}
	root, ok := state[rootQueryKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyMissing, rootQueryKey)
	}

	// ROOT_QUERY keys embed their query arguments, so several entries can
	// share the prefix. Sorting keeps the pick stable across runs.
	keys := make([]string, 0, len(root))
	for key := range root {
		if strings.HasPrefix(key, l.rootPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		object, ok := root[key].(map[string]any)
		if !ok {
			continue
		}
		items, ok := object[l.itemsField].([]any)
		if !ok || len(items) == 0 {
			continue
		}
		return &parsedPage{items: items, object: object}, nil
	}
	return nil, fmt.Errorf("%w: %s* with %s", ErrCacheKeyMissing, l.rootPrefix, l.itemsField)
}

// pageCount reads the total page count from a parsed first page.
func (l listing) pageCount(page *parsedPage) (int, error) {
	if l.state == StateMultiObjectCache {
		return ParseJobPageCount(page.doc)
	}
	raw, ok := page.object[l.pagesField]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrCacheKeyMissing, l.pagesField)
	}
	pages, ok := intValue(raw)
	if !ok {
		return 0, fmt.Errorf("%s: %v is not a page count", l.pagesField, raw)
	}
	if pages < 1 {
		return 1, nil
	}
	return pages, nil
}
