package glassdoor

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func jobsPageHTML(total int, ids ...int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><div class="paginationFooter">Page 1 of %d</div>`, total)
	b.WriteString("<script>window.appCache = new Cache();")
	for _, id := range ids {
		fmt.Fprintf(&b, "\ncache.put(\"JobListingSearchResult\", {\"jobview\": {\"header\": {\"jobTitleText\": \"Job %d\", \"seoJobLink\": \"/job-listing/job-%d.htm\"}, \"job\": {\"listingId\": %d}}});", id, id, id)
	}
	b.WriteString("\n</script></body></html>")
	return b.String()
}

func statePageHTML(t *testing.T, root map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{rootQueryKey: root})
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return fmt.Sprintf(`<html><script>window.__ENV__ = {"apolloState": %s};</script></html>`, raw)
}

func reviewsPageHTML(t *testing.T, pages int, ids ...int) string {
	t.Helper()
	reviews := make([]any, 0, len(ids))
	for _, id := range ids {
		reviews = append(reviews, map[string]any{
			"reviewId": id,
			"summary":  fmt.Sprintf("Review %d", id),
		})
	}
	return statePageHTML(t, map[string]any{
		`employerReviews({"employer":{"id":7853}})`: map[string]any{
			"reviews":         reviews,
			"numberOfPages":   pages,
			"allReviewsCount": 120,
		},
	})
}

func salariesPageHTML(t *testing.T, pages int, ids ...int) string {
	t.Helper()
	results := make([]any, 0, len(ids))
	for _, id := range ids {
		results = append(results, map[string]any{
			"jobTitle": map[string]any{"id": id, "text": fmt.Sprintf("Title %d", id)},
		})
	}
	return statePageHTML(t, map[string]any{
		`salariesByEmployer({"employerId":7853})`: map[string]any{
			"results": results,
			"pages":   pages,
		},
	})
}

func itemIDs(items []any, kind string) []string {
	ids := make([]string, 0, len(items))
	for _, record := range items {
		m, _ := record.(map[string]any)
		switch kind {
		case "jobs":
			ids = append(ids, stringValue(mapValue(m["job"], "listingId")))
		case "reviews":
			ids = append(ids, stringValue(m["reviewId"]))
		case "salaries":
			ids = append(ids, stringValue(mapValue(m["jobTitle"], "id")))
		}
	}
	return ids
}
