package seen

import (
	"testing"

	"github.com/jimezsa/gdscrape/internal/models"
)

func TestNormalize(t *testing.T) {
	got := Normalize("  Senior   Software\tEngineer  ")
	want := "senior software engineer"
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestKey(t *testing.T) {
	cases := []struct {
		name string
		item models.Item
		want string
		ok   bool
	}{
		{"id", models.Item{Kind: models.KindJobs, ID: " 1009 ", Title: "SRE"}, "jobs::1009", true},
		{"fallback", models.Item{Kind: models.KindSalaries, Title: " Data  Scientist ", Employer: "eBay"}, "salaries::data scientist::::ebay", true},
		{"no kind", models.Item{ID: "1"}, "", false},
		{"no id or title", models.Item{Kind: models.KindReviews, Employer: "eBay"}, "", false},
	}

	for _, tc := range cases {
		got, ok := Key(tc.item)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: Key() = %q, %v, want %q, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDiff(t *testing.T) {
	newItems := []models.Item{
		{Kind: models.KindReviews, ID: "1", Title: "Great place"},
		{Kind: models.KindReviews, ID: "1", Title: "Great place (dupe)"},
		{Kind: models.KindReviews, ID: "2", Title: "Meh"},
		{Kind: models.KindReviews, Title: ""},
		{Kind: models.KindJobs, ID: "2", Title: "Same id, other kind"},
	}
	seenItems := []models.Item{
		{Kind: models.KindReviews, ID: "2", Title: "Meh"},
		{Kind: "", ID: "3"},
	}

	unseen, stats := Diff(newItems, seenItems)

	if len(unseen) != 2 || unseen[0] != 0 || unseen[1] != 4 {
		t.Fatalf("unexpected unseen indexes: %v", unseen)
	}
	if stats.TotalNew != 5 {
		t.Fatalf("TotalNew = %d, want 5", stats.TotalNew)
	}
	if stats.TotalSeen != 2 {
		t.Fatalf("TotalSeen = %d, want 2", stats.TotalSeen)
	}
	if stats.InvalidSkipped() != 2 {
		t.Fatalf("InvalidSkipped = %d, want 2", stats.InvalidSkipped())
	}
	if stats.Unseen != 2 {
		t.Fatalf("Unseen = %d, want 2", stats.Unseen)
	}
}

func TestMergeAndIdempotency(t *testing.T) {
	existing := []models.Item{
		{Kind: models.KindJobs, ID: "10", Title: "Senior Engineer"},
		{Kind: models.KindJobs, Title: ""},
	}
	input := []models.Item{
		{Kind: models.KindJobs, ID: "10", Title: "Senior Engineer (repost)"},
		{Kind: models.KindJobs, ID: "11", Title: "Platform Engineer"},
		{Kind: "", Title: "Broken"},
	}

	merged, stats := Merge(existing, input)
	if len(merged) != 3 {
		t.Fatalf("expected merged len=3, got %d", len(merged))
	}
	if merged[0].Title != "Senior Engineer" {
		t.Fatalf("existing entry should win collisions, got %q", merged[0].Title)
	}
	if stats.Added != 1 {
		t.Fatalf("Added = %d, want 1", stats.Added)
	}
	if stats.InvalidSeen != 1 || stats.InvalidInput != 1 {
		t.Fatalf("unexpected invalid counts: %+v", stats)
	}
	if stats.TotalOut != 3 {
		t.Fatalf("TotalOut = %d, want 3", stats.TotalOut)
	}

	mergedAgain, statsAgain := Merge(merged, input)
	if len(mergedAgain) != len(merged) {
		t.Fatalf("expected idempotent merge length %d, got %d", len(merged), len(mergedAgain))
	}
	if statsAgain.Added != 0 {
		t.Fatalf("expected second merge Added=0, got %d", statsAgain.Added)
	}
}
