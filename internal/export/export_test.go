package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jimezsa/gdscrape/internal/models"
)

func sampleResults() []Result {
	return []Result{
		{
			Kind:  models.KindJobs,
			Value: []any{map[string]any{"header": map[string]any{"jobTitleText": "SRE"}}},
			Items: []models.Item{{Kind: models.KindJobs, ID: "1", Title: "SRE", Location: "Austin, TX", URL: "https://www.glassdoor.com/job-listing/sre.htm"}},
		},
		{
			Kind:  models.KindReviews,
			Value: map[string]any{"numberOfPages": 1, "reviews": []any{}},
			Items: []models.Item{{Kind: models.KindReviews, ID: "9", Title: "Good team", Role: "Engineer", Rating: 4}},
		},
	}
}

func TestWriteJSONSingleResultWritesValue(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResults()[:1], FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a job list: %v\n%s", err, buf.String())
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
}

func TestWriteJSONMultipleResultsKeyedByKind(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResults(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := got["jobs"]; !ok {
		t.Fatalf("missing jobs key: %s", buf.String())
	}
	if _, ok := got["reviews"]; !ok {
		t.Fatalf("missing reviews key: %s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResults(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[2][0] != "reviews" || records[2][7] != "4.0" {
		t.Fatalf("unexpected review row: %v", records[2])
	}
}

func TestWriteTableGroupsByKind(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResults(), FormatTable, WriteOptions{LinkStyle: LinkStyleFull}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"jobs (1)", "reviews (1)", "Austin, TX", "Good team"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Result{{Kind: models.KindSalaries}}, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No results." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestShortURLLabel(t *testing.T) {
	got := shortURLLabel("https://www.glassdoor.com/Reviews/-Reviews-E7853_P2.htm")
	want := "glassdoor.com/Reviews/-Reviews-E7853_P2.htm"
	if got != want {
		t.Fatalf("shortURLLabel() = %q, want %q", got, want)
	}
}
