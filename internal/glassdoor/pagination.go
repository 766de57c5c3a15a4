package glassdoor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jobsPageSize is the number of job results Glassdoor renders per page.
const jobsPageSize = 40

var pageSegmentPattern = regexp.MustCompile(`(?:_P\d+)*\.htm`)

// ParseJobPageCount reads the total result count from the jobs pagination
// footer (its last token) and converts it to a page count. Pages without a
// footer have a single page.
func ParseJobPageCount(doc *goquery.Document) (int, error) {
	footer := firstText(doc.Find(".paginationFooter").First())
	fields := strings.Fields(footer)
	if len(fields) == 0 {
		return 1, nil
	}

	last := strings.ReplaceAll(fields[len(fields)-1], ",", "")
	total, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("pagination footer %q: %w", footer, err)
	}
	return pageCount(total, jobsPageSize), nil
}

func pageCount(total int, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// firstText returns the first non-blank text node directly under sel.
func firstText(sel *goquery.Selection) string {
	var text string
	sel.Contents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) != "#text" {
			return true
		}
		if value := strings.TrimSpace(s.Text()); value != "" {
			text = value
			return false
		}
		return true
	})
	return text
}

// ChangePage points a listing URL at another page by rewriting its
// "_P<n>.htm" segment, or by inserting one before ".htm". A rewrite that leaves
// the URL unchanged, including one to the page it already points at, fails
// with ErrPageSegment.
func ChangePage(rawURL string, page int) (string, error) {
	next := pageSegmentPattern.ReplaceAllLiteralString(rawURL, fmt.Sprintf("_P%d.htm", page))
	if next == rawURL {
		return "", fmt.Errorf("%w: %s (page %d)", ErrPageSegment, rawURL, page)
	}
	return next, nil
}
