package glassdoor

import (
	"errors"
	"testing"
)

func TestParseJobPageCount(t *testing.T) {
	cases := []struct {
		name string
		html string
		want int
	}{
		{"exact", `<div class="paginationFooter">Page 1 of 80</div>`, 2},
		{"partial", `<div class="paginationFooter">Page 1 of 81</div>`, 3},
		{"commas", `<div class="paginationFooter">Page 1 of 1,234</div>`, 31},
		{"zero", `<div class="paginationFooter">Page 1 of 0</div>`, 1},
		{"missing", `<div class="results"></div>`, 1},
		{"nested", `<div class="paginationFooter"> <span>x</span> Page 1 of 120 <b>y</b></div>`, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseJobPageCount(mustDoc(t, tc.html))
			if err != nil {
				t.Fatalf("ParseJobPageCount: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d pages, got %d", tc.want, got)
			}
		})
	}
}

func TestParseJobPageCountNonNumeric(t *testing.T) {
	_, err := ParseJobPageCount(mustDoc(t, `<div class="paginationFooter">Page 1 of many</div>`))
	if err == nil {
		t.Fatalf("expected error for non-numeric footer")
	}
}

func TestChangePage(t *testing.T) {
	cases := []struct {
		in   string
		page int
		want string
	}{
		{
			"https://www.glassdoor.com/Reviews/-Reviews-E7853_P1.htm?filter.countryId=1",
			3,
			"https://www.glassdoor.com/Reviews/-Reviews-E7853_P3.htm?filter.countryId=1",
		},
		{
			"https://www.glassdoor.com/Reviews/eBay-Reviews-E7853.htm",
			2,
			"https://www.glassdoor.com/Reviews/eBay-Reviews-E7853_P2.htm",
		},
		{
			"https://x/Jobs/-Jobs-E123_P1.htm?x=1",
			5,
			"https://x/Jobs/-Jobs-E123_P5.htm?x=1",
		},
	}
	for _, tc := range cases {
		got, err := ChangePage(tc.in, tc.page)
		if err != nil {
			t.Fatalf("ChangePage(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ChangePage(%q, %d) = %q, want %q", tc.in, tc.page, got, tc.want)
		}
	}
}

func TestChangePageUnchanged(t *testing.T) {
	for _, rawURL := range []string{
		"https://www.glassdoor.com/Reviews/eBay",
		"https://x/Jobs/-Jobs-E123_P5.htm?x=1",
	} {
		if _, err := ChangePage(rawURL, 5); !errors.Is(err, ErrPageSegment) {
			t.Fatalf("ChangePage(%q): expected ErrPageSegment, got %v", rawURL, err)
		}
	}
}
