package glassdoor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jimezsa/gdscrape/internal/models"
	"github.com/jimezsa/gdscrape/internal/network"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://www.glassdoor.com"
	localeCookie   = "tldp"
)

var (
	ErrStateNotFound   = errors.New("embedded state not found")
	ErrCacheKeyMissing = errors.New("listing data not found in state")
	ErrPageSegment     = errors.New("no page segment to rewrite")
	ErrInvalidEmployer = errors.New("employer id must be numeric")
	ErrUnknownKind     = errors.New("unknown listing kind")
)

// Fetcher is the page fetching facility the scraper runs on. FetchMany
// yields results in completion order and closes the channel once every
// request has finished.
type Fetcher interface {
	Fetch(ctx context.Context, req network.Request) (*network.Response, error)
	FetchMany(ctx context.Context, reqs []network.Request) <-chan network.Result
}

type Options struct {
	BaseURL string
	// Country selects the proxy location requests are sent from.
	Country string
	Locale  Locale
	// Cookies are sent with every request in addition to the locale cookie.
	Cookies map[string]string
}

type Scraper struct {
	fetcher Fetcher
	baseURL string
	country string
	locale  Locale
	cookies map[string]string
	logger  zerolog.Logger
}

func New(fetcher Fetcher, opts Options, logger zerolog.Logger) *Scraper {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	locale := opts.Locale
	if locale.ID == 0 {
		locale = DefaultLocale
	}

	cookies := make(map[string]string, len(opts.Cookies)+1)
	for name, value := range opts.Cookies {
		cookies[name] = value
	}
	cookies[localeCookie] = strconv.Itoa(locale.ID)

	return &Scraper{
		fetcher: fetcher,
		baseURL: baseURL,
		country: opts.Country,
		locale:  locale,
		cookies: cookies,
		logger:  logger,
	}
}

func (s *Scraper) ScrapeJobs(ctx context.Context, employerID string) (*Collection, error) {
	return s.Scrape(ctx, models.KindJobs, employerID)
}

func (s *Scraper) ScrapeReviews(ctx context.Context, employerID string) (*Collection, error) {
	return s.Scrape(ctx, models.KindReviews, employerID)
}

func (s *Scraper) ScrapeSalaries(ctx context.Context, employerID string) (*Collection, error) {
	return s.Scrape(ctx, models.KindSalaries, employerID)
}

// Scrape collects every page of one listing kind for an employer. The first
// page fixes the page count; the remaining pages are fetched concurrently and
// merged as they complete. Any fetch or parse failure aborts the scrape and
// discards what was collected.
func (s *Scraper) Scrape(ctx context.Context, kind models.Kind, employerID string) (*Collection, error) {
	l, err := listingFor(kind)
	if err != nil {
		return nil, err
	}
	employerID = strings.TrimSpace(employerID)
	if !isNumeric(employerID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmployer, employerID)
	}

	firstURL := s.firstPageURL(l, employerID)
	first, err := s.fetcher.Fetch(ctx, s.request(firstURL))
	if err != nil {
		return nil, fmt.Errorf("%s: fetch page 1: %w", kind, err)
	}

	page, err := l.parse(first.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: parse page 1: %w", kind, err)
	}
	pages, err := l.pageCount(page)
	if err != nil {
		return nil, fmt.Errorf("%s: page count: %w", kind, err)
	}

	collection := NewCollection(kind, pages, page.items, page.object)
	collection.baseURL = s.baseURL

	s.logger.Info().
		Str("kind", string(kind)).
		Str("employer", employerID).
		Int("pages", pages).
		Int("items", len(page.items)).
		Msgf("scraped first page of %s, scraping remaining %d pages", kind, pages-1)

	if pages <= 1 {
		return collection, nil
	}

	// Later pages are addressed from the URL page 1 resolved to.
	pageURL := first.URL
	if pageURL == "" {
		pageURL = firstURL
	}
	reqs := make([]network.Request, 0, pages-1)
	for n := 2; n <= pages; n++ {
		target, err := ChangePage(pageURL, n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		reqs = append(reqs, s.request(target))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for result := range s.fetcher.FetchMany(ctx, reqs) {
		if result.Err != nil {
			return nil, fmt.Errorf("%s: fetch %s: %w", kind, result.Request.URL, result.Err)
		}
		next, err := l.parse(result.Response.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: parse %s: %w", kind, result.Request.URL, err)
		}
		collection.Items = append(collection.Items, next.items...)
		s.logger.Debug().
			Str("kind", string(kind)).
			Str("url", result.Request.URL).
			Int("items", len(next.items)).
			Msg("merged page")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return collection, nil
}

func (s *Scraper) firstPageURL(l listing, employerID string) string {
	return fmt.Sprintf("%s/%s/-%s-E%s_P1.htm?filter.countryId=%d", s.baseURL, l.path, l.path, employerID, s.locale.ID)
}

func (s *Scraper) request(target string) network.Request {
	return network.Request{
		URL:     target,
		Country: s.country,
		Cookies: s.cookies,
	}
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
