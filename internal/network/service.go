package network

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of requests a Service runs at once when
// no limit is configured.
const DefaultConcurrency = 2

var ErrClosed = errors.New("fetch service closed")

// Request describes one page fetch.
type Request struct {
	URL string
	// Country selects the proxy location; empty means any.
	Country string
	Cookies map[string]string
}

// Response is a fetched page. URL is the address the request resolved to
// after redirects.
type Response struct {
	URL     string
	Status  int
	Content string
}

// Result pairs a request from a FetchMany batch with its outcome.
type Result struct {
	Request  Request
	Response *Response
	Err      error
}

type pageFetcher interface {
	Fetch(ctx context.Context, r Request) (*Response, error)
	Close()
}

type Options struct {
	Concurrency int
	Timeout     time.Duration
	Rotator     *Rotator
}

// Service is the fetch facility shared by every scrape in a run. It owns a
// fixed pool of sessions, one per concurrency slot, so at most Concurrency
// requests are in flight across all callers. Requests beyond that wait for
// a free session.
type Service struct {
	pool     chan pageFetcher
	sessions []pageFetcher
	done     chan struct{}
	once     sync.Once
}

func NewService(opts Options) (*Service, error) {
	size := opts.Concurrency
	if size < 1 {
		size = DefaultConcurrency
	}

	sessions := make([]pageFetcher, 0, size)
	for i := 0; i < size; i++ {
		client, err := NewClient(opts.Rotator, opts.Timeout)
		if err != nil {
			for _, s := range sessions {
				s.Close()
			}
			return nil, err
		}
		sessions = append(sessions, client)
	}
	return newService(sessions), nil
}

func newService(sessions []pageFetcher) *Service {
	pool := make(chan pageFetcher, len(sessions))
	for _, s := range sessions {
		pool <- s
	}
	return &Service{
		pool:     pool,
		sessions: sessions,
		done:     make(chan struct{}),
	}
}

// Concurrency reports the in-flight request limit.
func (s *Service) Concurrency() int {
	return len(s.sessions)
}

// Fetch downloads one page, waiting for a free session first.
func (s *Service) Fetch(ctx context.Context, r Request) (*Response, error) {
	session, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.release(session)
	return session.Fetch(ctx, r)
}

// FetchMany downloads every request concurrently within the service limit
// and yields results in completion order. The first failure cancels the
// requests of the batch that have not finished yet; they are reported with
// the cancellation error. The channel is closed once every request has a
// result.
func (s *Service) FetchMany(ctx context.Context, reqs []Request) <-chan Result {
	results := make(chan Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)

	for _, req := range reqs {
		g.Go(func() error {
			resp, err := s.Fetch(gctx, req)
			results <- Result{Request: req, Response: resp, Err: err}
			return err
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()
	return results
}

// Close releases every session. Fetches started afterwards fail with
// ErrClosed.
func (s *Service) Close() error {
	s.once.Do(func() {
		close(s.done)
		for _, session := range s.sessions {
			session.Close()
		}
	})
	return nil
}

func (s *Service) acquire(ctx context.Context) (pageFetcher, error) {
	select {
	case <-s.done:
		return nil, ErrClosed
	default:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrClosed
	case session := <-s.pool:
		return session, nil
	}
}

func (s *Service) release(session pageFetcher) {
	s.pool <- session
}
