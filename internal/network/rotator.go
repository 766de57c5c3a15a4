package network

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

var ErrNoProxies = errors.New("no proxies available")

type proxyEntry struct {
	country string
	url     *url.URL
}

// Rotator hands out proxies round-robin and benches proxies that were
// blocked (403/429) for banDuration. Entries may be tagged with a country
// ("ca http://host:port"); untagged entries serve every country.
type Rotator struct {
	proxies     []proxyEntry
	banDuration time.Duration
	bannedUntil map[string]time.Time
	index       int
	mu          sync.Mutex
}

func NewRotator(raw []string, banDuration time.Duration) (*Rotator, error) {
	rotator := &Rotator{
		banDuration: banDuration,
		bannedUntil: map[string]time.Time{},
	}

	for _, line := range raw {
		entry, err := parseProxy(line)
		if err != nil {
			return nil, err
		}
		rotator.proxies = append(rotator.proxies, entry)
	}

	return rotator, nil
}

func parseProxy(line string) (proxyEntry, error) {
	fields := strings.Fields(line)
	var entry proxyEntry
	switch len(fields) {
	case 1:
	case 2:
		entry.country = strings.ToLower(fields[0])
	default:
		return entry, fmt.Errorf("invalid proxy entry: %q", line)
	}

	u, err := url.Parse(fields[len(fields)-1])
	if err != nil {
		return entry, err
	}
	entry.url = u
	return entry, nil
}

// Next returns the next usable proxy for country. An empty country accepts
// any proxy.
func (r *Rotator) Next(country string) (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return nil, ErrNoProxies
	}

	country = strings.ToLower(strings.TrimSpace(country))
	for range r.proxies {
		entry := r.proxies[r.index]
		r.index = (r.index + 1) % len(r.proxies)

		if !entry.serves(country) || r.isBanned(entry.url) {
			continue
		}
		return entry.url, nil
	}
	if country != "" {
		return nil, fmt.Errorf("%w for country %s", ErrNoProxies, country)
	}
	return nil, ErrNoProxies
}

func (r *Rotator) Report(proxy *url.URL, status int) {
	if proxy == nil {
		return
	}
	if status != 403 && status != 429 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bannedUntil[proxy.String()] = time.Now().Add(r.banDuration)
}

func (r *Rotator) isBanned(proxy *url.URL) bool {
	until, ok := r.bannedUntil[proxy.String()]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(r.bannedUntil, proxy.String())
		return false
	}
	return true
}

func (e proxyEntry) serves(country string) bool {
	return e.country == "" || country == "" || e.country == country
}
