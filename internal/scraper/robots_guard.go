package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const robotsCacheTTL = time.Hour

type robotsEntry struct {
	data    *robotstxt.RobotsData
	fetched time.Time
}

// robotsGuard answers whether the crawl policy of a host permits fetching
// a URL. Hosts without a reachable robots.txt permit everything.
type robotsGuard struct {
	agent  string
	client *http.Client

	mu      sync.Mutex
	entries map[string]robotsEntry
}

func newRobotsGuard(agent string, timeout time.Duration) *robotsGuard {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &robotsGuard{
		agent:   agent,
		client:  &http.Client{Timeout: timeout},
		entries: make(map[string]robotsEntry),
	}
}

func (g *robotsGuard) allowed(ctx context.Context, target string) (bool, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return true, fmt.Errorf("parse robots target: %w", err)
	}
	if parsed.Host == "" {
		return true, fmt.Errorf("parse robots target: missing host in %q", target)
	}

	entry, err := g.loadEntry(ctx, parsed)
	if err != nil {
		return true, err
	}
	if entry.data == nil {
		return true, nil
	}

	group := entry.data.FindGroup(g.agent)
	if group == nil {
		group = entry.data.FindGroup("*")
	}
	if group == nil {
		return true, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), nil
}

func (g *robotsGuard) loadEntry(ctx context.Context, parsed *url.URL) (robotsEntry, error) {
	key := hostKey(parsed)

	g.mu.Lock()
	entry, ok := g.entries[key]
	if ok && time.Since(entry.fetched) <= robotsCacheTTL {
		g.mu.Unlock()
		return entry, nil
	}
	delete(g.entries, key)
	g.mu.Unlock()

	entry, err := g.fetchEntry(ctx, parsed)
	if err != nil {
		return entry, err
	}
	entry.fetched = time.Now()

	g.mu.Lock()
	g.entries[key] = entry
	g.mu.Unlock()

	return entry, nil
}

func (g *robotsGuard) fetchEntry(ctx context.Context, parsed *url.URL) (robotsEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURLFor(parsed), nil)
	if err != nil {
		return robotsEntry{}, err
	}
	req.Header.Set("User-Agent", g.agent)

	resp, err := g.client.Do(req)
	if err != nil {
		return robotsEntry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return robotsEntry{}, nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return robotsEntry{}, err
	}
	return robotsEntry{data: data}, nil
}

func hostKey(parsed *url.URL) string {
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, parsed.Host)
}

func robotsURLFor(parsed *url.URL) string {
	return hostKey(parsed) + "/robots.txt"
}
