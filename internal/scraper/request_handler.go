package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const maxZoneBytes = 10 << 20

// fetch retrieves a URL within the configured retry budget, waiting for the
// rate limiter before each attempt and backing off between failures.
func (s *Scraper) fetch(ctx context.Context, target string) ([]byte, error) {
	attempts := s.opts.Retries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := s.get(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		backoff := s.opts.Delay << (attempt - 1)
		log.Debug("Retrying download", "url", target, "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

func (s *Scraper) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %s", target, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxZoneBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if len(body) > maxZoneBytes {
		return nil, fmt.Errorf("fetch %s: response exceeds %d bytes", target, maxZoneBytes)
	}
	return body, nil
}

func (s *Scraper) downloadZone(ctx context.Context, link zoneLink) (int, error) {
	if err := s.checkRobots(ctx, link.URL); err != nil {
		return 0, err
	}

	body, err := s.fetch(ctx, link.URL)
	if err != nil {
		return 0, err
	}

	dest := filepath.Join(s.opts.OutputDir, link.Name)
	if err := writeZoneFile(dest, body); err != nil {
		return 0, err
	}

	log.Debug("Zone saved", "country", link.Country, "file", dest, "size", humanize.Bytes(uint64(len(body))))
	return len(body), nil
}

// writeZoneFile replaces the destination atomically so a partial download
// never clobbers a previously scraped zone.
func writeZoneFile(dest string, body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "zone-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("replace zone file: %w", err)
	}
	return nil
}
