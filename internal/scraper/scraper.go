package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

// Options carries the resolved settings for one scrape run.
type Options struct {
	SourceURL     string
	OutputDir     string
	UserAgent     string
	Retries       int
	Delay         time.Duration
	Timeout       time.Duration
	RespectRobots bool
}

// RunStats aggregates the outcome of a scrape run.
type RunStats struct {
	Discovered int
	Downloaded int
	Failed     int
	Bytes      uint64
	Elapsed    time.Duration
}

type Scraper struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	robots  *robotsGuard
}

func New(opts Options) *Scraper {
	return &Scraper{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		robots:  newRobotsGuard(opts.UserAgent, opts.Timeout),
	}
}

// Run downloads every per-country zone file linked from the configured
// index page. Individual download failures are counted, not fatal; a
// disallowing robots.txt on the index aborts the run.
func (s *Scraper) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	stats := RunStats{}

	base, err := url.Parse(s.opts.SourceURL)
	if err != nil {
		return stats, fmt.Errorf("parsing source url %s: %w", s.opts.SourceURL, err)
	}

	if err := s.checkRobots(ctx, base.String()); err != nil {
		return stats, err
	}

	links, err := s.discoverZones(ctx, base)
	if err != nil {
		return stats, err
	}
	stats.Discovered = len(links)
	log.Info("Discovered zone files", "count", len(links), "source", base.String())

	if err := os.MkdirAll(s.opts.OutputDir, os.ModePerm); err != nil {
		return stats, fmt.Errorf("creating output directory %s: %w", s.opts.OutputDir, err)
	}

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			stats.Failed += len(links) - i
			break
		}

		size, err := s.downloadZone(ctx, link)
		if err != nil {
			stats.Failed++
			log.Error("Zone download failed", "country", link.Country, "url", link.URL, "error", err)
			continue
		}
		stats.Downloaded++
		stats.Bytes += uint64(size)
	}

	stats.Elapsed = time.Since(start).Round(time.Millisecond)
	log.Info("Scrape finished",
		"discovered", stats.Discovered,
		"downloaded", stats.Downloaded,
		"failed", stats.Failed,
		"size", humanize.Bytes(stats.Bytes),
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

// checkRobots consults the crawl policy when enabled. Problems fetching or
// parsing robots.txt are logged and treated as permission.
func (s *Scraper) checkRobots(ctx context.Context, target string) error {
	if !s.opts.RespectRobots {
		return nil
	}

	allowed, err := s.robots.allowed(ctx, target)
	if err != nil {
		log.Warn("Robots check failed, proceeding", "url", target, "error", err)
		return nil
	}
	if !allowed {
		return fmt.Errorf("robots.txt disallows %s", target)
	}
	return nil
}
