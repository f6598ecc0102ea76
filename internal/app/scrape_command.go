package app

import (
	"context"
	"flag"
	"fmt"
	"time"

	"ipranges/internal/config"
	"ipranges/internal/scraper"
)

func runScrape(ctx context.Context, cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("scrape", flag.ContinueOnError)
	output := flags.String("output", cfg.Scraper.OutputDir, "Directory for downloaded zone files")
	retries := flags.Int("retries", cfg.Scraper.Retries, "Download attempts per file")
	delay := flags.Duration("delay", time.Duration(cfg.Scraper.DelayMs)*time.Millisecond, "Pause between requests and base retry backoff")
	timeout := flags.Duration("timeout", time.Duration(cfg.Scraper.TimeoutMs)*time.Millisecond, "HTTP request timeout")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing scrape arguments: %w", config.ErrInvalid)
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("scrape takes no positional arguments: %w", config.ErrInvalid)
	}
	if *retries < 1 {
		return fmt.Errorf("retries must be at least 1: %w", config.ErrInvalid)
	}
	if *delay < 0 {
		return fmt.Errorf("delay cannot be negative: %w", config.ErrInvalid)
	}
	if *timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %w", config.ErrInvalid)
	}

	s := scraper.New(scraper.Options{
		SourceURL:     cfg.Scraper.SourceURL,
		OutputDir:     *output,
		UserAgent:     cfg.Scraper.UserAgent,
		Retries:       *retries,
		Delay:         *delay,
		Timeout:       *timeout,
		RespectRobots: cfg.Scraper.RespectRobots,
	})

	stats, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	if stats.Failed > 0 {
		return fmt.Errorf("scrape completed with %d failed zones", stats.Failed)
	}
	return nil
}
