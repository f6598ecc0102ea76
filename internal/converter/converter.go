package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"ipranges/internal/domain"
)

// Options carries the resolved settings for one conversion run.
type Options struct {
	Sources           []string
	OutputDir         string
	OutputFile        string
	Formats           []Format
	TXTLayout         Layout
	Threads           int
	FileTimeout       time.Duration
	SampleRate        float64
	SampleAllFormats  bool
	EnumerateWarnOver uint64
}

// RunStats aggregates the outcome of a conversion run.
type RunStats struct {
	Converted int
	Failed    int
	Files     int
	Ranges    int
	Addresses uint64
	Warnings  int
	Elapsed   time.Duration
}

type zoneOutcome struct {
	source   string
	zone     domain.ZoneConversion
	files    int
	warnings int
	err      error
}

// Discover expands an input path into the list of zone files to convert.
// A directory yields its *.zone entries sorted by name; a file is taken
// as-is.
func Discover(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("reading input path %s: %w: %w", input, err, ErrFileRead)
	}

	if !info.IsDir() {
		return []string{input}, nil
	}

	matches, err := filepath.Glob(filepath.Join(input, "*.zone"))
	if err != nil {
		return nil, fmt.Errorf("listing zone files under %s: %w: %w", input, err, ErrFileRead)
	}
	sort.Strings(matches)
	return matches, nil
}

// Run converts every source zone file, writing the selected formats with a
// bounded worker pool. A failing zone does not stop the others.
func Run(ctx context.Context, opts Options) (RunStats, error) {
	start := time.Now()

	outDir := opts.OutputDir
	if opts.OutputFile != "" {
		outDir = filepath.Dir(opts.OutputFile)
	}
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return RunStats{}, fmt.Errorf("creating output directory %s: %w: %w", outDir, err, ErrFileWrite)
	}

	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	outcomes := make([]zoneOutcome, len(opts.Sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)
	for i, source := range opts.Sources {
		if err := groupCtx.Err(); err != nil {
			for j := i; j < len(opts.Sources); j++ {
				outcomes[j] = zoneOutcome{source: opts.Sources[j], err: err}
			}
			break
		}
		group.Go(func() error {
			outcomes[i] = convertZone(groupCtx, opts, source)
			return nil
		})
	}
	group.Wait()

	stats := RunStats{}
	for _, outcome := range outcomes {
		stats.Warnings += outcome.warnings
		stats.Files += outcome.files
		if outcome.err != nil {
			stats.Failed++
			log.Error("Zone conversion failed", "file", outcome.source, "error", outcome.err)
			continue
		}
		stats.Converted++
		stats.Ranges += outcome.zone.TotalRanges
		stats.Addresses += outcome.zone.TotalIPs
	}
	stats.Elapsed = time.Since(start).Round(time.Millisecond)

	log.Info("Conversion finished",
		"converted", stats.Converted,
		"failed", stats.Failed,
		"files", stats.Files,
		"ranges", humanize.Comma(int64(stats.Ranges)),
		"addresses", humanize.Comma(int64(stats.Addresses)),
		"warnings", stats.Warnings,
		"elapsed", stats.Elapsed,
	)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// convertZone parses and exports a single zone file under its own deadline.
func convertZone(ctx context.Context, opts Options, source string) zoneOutcome {
	if opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.FileTimeout)
		defer cancel()
	}

	zone, warnings, err := parseZoneFile(ctx, source, newSampler(opts.SampleRate), opts.SampleAllFormats)
	if err != nil {
		return zoneOutcome{source: source, warnings: warnings, err: err}
	}

	files, err := writeOutputs(ctx, opts, source, zone)
	return zoneOutcome{source: source, zone: zone, files: files, warnings: warnings, err: err}
}
