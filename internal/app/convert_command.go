package app

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"ipranges/internal/config"
	"ipranges/internal/converter"
)

func runConvert(ctx context.Context, cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("convert", flag.ContinueOnError)
	input := flags.String("input", cfg.Converter.InputDir, "Zone file or directory of zone files")
	output := flags.String("output", cfg.Converter.OutputDir, "Directory for converted outputs")
	outputFile := flags.String("output-file", "", "Write a single zone to this exact path instead")
	format := flags.String("format", strings.Join(cfg.Converter.Formats, ","), "Output formats: json, csv, txt or all")
	threads := flags.Int("threads", cfg.Converter.Threads, "Concurrent zone conversions")
	timeout := flags.Duration("timeout", time.Duration(cfg.Converter.FileTimeoutMs)*time.Millisecond, "Per-file conversion deadline, 0 to disable")
	sampleRate := flags.Float64("sample-rate", cfg.Converter.SampleRate, "Probability of retaining a range or address in txt output")
	txtLayout := flags.String("txt-layout", cfg.Converter.TXTLayout, "TXT layout: ranges or ips")
	sampleAll := flags.Bool("sample-all", cfg.Converter.SampleAllFormats, "Apply sampling to every format, not only txt")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing convert arguments: %w", config.ErrInvalid)
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("convert takes no positional arguments: %w", config.ErrInvalid)
	}

	formats, err := converter.ParseFormats(*format)
	if err != nil {
		return fmt.Errorf("%w: %w", err, config.ErrInvalid)
	}
	layout, err := converter.ParseLayout(*txtLayout)
	if err != nil {
		return fmt.Errorf("%w: %w", err, config.ErrInvalid)
	}
	if *threads < 1 {
		return fmt.Errorf("threads must be at least 1: %w", config.ErrInvalid)
	}
	if *timeout < 0 {
		return fmt.Errorf("timeout cannot be negative: %w", config.ErrInvalid)
	}
	if *sampleRate <= 0 || *sampleRate > 1 {
		return fmt.Errorf("sample-rate must be within (0, 1]: %w", config.ErrInvalid)
	}

	sources, err := converter.Discover(*input)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no zone files found under %s", *input)
	}
	if *outputFile != "" && (len(sources) > 1 || len(formats) > 1) {
		return fmt.Errorf("-output-file needs a single zone and a single format: %w", config.ErrInvalid)
	}

	stats, err := converter.Run(ctx, converter.Options{
		Sources:           sources,
		OutputDir:         *output,
		OutputFile:        *outputFile,
		Formats:           formats,
		TXTLayout:         layout,
		Threads:           *threads,
		FileTimeout:       *timeout,
		SampleRate:        *sampleRate,
		SampleAllFormats:  *sampleAll,
		EnumerateWarnOver: cfg.Converter.EnumerateWarnOver,
	})
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if stats.Failed > 0 {
		return fmt.Errorf("conversion completed with %d failed zones", stats.Failed)
	}
	return nil
}
