package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"ipranges/internal/app/version"
	"ipranges/internal/config"
)

// Run drives one CLI invocation: global flags, settings, then the requested
// command. Errors wrapping config.ErrInvalid signal a usage problem.
func Run(args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	flags := flag.NewFlagSet("ipranges", flag.ContinueOnError)
	configPath := flags.String("config", config.DefaultSettingsPath, "Path to the settings file")
	verbose := flags.Bool("verbose", false, "Enable debug logging")
	flags.Usage = func() { printUsage(flags) }

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing arguments: %w", config.ErrInvalid)
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return fmt.Errorf("no command given: %w", config.ErrInvalid)
	}

	command := flags.Arg(0)
	rest := flags.Args()[1:]

	if command == "version" {
		info := version.Get()
		fmt.Printf("ipranges %s (built %s)\n", info.BuildVersion, info.BuiltAt)
		return nil
	}

	if err := config.ReadSettings(*configPath); err != nil {
		return err
	}
	cfg := config.GetConfig()
	setupLogging(cfg, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "scrape":
		return runScrape(ctx, cfg, rest)
	case "convert":
		return runConvert(ctx, cfg, rest)
	case "lookup":
		return runLookup(ctx, cfg, rest)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command %q: %w", command, config.ErrInvalid)
	}
}

func setupLogging(cfg config.Config, verbose bool) {
	level, err := log.ParseLevel(config.LogLevel(cfg))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	if cfg.Logging.File == "" {
		return
	}
	file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn("Could not open log file, logging to stderr only", "file", cfg.Logging.File, "error", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
}

func printUsage(flags *flag.FlagSet) {
	out := flags.Output()
	fmt.Fprintln(out, "Usage: ipranges [flags] <command> [command flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  scrape    Download per-country zone files from the configured source")
	fmt.Fprintln(out, "  convert   Convert zone files into JSON, CSV or TXT range exports")
	fmt.Fprintln(out, "  lookup    Find the country zone range containing an IPv4 address")
	fmt.Fprintln(out, "  version   Print build information")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	flags.PrintDefaults()
}
