package app

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/log"

	"ipranges/internal/cidr"
	"ipranges/internal/config"
	"ipranges/internal/converter"
)

func runLookup(ctx context.Context, cfg config.Config, args []string) error {
	flags := flag.NewFlagSet("lookup", flag.ContinueOnError)
	input := flags.String("input", cfg.Converter.InputDir, "Zone file or directory of zone files to search")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing lookup arguments: %w", config.ErrInvalid)
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("lookup takes exactly one IPv4 address: %w", config.ErrInvalid)
	}

	raw := flags.Arg(0)
	addr, err := cidr.ParseAddr(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", err, config.ErrInvalid)
	}

	sources, err := converter.Discover(*input)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no zone files found under %s", *input)
	}

	var entries []cidr.ZoneRange
	for _, source := range sources {
		zone, warnings, err := converter.LoadZone(ctx, source)
		if err != nil {
			log.Warn("Skipping unreadable zone file", "file", source, "error", err)
			continue
		}
		if warnings > 0 {
			log.Debug("Zone file held invalid entries", "file", source, "skipped", warnings)
		}
		for _, r := range zone.Ranges {
			entries = append(entries, cidr.ZoneRange{CountryCode: zone.CountryCode, IPRange: r})
		}
	}

	set := cidr.NewRangeSet(entries)
	log.Debug("Loaded ranges", "zones", len(sources), "ranges", set.Len())

	match, ok := set.Lookup(addr)
	if !ok {
		return fmt.Errorf("no zone range contains %s", raw)
	}

	fmt.Printf("%s %s %s\n", raw, match.CountryCode, match.CIDR)
	return nil
}
