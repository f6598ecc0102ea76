package converter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"ipranges/internal/cidr"
	"ipranges/internal/domain"
	"ipranges/internal/support"
)

var ErrFileRead = errors.New("zone file unreadable")

// LoadZone reads a zone file into a conversion result without sampling.
func LoadZone(ctx context.Context, path string) (domain.ZoneConversion, int, error) {
	return parseZoneFile(ctx, path, newSampler(1), false)
}

// parseZoneFile converts every CIDR entry in a zone file, skipping blank
// lines and comments. Entries that fail to parse are logged and counted as
// warnings rather than aborting the file. When sampleAll is set, each
// converted range is retained with the sampler's probability.
func parseZoneFile(ctx context.Context, path string, keep *sampler, sampleAll bool) (domain.ZoneConversion, int, error) {
	zone := domain.ZoneConversion{
		CountryCode: support.CountryCode(path),
		SampleRate:  keep.rate,
		Ranges:      []domain.IPRange{},
	}

	file, err := os.Open(path)
	if err != nil {
		return zone, 0, fmt.Errorf("opening zone file %s: %w: %w", path, err, ErrFileRead)
	}
	defer file.Close()

	warnings := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return zone, warnings, err
		}

		line := strings.TrimSpace(scanner.Text())
		if cidr.IsSkippable(line) {
			continue
		}

		r, err := cidr.Convert(line)
		if err != nil {
			warnings++
			log.Warn("Skipping zone entry", "file", path, "entry", line, "error", err)
			continue
		}

		if sampleAll && !keep.keep() {
			continue
		}

		zone.Ranges = append(zone.Ranges, r)
		zone.TotalIPs += r.TotalIPs
	}
	if err := scanner.Err(); err != nil {
		return zone, warnings, fmt.Errorf("reading zone file %s: %w: %w", path, err, ErrFileRead)
	}

	zone.TotalRanges = len(zone.Ranges)
	return zone, warnings, nil
}
