package converter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"ipranges/internal/cidr"
	"ipranges/internal/domain"
)

// txtSerializer writes plain text output in one of two layouts: one
// "start - end" line per range, or one line per individual address.
// When sampled is set the ranges were already filtered during parsing
// and are written as-is.
type txtSerializer struct {
	layout   Layout
	sample   *sampler
	sampled  bool
	warnOver uint64
}

func (s *txtSerializer) Write(ctx context.Context, w io.Writer, zone domain.ZoneConversion) error {
	bw := bufio.NewWriter(w)

	var err error
	if s.layout == LayoutIPs {
		err = s.writeAddresses(ctx, bw, zone)
	} else {
		err = s.writeRanges(ctx, bw, zone)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (s *txtSerializer) writeRanges(ctx context.Context, w *bufio.Writer, zone domain.ZoneConversion) error {
	for _, r := range zone.Ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.sampled && !s.sample.keep() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s - %s\n", r.StartIP, r.EndIP); err != nil {
			return err
		}
	}
	return nil
}

func (s *txtSerializer) writeAddresses(ctx context.Context, w *bufio.Writer, zone domain.ZoneConversion) error {
	if s.warnOver > 0 && zone.TotalIPs > s.warnOver {
		log.Warn("Enumerating a large address count",
			"country", zone.CountryCode,
			"addresses", humanize.Comma(int64(zone.TotalIPs)))
	}

	for _, r := range zone.Ranges {
		for v := r.Start; ; v++ {
			if v&0xFFF == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if s.sampled || s.sample.keep() {
				if _, err := fmt.Fprintln(w, cidr.FormatAddr(v)); err != nil {
					return err
				}
			}
			if v == r.End {
				break
			}
		}
	}
	return nil
}
