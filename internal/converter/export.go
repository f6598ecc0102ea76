package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"ipranges/internal/domain"
	"ipranges/internal/support"
)

var ErrFileWrite = errors.New("output file unwritable")

// Serializer renders one zone conversion in a single output format.
type Serializer interface {
	Write(ctx context.Context, w io.Writer, zone domain.ZoneConversion) error
}

func serializerFor(format Format, opts Options) Serializer {
	switch format {
	case FormatCSV:
		return csvSerializer{}
	case FormatTXT:
		return &txtSerializer{
			layout:   opts.TXTLayout,
			sample:   newSampler(opts.SampleRate),
			sampled:  opts.SampleAllFormats,
			warnOver: opts.EnumerateWarnOver,
		}
	default:
		return jsonSerializer{}
	}
}

// writeOutputs exports one zone in every selected format. A failing format
// does not stop the remaining ones; the returned count covers the files
// that were written.
func writeOutputs(ctx context.Context, opts Options, source string, zone domain.ZoneConversion) (int, error) {
	var errs []error
	written := 0
	for _, format := range opts.Formats {
		path := outputPath(opts, source, format)
		if err := writeOutput(ctx, path, serializerFor(format, opts), zone); err != nil {
			log.Error("Export failed", "file", path, "error", err)
			errs = append(errs, err)
			continue
		}
		written++
	}
	return written, errors.Join(errs...)
}

func writeOutput(ctx context.Context, path string, s Serializer, zone domain.ZoneConversion) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w: %w", path, err, ErrFileWrite)
	}

	if err := s.Write(ctx, file, zone); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w: %w", path, err, ErrFileWrite)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w: %w", path, err, ErrFileWrite)
	}
	return nil
}

func outputPath(opts Options, source string, format Format) string {
	if opts.OutputFile != "" {
		return opts.OutputFile
	}
	name := support.OutputStem(source) + "_ranges." + string(format)
	return filepath.Join(opts.OutputDir, name)
}
