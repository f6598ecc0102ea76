package converter

import (
	"context"
	"encoding/json"
	"io"

	"ipranges/internal/domain"
)

type jsonSerializer struct{}

func (jsonSerializer) Write(_ context.Context, w io.Writer, zone domain.ZoneConversion) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(zone)
}
