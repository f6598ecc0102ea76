package converter

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"ipranges/internal/domain"
)

var csvHeader = []string{"CIDR", "Start_IP", "End_IP", "Total_IPs"}

type csvSerializer struct{}

func (csvSerializer) Write(ctx context.Context, w io.Writer, zone domain.ZoneConversion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range zone.Ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := []string{r.CIDR, r.StartIP, r.EndIP, strconv.FormatUint(r.TotalIPs, 10)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
