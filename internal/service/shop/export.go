package shop

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/yuv8811/csv-filter-mongoDB-sub000/internal/lifecycle"
)

// exportHeader is the first row of every export file.
var exportHeader = []string{
	"Shop Domain",
	"Shop Name",
	"Country",
	"Email",
	"Current Status",
	"First Event",
	"Last Event",
	"Total Spent",
	"Active Months",
}

// ExportCSV writes the filtered, sorted dashboard view as delimited text:
// a header row plus one row per shop. encoding/csv handles the quoting
// (embedded quotes doubled). Total spent is fixed to two decimal places.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, f lifecycle.Filter, spec lifecycle.SortSpec, now time.Time) error {
	summaries, err := s.List(ctx, f, spec, now)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, sum := range summaries {
		row := []string{
			sum.Domain,
			sum.Name,
			sum.Country,
			sum.Email,
			sum.CurrentEvent,
			sum.FirstEventDate,
			sum.LastEventDate,
			fmt.Sprintf("%.2f", sum.TotalSpent),
			strconv.Itoa(sum.ActiveMonths),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
