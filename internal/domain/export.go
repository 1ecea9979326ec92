package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/series"
)

// IndexLayout formats UTC index values in exported CSV. Values carrying any
// other zone are written as RFC 3339 so the offset survives re-ingestion.
const IndexLayout = "2006-01-02 15:04:05.999999999"

// WriteCSV writes t with a header row. The time index, when present, is the
// first column. Floats are written at full precision and missing values as
// empty cells, so the output ingests back to the same table.
func WriteCSV(w io.Writer, t Table) error {
	names := t.Frame.Names()
	cols := make([][]string, len(names))
	for j, name := range names {
		cols[j] = formatColumn(t.Frame.Col(name))
	}

	header := make([]string, 0, len(names)+1)
	if t.HasTimeIndex() {
		header = append(header, t.IndexName)
	}
	header = append(header, names...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for i := range t.Len() {
		rec := make([]string, 0, len(header))
		if t.HasTimeIndex() {
			rec = append(rec, formatIndex(t.Index[i]))
		}
		for j := range cols {
			rec = append(rec, cols[j][i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func formatColumn(col series.Series) []string {
	if col.Type() != series.Float {
		return col.Records()
	}
	vals := col.Float()
	out := make([]string, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			out[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return out
}

func formatIndex(ts time.Time) string {
	if ts.Location() == time.UTC {
		return ts.Format(IndexLayout)
	}
	return ts.Format(time.RFC3339Nano)
}

// ExportFileName returns "<prefix>_YYYYMMDD_HHMM.csv" stamped with the
// package clock.
func ExportFileName(prefix string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, clock.Now().Format("20060102_1504"))
}

// Readings flattens a result into one reading per row. Missing values are
// omitted from Values.
func Readings(res Result) []Reading {
	t := res.Table
	cols := make(map[string][]float64, len(res.CanonicalColumns))
	for _, c := range res.CanonicalColumns {
		if vals, err := t.Values(c); err == nil {
			cols[c] = vals
		}
	}

	out := make([]Reading, t.Len())
	for i := range out {
		r := Reading{
			UploadID: res.UploadID,
			Ordinal:  i,
			Values:   make(map[string]float64, len(cols)),
		}
		if t.HasTimeIndex() {
			ts := t.Index[i]
			r.Time = &ts
		}
		for c, vals := range cols {
			if v := vals[i]; !math.IsNaN(v) {
				r.Values[c] = v
			}
		}
		out[i] = r
	}
	return out
}
