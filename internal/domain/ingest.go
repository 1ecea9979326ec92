package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Ingest turns one upload into a finalized table. It holds no state between
// calls.
func Ingest(up Upload) (Result, error) {
	raw, err := ParseCSV(up)
	if err != nil {
		return Result{}, err
	}
	if len(raw.Rows) == 0 {
		return Result{}, ErrEmptyFile
	}

	promo, err := PromoteTimeColumn(raw)
	if err != nil {
		return Result{}, err
	}

	numeric := ClassifyNumericColumns(promo.Table)
	if len(numeric) == 0 {
		return Result{}, ErrNoNumericColumns
	}

	ren := Rename(numeric, DefaultKeywords)

	frame, err := buildFrame(promo.Table, numeric, ren)
	if err != nil {
		return Result{}, err
	}

	return Result{
		UploadID: UploadID(up.Data),
		Table: Table{
			IndexName: promo.Column,
			Index:     promo.Index,
			Frame:     frame,
		},
		CanonicalColumns: ren.Canonical,
		TimeColumn:       promo.Column,
		DroppedRows:      promo.Dropped,
		FallbackApplied:  ren.Fallback,
		IngestedAt:       clock.Now(),
	}, nil
}

// UploadID derives a short deterministic ID from the upload bytes.
func UploadID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// buildFrame loads t into a gota frame with numeric columns typed as floats
// and renamed per ren. An unrenamed column whose name equals an assigned
// label is left out so that every canonical column is unambiguous.
func buildFrame(t RawTable, numeric []string, ren Renaming) (dataframe.DataFrame, error) {
	isNumeric := make(map[string]bool, len(numeric))
	for _, n := range numeric {
		isNumeric[n] = true
	}
	assigned := make(map[string]bool, len(ren.Canonical))
	for _, c := range ren.Canonical {
		assigned[c] = true
	}

	var (
		cols  []int
		names []string
	)
	types := make(map[string]series.Type, len(t.Headers))
	for i, h := range t.Headers {
		name := h
		if label, ok := ren.Mapping[h]; ok {
			name = string(label)
		} else if assigned[h] {
			continue
		}
		cols = append(cols, i)
		names = append(names, name)
		if isNumeric[h] {
			types[name] = series.Float
		} else {
			types[name] = series.String
		}
	}

	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, names)
	for _, row := range t.Rows {
		rec := make([]string, len(cols))
		for j, c := range cols {
			v := row[c]
			if types[names[j]] == series.Float {
				v = strings.TrimSpace(v)
				if isMissing(v) {
					v = "NaN"
				}
			}
			rec[j] = v
		}
		records = append(records, rec)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
		dataframe.NaNValues([]string{"NaN"}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: build table: %w", ErrIngestionFailure, df.Err)
	}
	return df, nil
}
