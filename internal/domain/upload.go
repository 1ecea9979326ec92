package domain

import (
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Upload is one file as received from the user. It is read once, fully, and
// never mutated.
type Upload struct {
	Data      []byte
	MediaType string
	Filename  string
}

// RawTable is the parsed CSV before any column is interpreted. Headers are
// normalized and unique; every row has len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Table is the finalized, time-indexed table handed to downstream queries.
// Index is nil when no time column was detected; rows are then addressed by
// ordinal position.
type Table struct {
	IndexName string
	Index     []time.Time
	Frame     dataframe.DataFrame
}

// Len returns the number of rows.
func (t Table) Len() int {
	return t.Frame.Nrow()
}

// HasTimeIndex reports whether rows are indexed by time.
func (t Table) HasTimeIndex() bool {
	return t.Index != nil
}

// Result is the output of a successful ingestion.
type Result struct {
	UploadID         string
	Table            Table
	CanonicalColumns []string
	TimeColumn       string
	DroppedRows      int
	FallbackApplied  bool
	IngestedAt       time.Time
}

// Reading is one row of a result, keyed by canonical label.
type Reading struct {
	UploadID string             `json:"upload_id"`
	Ordinal  int                `json:"ordinal"`
	Time     *time.Time         `json:"time,omitempty"`
	Values   map[string]float64 `json:"values"`
}
