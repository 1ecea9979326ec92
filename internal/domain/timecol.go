package domain

import (
	"slices"
	"strings"
	"time"
)

var (
	// timeKeywords are matched as substrings of the lowercased header.
	timeKeywords = []string{"time", "timestamp", "fecha", "hora"}

	// reservedTimeNames are matched exactly.
	reservedTimeNames = []string{"Time", "time", "Timestamp"}

	// timeLayouts are tried in order. Inputs without a zone are read as UTC.
	timeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02 15:04",
		"2006/01/02",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"01/02/2006",
		"1/2/2006",
		"Jan 2, 2006 15:04:05",
		"Jan 2, 2006",
		"2 Jan 2006 15:04:05",
		"2 Jan 2006",
	}
)

// TimePromotion is the outcome of promoting a time column to the row index.
type TimePromotion struct {
	Table   RawTable
	Column  string
	Index   []time.Time
	Dropped int
}

// DetectTimeColumn returns the position of the time column in headers, if any.
func DetectTimeColumn(headers []string) (int, bool) {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range timeKeywords {
			if strings.Contains(lower, kw) {
				return i, true
			}
		}
		if slices.Contains(reservedTimeNames, h) {
			return i, true
		}
	}

	if len(headers) > 0 && slices.Contains(timeKeywords, strings.ToLower(headers[0])) {
		return 0, true
	}
	return -1, false
}

// ParseTimestamp parses s with the first matching layout. ok is false for
// values no layout accepts.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PromoteTimeColumn moves the detected time column into a row index. Rows
// whose time does not parse are removed from the table and counted in
// Dropped. With no time column, the table is returned unchanged and Index is
// nil.
func PromoteTimeColumn(t RawTable) (TimePromotion, error) {
	col, ok := DetectTimeColumn(t.Headers)
	if !ok {
		return TimePromotion{Table: t}, nil
	}

	index := make([]time.Time, 0, len(t.Rows))
	kept := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		ts, ok := ParseTimestamp(row[col])
		if !ok {
			continue
		}
		index = append(index, ts)
		kept = append(kept, row)
	}

	p := TimePromotion{
		Column:  t.Headers[col],
		Index:   index,
		Dropped: len(t.Rows) - len(kept),
	}
	if len(kept) == 0 {
		return p, ErrNoTimeRowsSurvived
	}

	p.Table = dropColumn(RawTable{Headers: t.Headers, Rows: kept}, col)
	return p, nil
}
