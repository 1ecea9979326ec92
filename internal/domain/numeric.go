package domain

import (
	"regexp"
	"strings"
)

// numericRe accepts plain decimal numbers: optional sign, digits with at most
// one decimal point, optional exponent.
var numericRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingMarkers are cells read as NaN rather than text.
var missingMarkers = []string{"", "NA", "NaN", "nan", "N/A", "n/a", "NULL", "null", "None"}

func isMissing(s string) bool {
	for _, m := range missingMarkers {
		if s == m {
			return true
		}
	}
	return false
}

// IsNumeric reports whether a single cell holds a number.
func IsNumeric(s string) bool {
	return numericRe.MatchString(strings.TrimSpace(s))
}

// ClassifyNumericColumns returns, in column order, the headers whose every
// non-missing cell is numeric. With zero rows every column qualifies.
func ClassifyNumericColumns(t RawTable) []string {
	var out []string
	for c, h := range t.Headers {
		if columnIsNumeric(t.Rows, c) {
			out = append(out, h)
		}
	}
	return out
}

func columnIsNumeric(rows [][]string, c int) bool {
	for _, row := range rows {
		v := strings.TrimSpace(row[c])
		if isMissing(v) {
			continue
		}
		if !numericRe.MatchString(v) {
			return false
		}
	}
	return true
}
