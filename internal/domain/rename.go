package domain

import (
	"slices"
	"strings"
)

// CanonicalLabel is the normalized name of a sensor variable.
type CanonicalLabel string

const (
	Pressure    CanonicalLabel = "Pressure"
	WindSpeed   CanonicalLabel = "WindSpeed"
	SensorValue CanonicalLabel = "SensorValue"
)

var canonicalLabels = []CanonicalLabel{Pressure, WindSpeed, SensorValue}

// KeywordLabel maps a lowercase header substring to a label.
type KeywordLabel struct {
	Keyword string
	Label   CanonicalLabel
}

// DefaultKeywords is evaluated in order; the first keyword found in a header
// decides its label.
var DefaultKeywords = []KeywordLabel{
	{"presion", Pressure},
	{"pressure", Pressure},
	{"presión", Pressure},
	{"viento", WindSpeed},
	{"velocidad", WindSpeed},
	{"wind", WindSpeed},
	{"analogico", SensorValue},
}

// Unit returns the display unit for a label, or "" when it has none.
func Unit(label string) string {
	switch CanonicalLabel(label) {
	case Pressure:
		return "hPa"
	case WindSpeed:
		return "m/s"
	default:
		return ""
	}
}

// Classify returns the label for header using DefaultKeywords.
func Classify(header string) (CanonicalLabel, bool) {
	return classifyWith(header, DefaultKeywords)
}

func classifyWith(header string, keywords []KeywordLabel) (CanonicalLabel, bool) {
	if slices.Contains(canonicalLabels, CanonicalLabel(header)) {
		return CanonicalLabel(header), true
	}
	lower := strings.ToLower(header)
	for _, kl := range keywords {
		if strings.Contains(lower, kl.Keyword) {
			return kl.Label, true
		}
	}
	return "", false
}

// Renaming is the outcome of labeling numeric columns.
type Renaming struct {
	// Mapping goes from original column name to label.
	Mapping map[string]CanonicalLabel
	// Canonical lists labels in first-assignment order.
	Canonical []string
	// Fallback is true when no keyword matched and positional labels were used.
	Fallback bool
}

// Rename labels numeric columns using keywords. A label is given to at most
// one column; later columns matching an already-claimed label stay unrenamed.
// Only when nothing matched are the first two numeric columns labeled
// Pressure and WindSpeed by position.
func Rename(numeric []string, keywords []KeywordLabel) Renaming {
	r := Renaming{Mapping: make(map[string]CanonicalLabel)}

	claimed := make(map[CanonicalLabel]bool)
	for _, col := range numeric {
		label, ok := classifyWith(col, keywords)
		if !ok || claimed[label] {
			continue
		}
		claimed[label] = true
		r.Mapping[col] = label
		r.Canonical = append(r.Canonical, string(label))
	}

	if len(r.Canonical) > 0 || len(numeric) == 0 {
		return r
	}

	r.Fallback = true
	for i, label := range []CanonicalLabel{Pressure, WindSpeed} {
		if i >= len(numeric) {
			break
		}
		r.Mapping[numeric[i]] = label
		r.Canonical = append(r.Canonical, string(label))
	}
	return r
}
