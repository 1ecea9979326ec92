package domain

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/go-gota/gota/series"
)

// Stats are descriptive statistics over the non-NaN values of one column.
// Std is the sample standard deviation and is NaN for a single value.
// Quartiles interpolate linearly between the closest ranks.
type Stats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Values returns a numeric column as floats, NaN for missing cells.
func (t Table) Values(column string) ([]float64, error) {
	if !slices.Contains(t.Frame.Names(), column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	col := t.Frame.Col(column)
	if col.Type() != series.Float {
		return nil, fmt.Errorf("column %q is not numeric", column)
	}
	return col.Float(), nil
}

// Describe computes count, mean, std, min, quartiles and max for column.
func Describe(t Table, column string) (Stats, error) {
	vals, err := t.Values(column)
	if err != nil {
		return Stats{}, err
	}

	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		nan := math.NaN()
		return Stats{Column: column, Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}, nil
	}

	s := series.Floats(present)
	slices.Sort(present)
	return Stats{
		Column: column,
		Count:  len(present),
		Mean:   s.Mean(),
		Std:    s.StdDev(),
		Min:    s.Min(),
		Q25:    quantile(present, 0.25),
		Median: quantile(present, 0.5),
		Q75:    quantile(present, 0.75),
		Max:    s.Max(),
	}, nil
}

// quantile reads the p-quantile of sorted at rank p*(n-1), interpolating
// between neighbours.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// DescribeAll runs Describe over columns in order.
func DescribeAll(t Table, columns []string) ([]Stats, error) {
	out := make([]Stats, 0, len(columns))
	for _, c := range columns {
		s, err := Describe(t, c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// FilterRange keeps the rows where low <= column <= high. Rows with a missing
// value never match. The time index follows the kept rows.
func FilterRange(t Table, column string, low, high float64) (Table, error) {
	vals, err := t.Values(column)
	if err != nil {
		return Table{}, err
	}

	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		if v >= low && v <= high {
			keep = append(keep, i)
		}
	}

	var index []time.Time
	if t.HasTimeIndex() {
		index = make([]time.Time, len(keep))
		for i, k := range keep {
			index[i] = t.Index[k]
		}
	}

	frame := t.Frame.Subset(keep)
	if frame.Err != nil {
		return Table{}, fmt.Errorf("filter %q: %w", column, frame.Err)
	}
	return Table{IndexName: t.IndexName, Index: index, Frame: frame}, nil
}
