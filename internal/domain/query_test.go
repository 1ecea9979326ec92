package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsCSV = `Time,pressure,wind_speed,station
2025-11-11 12:00:00,1013.0,3.0,north
2025-11-11 12:01:00,1014.0,4.0,north
2025-11-11 12:02:00,1015.0,,north
2025-11-11 12:03:00,1016.0,5.0,north
`

func mustIngest(t *testing.T, s string) Result {
	t.Helper()
	res, err := Ingest(csvUpload(s))
	require.NoError(t, err)
	return res
}

func TestDescribe(t *testing.T) {
	res := mustIngest(t, statsCSV)

	t.Run("pressure", func(t *testing.T) {
		s, err := Describe(res.Table, "Pressure")
		require.NoError(t, err)
		assert.Equal(t, 4, s.Count)
		assert.InDelta(t, 1014.5, s.Mean, 1e-9)
		assert.InDelta(t, 1.2909944487, s.Std, 1e-9) // sample std, N-1
		assert.Equal(t, 1013.0, s.Min)
		assert.InDelta(t, 1013.75, s.Q25, 1e-9)
		assert.InDelta(t, 1014.5, s.Median, 1e-9)
		assert.InDelta(t, 1015.25, s.Q75, 1e-9)
		assert.Equal(t, 1016.0, s.Max)
	})

	t.Run("quartiles of unsorted odd count", func(t *testing.T) {
		odd := mustIngest(t, "pressure\n5\n1\n3\n")
		s, err := Describe(odd.Table, "Pressure")
		require.NoError(t, err)
		assert.Equal(t, 2.0, s.Q25)
		assert.Equal(t, 3.0, s.Median)
		assert.Equal(t, 4.0, s.Q75)
	})

	t.Run("missing values skipped", func(t *testing.T) {
		s, err := Describe(res.Table, "WindSpeed")
		require.NoError(t, err)
		assert.Equal(t, 3, s.Count)
		assert.InDelta(t, 4.0, s.Mean, 1e-9)
		assert.InDelta(t, 1.0, s.Std, 1e-9)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := Describe(res.Table, "Humidity")
		require.ErrorIs(t, err, ErrUnknownColumn)
	})

	t.Run("text column", func(t *testing.T) {
		_, err := Describe(res.Table, "station")
		require.Error(t, err)
	})

	t.Run("single value has NaN std", func(t *testing.T) {
		one := mustIngest(t, "Time,pressure\n2025-11-11 12:00:00,1013\n")
		s, err := Describe(one.Table, "Pressure")
		require.NoError(t, err)
		assert.Equal(t, 1, s.Count)
		assert.True(t, math.IsNaN(s.Std))
		assert.Equal(t, 1013.0, s.Median)
	})
}

func TestDescribeAll(t *testing.T) {
	res := mustIngest(t, statsCSV)
	stats, err := DescribeAll(res.Table, res.CanonicalColumns)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Pressure", stats[0].Column)
	assert.Equal(t, "WindSpeed", stats[1].Column)
}

func TestFilterRange(t *testing.T) {
	res := mustIngest(t, statsCSV)

	t.Run("min to max is identity", func(t *testing.T) {
		s, err := Describe(res.Table, "Pressure")
		require.NoError(t, err)

		out, err := FilterRange(res.Table, "Pressure", s.Min, s.Max)
		require.NoError(t, err)
		assert.Equal(t, res.Table.Len(), out.Len())
		assert.Equal(t, res.Table.Index, out.Index)
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		out, err := FilterRange(res.Table, "Pressure", 1014, 1015)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
		vals, err := out.Values("Pressure")
		require.NoError(t, err)
		assert.Equal(t, []float64{1014, 1015}, vals)
		assert.Equal(t, res.Table.Index[1:3], out.Index)
	})

	t.Run("absent point value matches nothing", func(t *testing.T) {
		out, err := FilterRange(res.Table, "Pressure", 1013.5, 1013.5)
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
		assert.Empty(t, out.Index)
	})

	t.Run("missing values never match", func(t *testing.T) {
		out, err := FilterRange(res.Table, "WindSpeed", math.Inf(-1), math.Inf(1))
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
	})

	t.Run("other columns follow", func(t *testing.T) {
		out, err := FilterRange(res.Table, "WindSpeed", 5, 5)
		require.NoError(t, err)
		vals, err := out.Values("Pressure")
		require.NoError(t, err)
		assert.Equal(t, []float64{1016}, vals)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := FilterRange(res.Table, "Humidity", 0, 1)
		require.ErrorIs(t, err, ErrUnknownColumn)
	})

	t.Run("without time index", func(t *testing.T) {
		plain := mustIngest(t, "pressure\n1\n2\n3\n")
		out, err := FilterRange(plain.Table, "Pressure", 2, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
		assert.Nil(t, out.Index)
	})
}
