package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_RoundTrip(t *testing.T) {
	records, err := Reference().Records()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadCSV_MinimalColumns(t *testing.T) {
	in := strings.Join([]string{
		"Resolution,Threads,Time_seconds",
		"0.1,1,5.1",
		"0.1,4,1.35",
		"",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 0.1, records[0].Resolution)
	assert.Equal(t, 4, records[1].Threads)
	assert.Equal(t, 1.35, records[1].Time)
	assert.True(t, math.IsNaN(records[0].Speedup), "absent column should read as NaN")
	assert.True(t, math.IsNaN(records[0].Efficiency))

	// and aggregation fills the gap
	series, err := Aggregate(records)
	require.NoError(t, err)
	assert.InDelta(t, 5.1/1.35, series[0].Speedup[1], 1e-12)
}

func TestReadCSV_HeaderCaseAndSpacing(t *testing.T) {
	in := strings.Join([]string{
		"resolution, THREADS , Time_Seconds",
		"0.05, 8, 5.279",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.05, records[0].Resolution)
	assert.Equal(t, 8, records[0].Threads)
	assert.Equal(t, 5.279, records[0].Time)
}

func TestReadCSV_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty_input", "", ErrNoRecords},
		{"header_only", "Resolution,Threads,Time_seconds\n", ErrNoRecords},
		{"missing_time_column", "Resolution,Threads\n0.1,2\n", ErrHeader},
		{"missing_resolution_column", "Threads,Time_seconds\n2,1.0\n", ErrHeader},
		{"zero_threads", "Resolution,Threads,Time_seconds\n0.1,0,1.0\n", ErrRecord},
		{"negative_time", "Resolution,Threads,Time_seconds\n0.1,2,-1.0\n", ErrRecord},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.in))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadCSV_BadNumberReportsRow(t *testing.T) {
	in := "Resolution,Threads,Time_seconds\n0.1,two,1.0\n"
	_, err := ReadCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorContains(t, err, "row 2")
	assert.ErrorContains(t, err, "threads")
}

func TestWriteCSV_EmptyRatioCells(t *testing.T) {
	nan := math.NaN()
	records := []Record{{Resolution: 0.1, Threads: 2, Time: 2.6, Speedup: nan, Efficiency: nan}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Resolution,Threads,Time_seconds,Speedup_vs_1thread,Efficiency", lines[0])
	assert.Equal(t, "0.1,2,2.6,,", lines[1])

	back, err := ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(back[0].Speedup))
}
