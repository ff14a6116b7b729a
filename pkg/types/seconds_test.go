package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeconds_Humanized_Boundaries(t *testing.T) {
	cases := []struct {
		in   Seconds
		want string
	}{
		{Seconds(0), "0 ns"},
		{Seconds(9.99e-7), "999 ns"},      // just below 1 µs
		{Seconds(1e-6), "1.000 µs"},       // exactly 1 µs
		{Seconds(9.999e-4), "999.900 µs"}, // just below 1 ms
		{Seconds(1e-3), "1.000 ms"},       // exactly 1 ms
		{Seconds(0.999), "999.000 ms"},    // just below 1 s
		{Seconds(1), "1.000 s"},           // exactly 1 s
		{Seconds(59.999), "59.999 s"},     // just below 1 min
		{Seconds(60), "1.00 min"},         // exactly 1 min
		{Seconds(3599.9), "60.00 min"},    // just below 1 h, rounds up
		{Seconds(3600), "1.00 h"},         // exactly 1 h
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case_%d_%g", i, float64(tc.in)), func(t *testing.T) {
			got := tc.in.Humanized()
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSeconds_Humanized_NonRound(t *testing.T) {
	// 90 s = 1.50 min
	assert.Equal(t, "1.50 min", Seconds(90).Humanized())

	// 5400 s = 1.50 h
	assert.Equal(t, "1.50 h", Seconds(5400).Humanized())

	// 0.2442 s = 244.200 ms
	assert.Equal(t, "244.200 ms", Seconds(0.2442).Humanized())

	// measured wall times keep millisecond precision
	assert.Equal(t, "2.442 s", Seconds(2.442).Humanized())
	assert.Equal(t, "30.738 s", Seconds(30.738).Humanized())
}

func TestSeconds_UnitAccessors(t *testing.T) {
	// exact boundaries
	assert.InDelta(t, 1000.0, Seconds(1).Ms(), 1e-12)
	assert.InDelta(t, 1e6, Seconds(1).Us(), 1e-9)
	assert.InDelta(t, 1.0, Seconds(60).Minutes(), 1e-12)

	// non-integers
	s := Seconds(0.0015)
	assert.InDelta(t, 1.5, s.Ms(), 1e-12)
	assert.InDelta(t, 1500.0, s.Us(), 1e-9)

	// large value
	s = Seconds(7200)
	assert.InDelta(t, 120.0, s.Minutes(), 1e-12)
}

func TestSeconds_Humanized_Negative(t *testing.T) {
	assert.Equal(t, "-2 s", Seconds(-2).Humanized())
	assert.Equal(t, "-0.5 s", Seconds(-0.5).Humanized())
}
