package ols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestProgramSamplerateBelowClock(t *testing.T) {
	tests := []struct {
		name      string
		clock     uint64
		requested uint64
		wantDiv   uint32
		wantRate  uint64
	}{
		{"exact division", 100_000_000, 1_000_000, 99, 1_000_000},
		{"rounds down", 100_000_000, 3_000_000, 32, 100_000_000 / 33},
		{"equal to clock", 100_000_000, 100_000_000, 0, 100_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProgramSamplerate(tt.clock, tt.requested)
			assert.False(t, p.Demux)
			assert.Equal(t, tt.wantDiv, p.Divider)
			assert.Equal(t, tt.wantRate, p.Effective)
		})
	}
}

func TestProgramSamplerateAboveClockEnablesDemux(t *testing.T) {
	p := ProgramSamplerate(100_000_000, 150_000_000)
	assert.True(t, p.Demux)
	assert.LessOrEqual(t, p.Effective, uint64(150_000_000))
}

// TestSamplerateDividerRoundTrip is the round-trip property:
// effective(r) = C / floor(C/r) for every r <= C.
func TestSamplerateDividerRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := rapid.Uint64Range(1000, 200_000_000).Draw(t, "clock")
		requested := rapid.Uint64Range(1, clock).Draw(t, "requested")

		p := ProgramSamplerate(clock, requested)
		want := clock / (clock / requested)
		assert.Equal(t, want, p.Effective)
		assert.False(t, p.Demux)
	})
}
