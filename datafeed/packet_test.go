package datafeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicNumSamples(t *testing.T) {
	tests := []struct {
		name     string
		logic    Logic
		expected int
	}{
		{"one-byte unit, eight samples", Logic{Unitsize: Unitsize1, Samples: make([]byte, 8)}, 8},
		{"four-byte unit, two samples", Logic{Unitsize: Unitsize4, Samples: make([]byte, 8)}, 2},
		{"misaligned payload", Logic{Unitsize: Unitsize4, Samples: make([]byte, 7)}, 0},
		{"zero unitsize", Logic{Unitsize: 0, Samples: make([]byte, 7)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.logic.NumSamples())
		})
	}
}

func TestUnitsizeValid(t *testing.T) {
	for _, u := range []Unitsize{Unitsize1, Unitsize2, Unitsize4, Unitsize8} {
		require.True(t, u.Valid())
	}
	assert.False(t, Unitsize(3).Valid())
	assert.False(t, Unitsize(0).Valid())
}

// TestPacketSealExhaustive documents the full variant set; a new
// packet type that forgets the packet() method fails to compile here.
func TestPacketSealExhaustive(t *testing.T) {
	variants := []Packet{
		Header{}, MetaLogic{}, MetaAnalog{}, Logic{}, Analog{}, Trigger{}, FrameBegin{}, FrameEnd{}, End{},
	}
	assert.Len(t, variants, 9)
}
