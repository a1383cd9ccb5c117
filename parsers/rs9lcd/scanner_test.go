package rs9lcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerDecodesFrameAfterLeadingGarbage(t *testing.T) {
	good := []byte{0x00, 0x02, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xc0}

	var s Scanner
	s.Feed([]byte{0x9, 0x9, 0x9}) // garbage that never validates
	s.Feed(good)

	pkt, ok := s.Next()
	require.True(t, ok)
	assert.InDelta(t, 0.0, pkt.Samples[0], 1e-9)

	_, ok = s.Next()
	assert.False(t, ok)
}

func TestScannerParsesBackToBackFrames(t *testing.T) {
	good := []byte{0x00, 0x02, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xc0}

	var s Scanner
	s.Feed(good)
	s.Feed(good)

	_, ok := s.Next()
	require.True(t, ok)
	_, ok = s.Next()
	require.True(t, ok)
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestScannerWaitsForFullFrame(t *testing.T) {
	var s Scanner
	s.Feed([]byte{0x00, 0x02, 0x00})
	_, ok := s.Next()
	assert.False(t, ok)
}
