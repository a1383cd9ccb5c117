package rs9lcd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk2xx/scopecore/datafeed"
)

func TestDecodeDCVolts(t *testing.T) {
	f := Frame{0x00, 0x02, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xc0}
	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, datafeed.MQVoltage, pkt.MQ)
	assert.Equal(t, datafeed.UnitVolt, pkt.Unit)
	assert.True(t, pkt.Flags.Has(datafeed.FlagDC))
	require.Len(t, pkt.Samples, 1)
	assert.InDelta(t, 0.0, pkt.Samples[0], 1e-9)
}

func TestDecodeRejectedFrameNeverReachesDecode(t *testing.T) {
	f := Frame{0x00, 0x30, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xee}
	_, err := Decode(f)
	assert.Error(t, err)
}

func TestDecodeNegativeScaledVoltage(t *testing.T) {
	// digit4=0 digit3=1 digit2=2(dp) digit1=3, info=NEG -> -12.3
	f := Frame{0x00, 0x80, 0x00, 0xd7, 0x50, 0x0b, 0x16, 0x01, 0x02}
	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.InDelta(t, -12.3, pkt.Samples[0], 1e-9)
}

func TestDecodeContinuityShort(t *testing.T) {
	f := Frame{ModeContinuity, 0x00, 0x00, 0xd7, 0xd7, 0x50, 0xd7, 0x00, 0x23}
	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, datafeed.MQContinuity, pkt.MQ)
	assert.Equal(t, 1.0, pkt.Samples[0])
}

func TestDecodeContinuityOpen(t *testing.T) {
	f := Frame{ModeContinuity, 0x00, 0x00, 0xd7, 0xd7, 0x00, 0xd7, 0x00, 0xd3}
	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pkt.Samples[0])
}

func TestDecodeLogicHigh(t *testing.T) {
	f := Frame{ModeLogic, 0x00, 0x00, 0xd7, 0xd7, 0x76, 0xd7, 0x00, 0x4b}
	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pkt.Samples[0])
}

func TestDecodeTemperatureFahrenheitSkipsDigit4(t *testing.T) {
	f := Frame{ModeTemp, 0x00, 0x00, 0x71, 0x50, 0x03, 0x16, 0x00, 0x2c}
	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, datafeed.MQTemperature, pkt.MQ)
	assert.Equal(t, datafeed.UnitFahrenheit, pkt.Unit)
	assert.InDelta(t, 123.0, pkt.Samples[0], 1e-9)
}

func TestDecodeUnknownDigitPatternIsNaN(t *testing.T) {
	f := Frame{0x00, 0x00, 0x00, 0xff, 0xd7, 0xd7, 0x00, 0x00, 0}
	// recompute checksum inline so the fixture stays self-contained
	var sum int
	for _, b := range f[:8] {
		sum += int(b)
	}
	f[8] = byte((sum + 57) % 256)

	pkt, err := Decode(f)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(pkt.Samples[0]))
}
