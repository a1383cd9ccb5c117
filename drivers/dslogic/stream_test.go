package dslogic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wk2xx/scopecore/instrument"
)

func TestRoundUpTo512(t *testing.T) {
	assert.Equal(t, uint64(512), roundUpTo512(1))
	assert.Equal(t, uint64(512), roundUpTo512(512))
	assert.Equal(t, uint64(1024), roundUpTo512(513))
}

func TestTransferSizeAtCeiling(t *testing.T) {
	// bytes/ms at the 100MHz ceiling = 100_000_000/1000*2 = 200000;
	// 10ms worth = 2,000,000 bytes, rounded up to the next multiple of
	// 512 = 3907*512 = 2,000,384.
	size := transferSize(dsMaxLogicSamplerate)
	assert.Equal(t, uint64(2_000_384), size)
}

func TestSampleWidthSwitchesAtEightProbes(t *testing.T) {
	assert.Equal(t, 1, sampleWidth(8))
	assert.Equal(t, 2, sampleWidth(9))
}

func TestSoftwareTriggerFiresOnSingleStageMatch(t *testing.T) {
	probes := instrument.NewLogicProbes(4)
	probes[2].TriggerExpr = "1"
	cfg := BuildTriggerConfig(probes, 0, 0)
	st := newSoftwareTrigger(cfg)

	assert.False(t, st.Fired())
	assert.False(t, st.Feed(0x00)) // bit 2 clear, no match
	assert.True(t, st.Feed(0x04))  // bit 2 set, matches and cascades to fired
	assert.True(t, st.Fired())
}

func TestSoftwareTriggerWithNoConfiguredProbesFiresImmediately(t *testing.T) {
	probes := instrument.NewLogicProbes(4)
	cfg := BuildTriggerConfig(probes, 0, 0)
	st := newSoftwareTrigger(cfg)
	assert.True(t, st.Fired())
}

func TestStreamConsumerWideModeKeepsBothBytes(t *testing.T) {
	// 16 probes -> width 2; three samples, high bytes nonzero so a
	// low-byte-only consumer would silently drop probes 8-15.
	c := newStreamConsumer(TriggerConfig{}, 2, 3)
	c.Feed([]byte{0x01, 0x80, 0x02, 0x81, 0x03, 0x82})

	logic, triggerAt := c.Result()
	assert.Equal(t, -1, triggerAt)
	assert.Equal(t, []byte{0x01, 0x80, 0x02, 0x81, 0x03, 0x82}, logic)
	assert.True(t, c.Done())
}

func TestStreamConsumerWideModeTriggerAtIsSampleIndex(t *testing.T) {
	probes := instrument.NewLogicProbes(9)
	probes[8].TriggerExpr = "1" // bit 8 -> high byte bit 0
	cfg := BuildTriggerConfig(probes, 0, 0)

	c := newStreamConsumer(cfg, 2, 4)
	c.Feed([]byte{
		0x00, 0x00, // sample 0: bit 8 clear, no match
		0x00, 0x01, // sample 1: bit 8 set, matches
		0x00, 0x00,
		0x00, 0x00,
	})

	logic, triggerAt := c.Result()
	assert.Equal(t, 1, triggerAt)
	assert.Equal(t, 8, len(logic)) // 4 samples * 2 bytes, full width kept
}
