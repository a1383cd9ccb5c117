package dslogic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeModeHalfAndQuar(t *testing.T) {
	m := computeMode(ModeParams{Samplerate: 2 * dsMaxLogicSamplerate})
	assert.NotZero(t, m&modeHalf)
	assert.Zero(t, m&modeQuar)

	m = computeMode(ModeParams{Samplerate: 4 * dsMaxLogicSamplerate})
	assert.NotZero(t, m&modeQuar)
	assert.Zero(t, m&modeHalf)
}

func TestComputeModeRLEAutoEnable(t *testing.T) {
	// limit_samples = DS_MAX_LOGIC_DEPTH+1, samplerate =
	// DS_MAX_LOGIC_SAMPLERATE, continuous = false -> RLE_MODE set.
	m := computeMode(ModeParams{
		Samplerate:   dsMaxLogicSamplerate,
		LimitSamples: dsMaxLogicDepth + 1,
		Continuous:   false,
	})
	assert.NotZero(t, m&modeRLE)
}

func TestComputeModeRLENotSetWhenContinuous(t *testing.T) {
	m := computeMode(ModeParams{
		Samplerate:   dsMaxLogicSamplerate,
		LimitSamples: dsMaxLogicDepth + 1,
		Continuous:   true,
	})
	assert.Zero(t, m&modeRLE)
}

func TestComputeModeRLENotSetUnderThreshold(t *testing.T) {
	m := computeMode(ModeParams{
		Samplerate:   dsMaxLogicSamplerate,
		LimitSamples: dsMaxLogicDepth,
	})
	assert.Zero(t, m&modeRLE)
}

func TestComputeModeStreamGatedOnContinuous(t *testing.T) {
	m := computeMode(ModeParams{Samplerate: dsMaxLogicSamplerate, Continuous: true})
	assert.NotZero(t, m&modeStream)

	m = computeMode(ModeParams{Samplerate: dsMaxLogicSamplerate, Continuous: false})
	assert.Zero(t, m&modeStream)
}
