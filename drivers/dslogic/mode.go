package dslogic

// ModeParams is the subset of acquisition configuration that feeds
// mode-word computation.
type ModeParams struct {
	Samplerate   uint64
	LimitSamples uint64
	Continuous   bool
	TriggerOn    bool
	ExternalClk  bool
	ClkRising    bool
}

// computeMode derives the mode word: HALF_MODE/QUAR_MODE engage when
// samplerate is exactly 2x/4x the device ceiling (oversampling by
// discarding half/three-quarters of the samples on wider channel
// counts), RLE_MODE auto-enables once limit_samples exceeds
// rleThreshold(samplerate) and continuous is off, and the clock
// source/edge and triggering bits are carried straight from params.
func computeMode(p ModeParams) modeBits {
	var m modeBits
	switch {
	case p.Samplerate == 4*dsMaxLogicSamplerate:
		m |= modeQuar
	case p.Samplerate == 2*dsMaxLogicSamplerate:
		m |= modeHalf
	}
	if !p.Continuous && p.LimitSamples > rleThreshold(p.Samplerate) {
		m |= modeRLE
	}
	if p.ExternalClk {
		m |= modeClkType
	}
	if p.ClkRising {
		m |= modeClkEdge
	}
	if p.TriggerOn {
		m |= modeTriggerEnable
	}
	if p.Continuous {
		m |= modeStream
	}
	return m
}
