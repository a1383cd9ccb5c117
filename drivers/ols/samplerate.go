package ols

// Programming is the result of mapping a requested samplerate onto
// the device's fixed clock.
type Programming struct {
	Demux     bool
	Divider   uint32
	Effective uint64 // Hz
}

// ProgramSamplerate implements "Samplerate programming": for a
// requested rate r against a fixed clock C, decide whether DEMUX
// (2x oversampling via two interleaved ADC channels) is needed and
// what divider achieves the closest effective rate.
func ProgramSamplerate(clockHz uint64, requested uint64) Programming {
	if requested == 0 {
		return Programming{Divider: 0, Effective: clockHz}
	}
	if requested > clockHz {
		divider := uint32(ceilDiv(2*clockHz, requested)) - 1
		effective := 2 * clockHz / uint64(divider+1)
		return Programming{Demux: true, Divider: divider, Effective: effective}
	}
	divider := uint32(clockHz/requested) - 1
	effective := clockHz / uint64(divider+1)
	return Programming{Demux: false, Divider: divider, Effective: effective}
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
