package dslogic

import "github.com/wk2xx/scopecore/config"

// resolveBitstream picks the bitstream resource name for model,
// honoring per-model dual voltage-range variants ("DSLogic
// per-model voltage-range selection").
func resolveBitstream(model config.DSLogicModel, voltageRange string) (string, error) {
	return model.BitstreamFor(voltageRange)
}

// rleThreshold is the limit_samples ceiling above which RLE_MODE
// auto-enables for a given samplerate (continuous mode off):
// DS_MAX_LOGIC_DEPTH * ceil(samplerate/DS_MAX_LOGIC_SAMPLERATE).
func rleThreshold(samplerate uint64) uint64 {
	ratio := ceilDivU64(samplerate, dsMaxLogicSamplerate)
	if ratio == 0 {
		ratio = 1
	}
	return dsMaxLogicDepth * ratio
}

func ceilDivU64(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
