package dslogic

import "github.com/wk2xx/scopecore/instrument"

// numTriggerStages is the hardware's fixed stage count ("16
// stages; stage 0 carries the active match set").
const numTriggerStages = 16

// dontCareLogic is the per-stage "logic" value for a stage not
// configured by any probe; such a stage also has every mask bit set
// (0xffff), so the default table is transparent for single-stage use.
const dontCareLogic = 2

// TriggerStage is one hardware comparator stage.
type TriggerStage struct {
	Mask0, Mask1 uint16
	Value0, Value1 uint16
	Edge          uint16
	Logic         uint16
}

// TriggerConfig is the full 16-stage programming plus the derived
// scalar fields the configuration frame and software trigger need.
type TriggerConfig struct {
	Stages  [numTriggerStages]TriggerStage
	TrigPos uint32
	Enabled bool
}

// matchKind mirrors the probe trigger-expression alphabet a probe can
// carry at stage 0: '0'/'1' level, 'r'/'f' edge, 'c' either-edge.
type matchKind int

const (
	matchNone matchKind = iota
	matchZero
	matchOne
	matchRising
	matchFalling
	matchEdge
)

func kindFor(ch byte) matchKind {
	switch ch {
	case '0':
		return matchZero
	case '1':
		return matchOne
	case 'r':
		return matchRising
	case 'f':
		return matchFalling
	case 'c':
		return matchEdge
	default:
		return matchNone
	}
}

// BuildTriggerConfig assembles stage 0 from each enabled probe's
// trigger-expression first character; stages 1..15 default to
// don't-care so a single configured stage behaves as the whole
// pipeline. trigPos is capture_ratio/100 * limit_samples.
func BuildTriggerConfig(probes []instrument.Probe, captureRatio int, limitSamples uint64) TriggerConfig {
	var tc TriggerConfig
	for i := range tc.Stages {
		tc.Stages[i].Mask0 = 0xffff
		tc.Stages[i].Mask1 = 0xffff
		tc.Stages[i].Logic = dontCareLogic
	}

	for _, p := range probes {
		if !p.Enabled || len(p.TriggerExpr) == 0 {
			continue
		}
		kind := kindFor(p.TriggerExpr.StageAt(0))
		if kind == matchNone {
			continue
		}
		tc.Enabled = true
		bit := uint16(p.Bit())
		st := &tc.Stages[0]
		switch kind {
		case matchZero:
			st.Mask0 &^= bit
			st.Mask1 &^= bit
		case matchOne:
			st.Mask0 &^= bit
			st.Mask1 &^= bit
			st.Value0 |= bit
			st.Value1 |= bit
		case matchRising:
			st.Mask0 &^= bit
			st.Mask1 &^= bit
			st.Value0 |= bit
			st.Value1 |= bit
			st.Edge |= bit
		case matchFalling:
			st.Mask0 &^= bit
			st.Mask1 &^= bit
			st.Edge |= bit
		case matchEdge:
			st.Edge |= bit
		}
	}

	tc.TrigPos = uint32(uint64(captureRatio) * limitSamples / 100)
	return tc
}
