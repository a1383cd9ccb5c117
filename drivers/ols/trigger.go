package ols

import "github.com/wk2xx/scopecore/instrument"

const maxTriggerStages = 4

// TriggerProgramming is the mask/value/config word set for up to 4
// parallel trigger stages.
type TriggerProgramming struct {
	NumStages int
	Mask      [maxTriggerStages]uint32
	Value     [maxTriggerStages]uint32
	Config    [maxTriggerStages]uint32
}

// finalStageFlag marks a stage as the last one to evaluate before the
// device starts post-trigger capture.
const finalStageFlag = 0x08

// BuildTriggerProgramming walks each enabled probe's trigger
// expression and assembles the stage mask/value/config words.
// An expression character other than '0' or '1' at a stage still
// claims that stage (so num_stages advances) but contributes no mask
// bit, matching edge/change triggers being resolved in hardware by
// bits this core doesn't model beyond stage occupancy.
func BuildTriggerProgramming(probes []instrument.Probe) TriggerProgramming {
	var tp TriggerProgramming
	for _, p := range probes {
		if !p.Enabled {
			continue
		}
		for s := 0; s < len(p.TriggerExpr) && s < maxTriggerStages; s++ {
			ch := p.TriggerExpr[s]
			switch ch {
			case '0', '1':
				tp.Mask[s] |= uint32(p.Bit())
				if ch == '1' {
					tp.Value[s] |= uint32(p.Bit())
				}
			case 'r', 'f', 'c':
				// Edge/change stages still occupy a slot; no level
				// mask/value bit is set for them.
			default:
				continue
			}
			if s+1 > tp.NumStages {
				tp.NumStages = s + 1
			}
		}
	}
	if tp.NumStages > 0 {
		tp.Config[tp.NumStages-1] |= finalStageFlag
	}
	return tp
}

// Commands renders the trigger programming as the long commands the
// device expects, mask/value/config words big-endian, reversed for
// the wire.
func (tp TriggerProgramming) Commands() [][]byte {
	if tp.NumStages == 0 {
		return nil
	}
	var cmds [][]byte
	for s := 0; s < tp.NumStages; s++ {
		cmds = append(cmds,
			longCommand(triggerMaskCmd[s], reversedWord(tp.Mask[s])),
			longCommand(triggerValueCmd[s], reversedWord(tp.Value[s])),
			longCommand(triggerConfigCmd[s], reversedWord(tp.Config[s])),
		)
	}
	return cmds
}
