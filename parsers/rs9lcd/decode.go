package rs9lcd

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/wk2xx/scopecore/datafeed"
)

// Decode validates and decodes a raw frame into an Analog packet. A
// non-nil error means the frame was discarded (debug-logged by the
// caller, not here, since the caller knows the surrounding stream
// position); no packet should be emitted and scanning continues.
func Decode(f Frame) (datafeed.Analog, error) {
	if err := f.Validate(); err != nil {
		return datafeed.Analog{}, err
	}

	info := modeTable[f.mode()]
	flags := info.flags
	unit := info.unit

	if f.info()&infoHold != 0 {
		flags |= datafeed.FlagHold
	}
	if f.digit1()&dpBit != 0 {
		flags |= datafeed.FlagMax
	}
	if f.ind2()&ind2Min != 0 {
		flags |= datafeed.FlagMin
	}
	if f.info()&infoAuto != 0 {
		flags |= datafeed.FlagAutorange
	}

	var value float64
	switch f.mode() {
	case ModeContinuity:
		value = continuityValue(f)
	case ModeLogic:
		value = logicValue(f)
	case ModeTemp:
		value, unit = temperatureValue(f)
	default:
		value = numericValue(f)
	}

	return datafeed.Analog{MQ: info.mq, Unit: unit, Flags: flags, Samples: []float64{value}}, nil
}

// multiplier returns the scale factor implied by the multiplier
// indicator bits (at most one set, enforced by Validate).
func multiplier(f Frame) float64 {
	switch {
	case f.ind1()&ind1Kilo != 0:
		return 1e3
	case f.ind1()&ind1Mega != 0:
		return 1e6
	case f.ind1()&ind1Mili != 0:
		return 1e-3
	case f.ind2()&ind2Micro != 0:
		return 1e-6
	case f.ind2()&ind2Nano != 0:
		return 1e-9
	default:
		return 1
	}
}

// numericValue reassembles the left-to-right 4-digit reading
// (digit4 digit3 digit2 digit1), scales it by whichever digit's DP
// bit is set (1 at digit2, 2 at digit3, 3 at digit4 — digit1 never
// contributes a decimal point), and applies the multiplier and sign.
func numericValue(f Frame) float64 {
	d4, dp4, ok4 := decodeDigit(f.digit4())
	d3, dp3, ok3 := decodeDigit(f.digit3())
	d2, dp2, ok2 := decodeDigit(f.digit2())
	d1, _, ok1 := decodeDigit(f.digit1())

	if !ok4 || !ok3 || !ok2 || !ok1 {
		log.Debug("rs9lcd: non-digit 7-segment pattern, decoding as NaN")
		return math.NaN()
	}

	raw := d4*1000 + d3*100 + d2*10 + d1

	k := 0
	switch {
	case dp2:
		k = 1
	case dp3:
		k = 2
	case dp4:
		k = 3
	}

	value := float64(raw) / math.Pow(10, float64(k))
	value *= multiplier(f)
	if f.info()&infoNeg != 0 {
		value = -value
	}
	return value
}

// overloadDigit2 is the segment pattern digit2 shows for an open
// circuit; any other pattern indicates a measured short.
const overloadDigit2 byte = 0x00

// continuityValue reports 1 for a detected short and 0 for an open
// circuit, read from digit2 alone rather than the full 4-digit value.
func continuityValue(f Frame) float64 {
	if f.digit2()&^dpBit == overloadDigit2 {
		return 0
	}
	return 1
}

// Non-digit 7-segment patterns digit2 shows in LOGIC mode for a
// latched high/low boolean reading.
const (
	logicHighPattern byte = 0x76
	logicLowPattern  byte = 0x38
)

// logicValue reports a boolean high/low reading when digit2 shows the
// H/L glyph, falling back to the ordinary 4-digit voltage decode
// otherwise.
func logicValue(f Frame) float64 {
	switch f.digit2() &^ dpBit {
	case logicHighPattern:
		return 1
	case logicLowPattern &^ dpBit:
		return 0
	default:
		return numericValue(f)
	}
}

// Non-digit 7-segment patterns digit4 shows in TEMP mode to select
// the displayed unit.
const (
	tempUnitCPattern byte = 0x64
	tempUnitFPattern byte = 0x71
)

// temperatureValue re-decodes the reading skipping digit4 (used only
// to select Celsius/Fahrenheit, never part of the magnitude) and
// reassembling the 3-digit value from digit3, digit2, digit1.
func temperatureValue(f Frame) (float64, datafeed.Unit) {
	unit := datafeed.UnitCelsius
	if f.digit4()&^dpBit == tempUnitFPattern {
		unit = datafeed.UnitFahrenheit
	}

	d3, dp3, ok3 := decodeDigit(f.digit3())
	d2, dp2, ok2 := decodeDigit(f.digit2())
	d1, _, ok1 := decodeDigit(f.digit1())
	if !ok3 || !ok2 || !ok1 {
		log.Debug("rs9lcd: non-digit 7-segment pattern in temperature reading, decoding as NaN")
		return math.NaN(), unit
	}

	raw := d3*100 + d2*10 + d1
	k := 0
	switch {
	case dp2:
		k = 1
	case dp3:
		k = 2
	}

	value := float64(raw) / math.Pow(10, float64(k))
	if f.info()&infoNeg != 0 {
		value = -value
	}
	return value, unit
}
