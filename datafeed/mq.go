// Package datafeed defines the typed packet stream that flows from a
// driver to its subscribers, along with the measurement-quantity
// vocabulary ("MQ") that Analog packets are tagged with.
package datafeed

// MQ identifies what physical quantity an Analog packet's samples
// represent.
type MQ int

const (
	MQVoltage MQ = iota
	MQCurrent
	MQResistance
	MQCapacitance
	MQTemperature
	MQFrequency
	MQDutyCycle
	MQContinuity
	MQPulseWidth
	MQConductance
	MQPower
	MQGain
	MQSoundPressureLevel
	MQGasConcentration
	MQRelativeHumidity
)

func (mq MQ) String() string {
	switch mq {
	case MQVoltage:
		return "voltage"
	case MQCurrent:
		return "current"
	case MQResistance:
		return "resistance"
	case MQCapacitance:
		return "capacitance"
	case MQTemperature:
		return "temperature"
	case MQFrequency:
		return "frequency"
	case MQDutyCycle:
		return "duty-cycle"
	case MQContinuity:
		return "continuity"
	case MQPulseWidth:
		return "pulse-width"
	case MQConductance:
		return "conductance"
	case MQPower:
		return "power"
	case MQGain:
		return "gain"
	case MQSoundPressureLevel:
		return "sound-pressure-level"
	case MQGasConcentration:
		return "gas-concentration"
	case MQRelativeHumidity:
		return "relative-humidity"
	default:
		return "unknown"
	}
}

// Unit identifies the SI or derived unit an Analog packet's samples
// are expressed in.
type Unit int

const (
	UnitVolt Unit = iota
	UnitAmpere
	UnitOhm
	UnitFarad
	UnitHertz
	UnitKelvin
	UnitCelsius
	UnitFahrenheit
	UnitPercent
	UnitSecond
	UnitSiemens
	UnitDBm
	UnitDBV
	UnitDBSPL
	UnitUnitless
	UnitRatio
)

func (u Unit) String() string {
	switch u {
	case UnitVolt:
		return "V"
	case UnitAmpere:
		return "A"
	case UnitOhm:
		return "Ω"
	case UnitFarad:
		return "F"
	case UnitHertz:
		return "Hz"
	case UnitKelvin:
		return "K"
	case UnitCelsius:
		return "°C"
	case UnitFahrenheit:
		return "°F"
	case UnitPercent:
		return "%"
	case UnitSecond:
		return "s"
	case UnitSiemens:
		return "S"
	case UnitDBm:
		return "dBm"
	case UnitDBV:
		return "dBV"
	case UnitDBSPL:
		return "dB-SPL"
	case UnitRatio:
		return "ratio"
	default:
		return ""
	}
}

// Flags is a bitset of measurement-quantity modifiers.
type Flags uint32

const (
	FlagAC Flags = 1 << iota
	FlagDC
	FlagRMS
	FlagDiode
	FlagHold
	FlagMax
	FlagMin
	FlagAutorange
	FlagRelative
	FlagSPLWeightA
	FlagSPLWeightC
	FlagSPLWeightZ
	FlagSPLWeightFlat
	FlagSPLTimeS
	FlagSPLTimeF
	FlagSPLLAT
	FlagSPLOverAlarm
)

// Has reports whether all bits in want are set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Rational is an exact fraction, numerator over denominator. The
// denominator is never zero in a value produced by this package.
type Rational struct {
	Num uint64
	Den uint64
}

// Float64 returns the rational as a float64, for callers that don't
// need exactness (e.g. display).
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}
