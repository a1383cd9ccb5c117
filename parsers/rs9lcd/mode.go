package rs9lcd

import "github.com/wk2xx/scopecore/datafeed"

// Mode identifies the rotary-dial position a frame was captured in.
// Several positions share the same measurement quantity (e.g. the
// four DC-volts ranges); the device still assigns each its own mode
// byte.
const (
	ModeDCVolt200m byte = iota
	ModeDCVolt2
	ModeDCVolt20
	ModeDCVolt200
	ModeDCVolt1000
	ModeACVolt2
	ModeACVolt20
	ModeACVolt200
	ModeACVolt750
	ModeDCMicroAmp
	ModeDCMilliAmp
	ModeDCAmp
	ModeACMicroAmp
	ModeACMilliAmp
	ModeACAmp
	ModeOhm
	ModeFarad
	ModeHertz
	ModeDuty
	ModeWidth
	ModeDiode
	ModeContinuity
	ModeHFE
	ModeLogic
	ModeDBM
	ModeTemp
	modeInvalid // sentinel bound: mode values >= this are rejected
)

type modeInfo struct {
	mq    datafeed.MQ
	unit  datafeed.Unit
	flags datafeed.Flags
}

var modeTable = [modeInvalid + 1]modeInfo{
	ModeDCVolt200m:  {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagDC},
	ModeDCVolt2:     {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagDC},
	ModeDCVolt20:    {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagDC},
	ModeDCVolt200:   {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagDC},
	ModeDCVolt1000:  {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagDC},
	ModeACVolt2:     {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagAC},
	ModeACVolt20:    {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagAC},
	ModeACVolt200:   {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagAC},
	ModeACVolt750:   {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagAC},
	ModeDCMicroAmp:  {datafeed.MQCurrent, datafeed.UnitAmpere, datafeed.FlagDC},
	ModeDCMilliAmp:  {datafeed.MQCurrent, datafeed.UnitAmpere, datafeed.FlagDC},
	ModeDCAmp:       {datafeed.MQCurrent, datafeed.UnitAmpere, datafeed.FlagDC},
	ModeACMicroAmp:  {datafeed.MQCurrent, datafeed.UnitAmpere, datafeed.FlagAC},
	ModeACMilliAmp:  {datafeed.MQCurrent, datafeed.UnitAmpere, datafeed.FlagAC},
	ModeACAmp:       {datafeed.MQCurrent, datafeed.UnitAmpere, datafeed.FlagAC},
	ModeOhm:         {datafeed.MQResistance, datafeed.UnitOhm, 0},
	ModeFarad:       {datafeed.MQCapacitance, datafeed.UnitFarad, 0},
	ModeHertz:       {datafeed.MQFrequency, datafeed.UnitHertz, 0},
	ModeDuty:        {datafeed.MQDutyCycle, datafeed.UnitPercent, 0},
	ModeWidth:       {datafeed.MQPulseWidth, datafeed.UnitSecond, 0},
	ModeDiode:       {datafeed.MQVoltage, datafeed.UnitVolt, datafeed.FlagDiode},
	ModeContinuity:  {datafeed.MQContinuity, datafeed.UnitUnitless, 0},
	ModeHFE:         {datafeed.MQGain, datafeed.UnitUnitless, 0},
	ModeLogic:       {datafeed.MQVoltage, datafeed.UnitVolt, 0},
	ModeDBM:         {datafeed.MQPower, datafeed.UnitDBm, datafeed.FlagAC},
	ModeTemp:        {datafeed.MQTemperature, datafeed.UnitCelsius, 0},
}
