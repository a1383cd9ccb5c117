package datafeed

import "time"

// Packet is the sealed interface implemented by every datafeed packet
// variant. The seal (the unexported method) keeps the set of variants
// closed so a type switch over Packet can be exhaustive and the
// compiler flags a missing case when a new variant is added.
type Packet interface {
	packet()
}

// Header is the first packet of every session.
type Header struct {
	FeedVersion uint32
	StartTime   time.Time
}

func (Header) packet() {}

// MetaLogic precedes any Logic packet and describes the probes and
// samplerate that Logic packet applies to, until superseded by
// another MetaLogic.
type MetaLogic struct {
	NumProbes  int
	SampleRate uint64 // Hz
}

func (MetaLogic) packet() {}

// MetaAnalog precedes any Analog packet.
type MetaAnalog struct {
	NumProbes int
}

func (MetaAnalog) packet() {}

// Unitsize is the width, in bytes, of one packed logic sample.
type Unitsize int

const (
	Unitsize1 Unitsize = 1
	Unitsize2 Unitsize = 2
	Unitsize4 Unitsize = 4
	Unitsize8 Unitsize = 8
)

// Valid reports whether u is one of the four sizes the wire format
// allows.
func (u Unitsize) Valid() bool {
	switch u {
	case Unitsize1, Unitsize2, Unitsize4, Unitsize8:
		return true
	default:
		return false
	}
}

// Logic carries packed parallel-bit samples: bit i of a sample
// corresponds to the probe whose index is i. len(Samples) must be a
// multiple of Unitsize.
type Logic struct {
	Unitsize Unitsize
	Samples  []byte
}

func (Logic) packet() {}

// NumSamples returns the number of samples carried, or 0 if the
// payload isn't a multiple of the unit size.
func (l Logic) NumSamples() int {
	if l.Unitsize == 0 || len(l.Samples)%int(l.Unitsize) != 0 {
		return 0
	}
	return len(l.Samples) / int(l.Unitsize)
}

// Analog carries one probe's worth of floating-point measurements.
type Analog struct {
	MQ      MQ
	Unit    Unit
	Flags   Flags
	Samples []float64
}

func (Analog) packet() {}

// Trigger marks the trigger sample boundary in the surrounding Logic
// stream. It carries no payload.
type Trigger struct{}

func (Trigger) packet() {}

// FrameBegin marks the start of an oscilloscope frame.
type FrameBegin struct{}

func (FrameBegin) packet() {}

// FrameEnd marks the end of an oscilloscope frame.
type FrameEnd struct{}

func (FrameEnd) packet() {}

// End terminates a session. No packet follows it.
type End struct{}

func (End) packet() {}
