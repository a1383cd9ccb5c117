package dslogic

// bytesPerMs is "bytes/ms = min(samplerate, 100 MHz)/1000 * 2"
// — two bytes per sample-clock tick up to the device ceiling.
func bytesPerMs(samplerate uint64) uint64 {
	capped := samplerate
	if capped > dsMaxLogicSamplerate {
		capped = dsMaxLogicSamplerate
	}
	return capped / 1000 * 2
}

// roundUpTo512 rounds n up to the next multiple of 512, the USB bulk
// transfer granularity transfers are sized to.
func roundUpTo512(n uint64) uint64 {
	const unit = 512
	if n%unit == 0 {
		return n
	}
	return (n/unit + 1) * unit
}

// transferSize is one bulk transfer's byte length: 10ms worth of
// sample bytes at samplerate, rounded up to 512.
func transferSize(samplerate uint64) uint64 {
	return roundUpTo512(bytesPerMs(samplerate) * 10)
}

// getNumberOfTransfers is how many parallel bulk reads the engine
// keeps outstanding; this core's single-threaded cooperative loop
// issues them one per readiness callback instead of truly in
// parallel ("at most one bounded-size read per
// invocation"), so the count only bounds the stall-detection window
// via emptyTransferLimit, not real concurrency.
func getNumberOfTransfers() int {
	return numSimulTransfers
}

// sampleWidth is 1 byte/sample for <=8 enabled probes, 2 for more,
// matching "8-bit single-channel or 16-bit wide" send_data_proc
// selection.
func sampleWidth(numProbes int) int {
	if numProbes > 8 {
		return 2
	}
	return 1
}

// widen expands a raw sample word to the mask/value bit width
// (uint16) regardless of sampleWidth, so software trigger matching
// always compares against the same mask shape.
func widen(raw []byte, width int) uint16 {
	if width == 1 {
		return uint16(raw[0])
	}
	return uint16(raw[0]) | uint16(raw[1])<<8
}

// softwareTrigger scans consecutive samples for the configured
// trigger stage sequence: mask bits set to 1
// are don't-care, bits clear are compared against value. stage tracks
// the next stage awaiting a match; stages left at their default
// all-don't-care configuration match unconditionally, so once a
// configured stage fires the remaining default stages cascade through
// within the same sample ("enabling single-stage use
// transparently" — a caller using only stage 0 gets a complete
// trigger, not a 16-sample-deep pipeline).
type softwareTrigger struct {
	cfg   TriggerConfig
	stage int
	fired bool
}

func newSoftwareTrigger(cfg TriggerConfig) *softwareTrigger {
	st := &softwareTrigger{cfg: cfg}
	if !cfg.Enabled {
		st.fired = true
	}
	return st
}

// stageMatches reports whether sample satisfies stage s's mask/value
// pair (only the bits with mask clear are compared).
func stageMatches(s TriggerStage, sample uint16) bool {
	return (sample^s.Value0)&^s.Mask0 == 0
}

// Feed consumes one widened sample and reports whether the trigger
// fired on this sample (transitioning from armed to pass-through).
func (st *softwareTrigger) Feed(sample uint16) bool {
	if st.fired {
		return false
	}
	if !stageMatches(st.cfg.Stages[st.stage], sample) {
		return false
	}
	st.stage++
	for st.stage < numTriggerStages && stageMatches(st.cfg.Stages[st.stage], sample) {
		st.stage++
	}
	if st.stage >= numTriggerStages {
		st.fired = true
		return true
	}
	return false
}

// Fired reports whether the trigger has matched (or was never
// configured, in which case it's considered fired from the start).
func (st *softwareTrigger) Fired() bool {
	return st.fired
}

// streamConsumer assembles incoming bulk-transfer bytes into samples,
// runs them through the software trigger, and accumulates width bytes
// per sample (streaming: "feed bytes into the send_data_proc
// appropriate for the sample width"). Unlike the serial engine's
// Receiver, DSLogic transmits samples oldest-first, so the buffer
// fills from the front.
type streamConsumer struct {
	trigger *softwareTrigger
	width   int
	limit   uint64

	buf       []byte
	samples   uint64
	triggerAt int // -1 until the trigger fires, else a sample index
	pending   []byte
}

func newStreamConsumer(trig TriggerConfig, width int, limit uint64) *streamConsumer {
	return &streamConsumer{
		trigger:   newSoftwareTrigger(trig),
		width:     width,
		limit:     limit,
		triggerAt: -1,
	}
}

// Feed processes one completed bulk transfer's payload. Every raw
// sample is stored at its full width (1 byte for <=8 probes, 2 for
// wide captures) so downstream datafeed packets keep all enabled
// probes; widen() is only used transiently to shape the software
// trigger comparison.
func (c *streamConsumer) Feed(data []byte) {
	for _, b := range data {
		if c.Done() {
			return
		}
		c.pending = append(c.pending, b)
		if len(c.pending) < c.width {
			continue
		}
		raw := c.pending
		c.pending = nil

		fired := c.trigger.Feed(widen(raw, c.width))
		if fired && c.triggerAt < 0 {
			c.triggerAt = int(c.samples)
		}
		c.buf = append(c.buf, raw...)
		c.samples++
	}
}

// Done reports whether limit samples have been collected.
func (c *streamConsumer) Done() bool {
	return c.samples >= c.limit
}

// Result returns the assembled sample bytes (c.width bytes per
// sample) and the sample index the trigger fired at (-1 if no
// trigger was configured or it never fired).
func (c *streamConsumer) Result() ([]byte, int) {
	return c.buf, c.triggerAt
}
