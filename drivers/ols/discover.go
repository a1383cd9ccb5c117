package ols

import (
	"fmt"
	"io"
	"time"
)

// GenericSumpProbeCount and GenericSumpClockHz are the fallback
// profile discovery falls back to when metadata parsing times out: "synthesize
// a generic 32-probe Sump profile."
const (
	GenericSumpProbeCount = 32
	GenericSumpClockHz    = 100_000_000
)

// Profile is what discovery settles on for a device: either parsed
// metadata or the generic fallback.
type Profile struct {
	Vendor       string
	Model        string
	Version      string
	ProbeCount   int
	ClockHz      uint64
	SampleMemory uint32
}

// byteReadWriter is the minimal transport surface discovery needs;
// *serial.Port and a test pty both satisfy it.
type byteReadWriter interface {
	io.Reader
	io.Writer
}

// Discover runs the discovery protocol against an opened,
// already-configured serial line: five resets, an ID request
// requiring a 4-byte "1SLO"/"1ALS" response within 10ms, then a
// METADATA request that either yields a parseable TLV stream or times
// out into the generic Sump profile.
func Discover(rw byteReadWriter, readByteTimeout func(byteReadWriter, time.Duration) ([]byte, error)) (Profile, error) {
	if readByteTimeout == nil {
		readByteTimeout = readWithTimeout
	}

	for i := 0; i < 5; i++ {
		if _, err := rw.Write([]byte{cmdReset}); err != nil {
			return Profile{}, fmt.Errorf("ols: reset %d: %w", i, err)
		}
	}

	if _, err := rw.Write([]byte{cmdID}); err != nil {
		return Profile{}, fmt.Errorf("ols: send id: %w", err)
	}
	idResp, err := readByteTimeout(rw, 10*time.Millisecond)
	if err != nil || len(idResp) != 4 {
		return Profile{}, fmt.Errorf("ols: no id response")
	}
	var idArr [4]byte
	copy(idArr[:], idResp)
	if !isValidIDResponse(idArr) {
		return Profile{}, fmt.Errorf("ols: unrecognized id response %q", idResp)
	}

	if _, err := rw.Write([]byte{cmdMetadata}); err != nil {
		return Profile{}, fmt.Errorf("ols: send metadata: %w", err)
	}
	metaResp, err := readByteTimeout(rw, 10*time.Millisecond)
	if err != nil || len(metaResp) == 0 {
		return Profile{
			Vendor:     "Sump",
			Model:      "Logic Analyzer",
			ProbeCount: GenericSumpProbeCount,
			ClockHz:    GenericSumpClockHz,
		}, nil
	}

	md, err := ParseMetadata(metaResp)
	if err != nil {
		return Profile{}, fmt.Errorf("ols: parse metadata: %w", err)
	}
	probeCount := md.ProbeCount
	if probeCount == 0 {
		probeCount = GenericSumpProbeCount
	}
	clock := uint64(md.MaxSamplerateHz)
	if clock == 0 {
		clock = GenericSumpClockHz
	}
	return Profile{
		Vendor:       "Sump",
		Model:        md.DeviceName,
		Version:      md.FPGAVersion,
		ProbeCount:   probeCount,
		ClockHz:      clock,
		SampleMemory: md.SampleMemory,
	}, nil
}

// readWithTimeout reads whatever arrives within d, returning a short
// or empty slice rather than an error on plain timeout so callers can
// tell "nothing arrived" from "transport broke".
func readWithTimeout(rw byteReadWriter, d time.Duration) ([]byte, error) {
	type result struct {
		buf []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := rw.Read(buf)
		ch <- result{buf: buf[:n], err: err}
	}()
	select {
	case r := <-ch:
		return r.buf, r.err
	case <-time.After(d):
		return nil, nil
	}
}
