// Package rs9lcd decodes the 9-byte LCD-segment frames emitted by the
// rs9lcd digital-multimeter protocol: mode, two indicator bytes, four
// packed 7-segment digits, an info byte, and a trailing checksum.
package rs9lcd

import "fmt"

const frameLength = 9

// Indicator bits in ind1 (frame byte 1). ind1Kilo/ind1Mega sit at
// 0x10/0x20 so a combined KILO|MEGA reading (rejected by the
// multiplier mutex check) reads as the published 0x30.
const (
	ind1Mili  byte = 1 << iota // x1e-3 multiplier
	ind1Hz                     // frequency quantity
	ind1Ohm                    // resistance quantity
	ind1Farad                  // capacitance quantity
	ind1Kilo                   // x1e3 multiplier
	ind1Mega                   // x1e6 multiplier
	ind1Amp                    // current quantity
	ind1Volt                   // voltage quantity
)

// Indicator bits in ind2 (frame byte 2).
const (
	ind2Micro byte = 1 << iota // x1e-6 multiplier
	ind2Nano                   // x1e-9 multiplier
	ind2Dbm                    // power-in-dBm quantity
	ind2Sec                    // seconds quantity (pulse width / period)
	ind2Duty                   // duty-cycle quantity
	ind2Hfe                    // transistor-gain quantity
	ind2Min                    // MIN-hold indicator
	ind2Reserved
)

// Indicator bits in info (frame byte 7).
const (
	infoNeg  byte = 1 << iota // negative reading
	infoHold                  // HOLD indicator
	infoAuto                  // autorange indicator
)

// Frame is one raw rs9lcd packet, laid out exactly as received:
// mode, ind1, ind2, digit4, digit3, digit2, digit1, info, checksum.
type Frame [frameLength]byte

func (f Frame) mode() byte     { return f[0] }
func (f Frame) ind1() byte     { return f[1] }
func (f Frame) ind2() byte     { return f[2] }
func (f Frame) digit4() byte   { return f[3] }
func (f Frame) digit3() byte   { return f[4] }
func (f Frame) digit2() byte   { return f[5] }
func (f Frame) digit1() byte   { return f[6] }
func (f Frame) info() byte     { return f[7] }
func (f Frame) checksum() byte { return f[8] }

// checksumOK reports whether f's trailing byte matches the sum of its
// first 8 bytes: (Σ bytes[0..7] + 57) mod 256.
func (f Frame) checksumOK() bool {
	var sum int
	for _, b := range f[:8] {
		sum += int(b)
	}
	return byte((sum+57)%256) == f.checksum()
}

type bitRef struct {
	byteIdx int
	bit     byte
}

var multiplierBits = []bitRef{
	{1, ind1Kilo}, {1, ind1Mega}, {1, ind1Mili}, {2, ind2Micro}, {2, ind2Nano},
}

var quantityBits = []bitRef{
	{1, ind1Hz}, {1, ind1Ohm}, {1, ind1Farad}, {1, ind1Amp}, {1, ind1Volt},
	{2, ind2Dbm}, {2, ind2Sec}, {2, ind2Duty}, {2, ind2Hfe},
}

func atMostOneSet(f Frame, bits []bitRef) bool {
	n := 0
	for _, b := range bits {
		if f[b.byteIdx]&b.bit != 0 {
			n++
		}
	}
	return n <= 1
}

// Validate runs the frame-acceptance checks in order: mode range,
// checksum, then multiplier/quantity mutual exclusion. A non-nil
// error means the frame must be discarded without producing a packet;
// the caller keeps scanning the byte stream for the next candidate.
func (f Frame) Validate() error {
	if f.mode() >= modeInvalid {
		return fmt.Errorf("rs9lcd: mode %d out of range", f.mode())
	}
	if !f.checksumOK() {
		return fmt.Errorf("rs9lcd: checksum mismatch")
	}
	if !atMostOneSet(f, multiplierBits) {
		return fmt.Errorf("rs9lcd: more than one multiplier bit set")
	}
	if !atMostOneSet(f, quantityBits) {
		return fmt.Errorf("rs9lcd: more than one quantity bit set")
	}
	return nil
}
