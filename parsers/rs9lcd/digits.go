package rs9lcd

// dpBit is the decimal-point bit shared by the digit2/digit3/digit4
// bytes; on digit1 the same bit position instead flags MAX-hold,
// since the units digit never needs its own decimal point.
const dpBit byte = 0x08

// segmentDigits maps a digit byte with dpBit cleared to its decimal
// value, e.g. 0xd7->0, 0x50->1, ..., 0xf3->9. 0x00 (all segments
// unlit) decodes as a suppressed leading zero.
var segmentDigits = map[byte]int{
	0x00: 0,
	0xd7: 0,
	0x50: 1,
	0x03: 2,
	0x16: 3,
	0x34: 4,
	0x37: 5,
	0x43: 6,
	0xa2: 7,
	0xb7: 8,
	0xf3: 9,
}

// canonicalDigitByte is the reverse of segmentDigits for digits 0..9,
// excluding the 0x00 leading-zero alias.
var canonicalDigitByte = [10]byte{0xd7, 0x50, 0x03, 0x16, 0x34, 0x37, 0x43, 0xa2, 0xb7, 0xf3}

// decodeDigit splits a raw digit byte into its numeric value (if any)
// and whether its DP bit is set. ok is false for a non-digit
// 7-segment pattern (a letter like H, L, C, F, or an unrecognized
// glyph).
func decodeDigit(b byte) (value int, dp bool, ok bool) {
	dp = b&dpBit != 0
	v, found := segmentDigits[b&^dpBit]
	return v, dp, found
}
