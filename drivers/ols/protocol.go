// Package ols implements the serial SUMP/OLS logic-analyzer engine
// discovery/protocol negotiation, metadata parsing,
// divider-based samplerate programming, 4-stage trigger programming,
// and RLE sample decoding with trigger pre/post-ratio reconstruction.
package ols

import "encoding/binary"

// Short commands, one byte each.
const (
	cmdReset    byte = 0x00
	cmdRun      byte = 0x01
	cmdID       byte = 0x02
	cmdMetadata byte = 0x04
)

// Long commands: opcode followed by 4 big-endian data bytes, with the
// multi-byte parameter crossing the wire byte-reversed from host order.
const (
	cmdSetTriggerMask0  byte = 0xc0
	cmdSetTriggerMask1  byte = 0xc4
	cmdSetTriggerMask2  byte = 0xc8
	cmdSetTriggerMask3  byte = 0xcc
	cmdSetTriggerValue0 byte = 0xc1
	cmdSetTriggerValue1 byte = 0xc5
	cmdSetTriggerValue2 byte = 0xc9
	cmdSetTriggerValue3 byte = 0xcd
	cmdSetTriggerConfig0 byte = 0xc2
	cmdSetTriggerConfig1 byte = 0xc6
	cmdSetTriggerConfig2 byte = 0xca
	cmdSetTriggerConfig3 byte = 0xce
	cmdSetDivider       byte = 0x80
	cmdCaptureSize      byte = 0x81
	cmdSetFlags         byte = 0x82
)

var triggerMaskCmd = [4]byte{cmdSetTriggerMask0, cmdSetTriggerMask1, cmdSetTriggerMask2, cmdSetTriggerMask3}
var triggerValueCmd = [4]byte{cmdSetTriggerValue0, cmdSetTriggerValue1, cmdSetTriggerValue2, cmdSetTriggerValue3}
var triggerConfigCmd = [4]byte{cmdSetTriggerConfig0, cmdSetTriggerConfig1, cmdSetTriggerConfig2, cmdSetTriggerConfig3}

// idResponses holds ASCII "1SLO" — SUMP's original ID response. "1ALS" (the
// byte-swapped order some OLS clones answer with) is also accepted.
var idResponses = [][4]byte{
	{'1', 'S', 'L', 'O'},
	{'1', 'A', 'L', 'S'},
}

func isValidIDResponse(b [4]byte) bool {
	for _, want := range idResponses {
		if b == want {
			return true
		}
	}
	return false
}

// beWord encodes v as 4 big-endian bytes, per the long-command wire
// format.
func beWord(v uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b
}

// reversedWord encodes v byte-reversed from host order, the form the
// divider register expects.
func reversedWord(v uint32) [4]byte {
	b := beWord(v)
	return [4]byte{b[3], b[2], b[1], b[0]}
}

// halfwordSwapped encodes v with its two 16-bit halves swapped, big
// endian within each half — the form the capture-size register
// expects.
func halfwordSwapped(v uint32) [4]byte {
	hi := uint16(v >> 16)
	lo := uint16(v)
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], lo)
	binary.BigEndian.PutUint16(b[2:4], hi)
	return b
}

// longCommand builds the 5-byte wire form of a long command.
func longCommand(opcode byte, data [4]byte) []byte {
	return []byte{opcode, data[0], data[1], data[2], data[3]}
}
