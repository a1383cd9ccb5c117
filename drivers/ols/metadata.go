package ols

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/charmbracelet/log"
)

// Metadata is the parsed result of the device's 0x04 METADATA
// response. Zero values mean "not reported".
type Metadata struct {
	DeviceName       string
	FPGAVersion      string
	AncillaryVersion string
	ProbeCount       int
	SampleMemory     uint32
	MaxSamplerateHz  uint32
	ProtocolVersion  int
}

// ParseMetadata walks the TLV stream until a 0x00
// key terminates it. Unknown (type, token) pairs are logged and
// skipped, never fatal.
func ParseMetadata(data []byte) (Metadata, error) {
	var md Metadata
	r := bytes.NewReader(data)
	for {
		keyByte, err := r.ReadByte()
		if err != nil {
			return md, fmt.Errorf("ols: metadata stream ended without a terminator key: %w", err)
		}
		if keyByte == 0x00 {
			return md, nil
		}
		typ := keyByte >> 5
		token := keyByte & 0x1f

		switch typ {
		case 0: // NUL-terminated UTF-8 string
			s, err := readCString(r)
			if err != nil {
				return md, fmt.Errorf("ols: metadata string for token %d: %w", token, err)
			}
			switch token {
			case 1:
				md.DeviceName = s
			case 2:
				md.FPGAVersion = s
			case 3:
				md.AncillaryVersion = s
			default:
				log.Debug("ols: unknown metadata string token", "token", token, "value", s)
			}

		case 1: // 32-bit big-endian unsigned
			var buf [4]byte
			if _, err := r.Read(buf[:]); err != nil {
				return md, fmt.Errorf("ols: metadata u32 for token %d: %w", token, err)
			}
			v := binary.BigEndian.Uint32(buf[:])
			switch token {
			case 0:
				md.ProbeCount = int(v)
			case 1:
				md.SampleMemory = v
			case 3:
				md.MaxSamplerateHz = v
			case 4:
				md.ProtocolVersion = int(v)
			default:
				log.Debug("ols: unknown metadata u32 token", "token", token, "value", v)
			}

		case 2: // 8-bit unsigned
			b, err := r.ReadByte()
			if err != nil {
				return md, fmt.Errorf("ols: metadata u8 for token %d: %w", token, err)
			}
			switch token {
			case 0:
				md.ProbeCount = int(b)
			case 1:
				md.ProtocolVersion = int(b)
			default:
				log.Debug("ols: unknown metadata u8 token", "token", token, "value", b)
			}

		default:
			log.Debug("ols: unknown metadata key type, skipping rest unparseable", "type", typ, "token", token)
			return md, nil
		}
	}
}

func readCString(r *bytes.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b)
	}
}
