package dslogic

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/wk2xx/scopecore/transport/usb"
)

// cfgSection tags one 16-bit-headed parameter block within the
// configuration frame ("16-bit section headers preceding each
// parameter block").
type cfgSection uint16

const (
	sectionMode cfgSection = iota
	sectionDivider
	sectionCount
	sectionTrigPos
	sectionTrigGlb
	sectionChEn
	sectionTrig
)

// ConfigFrame is the fixed-layout configuration structure uploaded
// ahead of each acquisition.
type ConfigFrame struct {
	Mode      modeBits
	Divider   uint32
	Count     uint32
	TrigPos   uint32
	TrigGlb   uint16
	ChEnable  uint64
	Trigger   TriggerConfig
}

// section writes one 16-bit header followed by payload, little-endian.
func section(buf *bytes.Buffer, id cfgSection, payload []byte) {
	binary.Write(buf, binary.LittleEndian, uint16(id))
	buf.Write(payload)
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// Encode renders the frame as its wire bytes: the DS_CFG_START sync
// word, each section in mode/divider/count/trig_pos/trig_glb/ch_en/
// trig order, and the DS_CFG_END sync word.
func (f ConfigFrame) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(le32(dsCfgStart))

	section(&buf, sectionMode, le16(uint16(f.Mode)))
	section(&buf, sectionDivider, le32(f.Divider))
	section(&buf, sectionCount, le32(f.Count))
	section(&buf, sectionTrigPos, le32(f.TrigPos))
	section(&buf, sectionTrigGlb, le16(f.TrigGlb))
	section(&buf, sectionChEn, le64(f.ChEnable))

	var trigBuf bytes.Buffer
	for _, st := range f.Trigger.Stages {
		trigBuf.Write(le16(st.Mask0))
		trigBuf.Write(le16(st.Mask1))
		trigBuf.Write(le16(st.Value0))
		trigBuf.Write(le16(st.Value1))
		trigBuf.Write(le16(st.Edge))
		trigBuf.Write(le16(st.Logic))
	}
	section(&buf, sectionTrig, trigBuf.Bytes())

	buf.Write(le32(dsCfgEnd))
	return buf.Bytes()
}

// Send issues the SETTING vendor request carrying the frame's length
// in half-words (struct-bytes/2), then writes the encoded frame over
// the bulk OUT endpoint.
func (f ConfigFrame) Send(ctx context.Context, dev usb.Device) error {
	encoded := f.Encode()
	halfwords := len(encoded) / 2
	if len(encoded)%2 != 0 {
		return fmt.Errorf("dslogic: configuration frame length %d is not half-word aligned", len(encoded))
	}
	lenBytes := []byte{byte(halfwords), byte(halfwords >> 8), byte(halfwords >> 16)}
	if _, err := dev.VendorControl(ctx, usb.DirOut, cmdSetting, 0, 0, lenBytes); err != nil {
		return fmt.Errorf("dslogic: setting request: %w", err)
	}
	n, err := dev.BulkWrite(ctx, endpointConfigOut, encoded)
	if err != nil {
		return fmt.Errorf("dslogic: configuration frame bulk write: %w", err)
	}
	if n != len(encoded) {
		return fmt.Errorf("dslogic: short configuration frame write (%d/%d)", n, len(encoded))
	}
	return nil
}
