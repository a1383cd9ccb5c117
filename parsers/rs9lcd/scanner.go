package rs9lcd

import (
	"github.com/charmbracelet/log"

	"github.com/wk2xx/scopecore/datafeed"
)

// Scanner finds and decodes rs9lcd frames out of a continuous byte
// stream. The protocol carries no start-of-frame marker, so on a
// validation failure the scanner slides its window forward by one
// byte and retries rather than discarding the whole buffer.
type Scanner struct {
	buf []byte
}

// Feed appends incoming transport bytes to the scan buffer.
func (s *Scanner) Feed(b []byte) {
	s.buf = append(s.buf, b...)
}

// Next extracts and decodes the next valid frame buffered so far. ok
// is false once fewer than one frame's worth of bytes remains.
func (s *Scanner) Next() (pkt datafeed.Analog, ok bool) {
	for len(s.buf) >= frameLength {
		var f Frame
		copy(f[:], s.buf[:frameLength])

		decoded, err := Decode(f)
		if err != nil {
			log.Debug("rs9lcd: discarding candidate frame", "err", err)
			s.buf = s.buf[1:]
			continue
		}

		s.buf = s.buf[frameLength:]
		return decoded, true
	}
	return datafeed.Analog{}, false
}
