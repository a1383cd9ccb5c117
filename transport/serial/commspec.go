// Package serial is the transport adapter over a physical or
// pseudo serial line. It is deliberately thin: the acquisition
// engines in drivers/ols own the SUMP wire protocol; this package only
// knows how to open a named port, apply a serial-comm-spec, and
// hand back something satisfying session.Handle.
package serial

import (
	"fmt"
	"strconv"
	"strings"
)

// Parity is the parity mode half of a comm spec.
type Parity byte

const (
	ParityNone Parity = 'n'
	ParityEven Parity = 'e'
	ParityOdd  Parity = 'o'
)

// CommSpec is a parsed "<baudrate>/<databits><parity><stopbits>"
// string, e.g. "9600/8n1".
type CommSpec struct {
	Baud     int
	DataBits int
	Parity   Parity
	StopBits int
}

// ParseCommSpec parses the serial-comm-spec grammar.
func ParseCommSpec(spec string) (CommSpec, error) {
	parts := strings.SplitN(spec, "/", 2)
	if len(parts) != 2 {
		return CommSpec{}, fmt.Errorf("serial: malformed comm spec %q: want <baud>/<databits><parity><stopbits>", spec)
	}
	baud, err := strconv.Atoi(parts[0])
	if err != nil || baud <= 0 {
		return CommSpec{}, fmt.Errorf("serial: malformed baud rate in comm spec %q", spec)
	}
	rest := parts[1]
	if len(rest) != 3 {
		return CommSpec{}, fmt.Errorf("serial: malformed frame in comm spec %q: want <databits><parity><stopbits>", spec)
	}
	dataBits, err := strconv.Atoi(string(rest[0]))
	if err != nil || dataBits < 5 || dataBits > 8 {
		return CommSpec{}, fmt.Errorf("serial: unsupported data bits in comm spec %q", spec)
	}
	parity := Parity(rest[1])
	switch parity {
	case ParityNone, ParityEven, ParityOdd:
	default:
		return CommSpec{}, fmt.Errorf("serial: unsupported parity %q in comm spec %q", string(rest[1]), spec)
	}
	stopBits, err := strconv.Atoi(string(rest[2]))
	if err != nil || (stopBits != 1 && stopBits != 2) {
		return CommSpec{}, fmt.Errorf("serial: unsupported stop bits in comm spec %q", spec)
	}
	return CommSpec{Baud: baud, DataBits: dataBits, Parity: parity, StopBits: stopBits}, nil
}

func (c CommSpec) String() string {
	return fmt.Sprintf("%d/%d%c%d", c.Baud, c.DataBits, c.Parity, c.StopBits)
}
