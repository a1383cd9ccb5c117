package serial

import (
	"fmt"

	goserial "github.com/daedaluz/goserial"
)

// bauds maps the handful of rates serial-comm-spec strings name to the
// termios CBAUD encoding goserial expects.
var bauds = map[int]goserial.CFlag{
	1200:   goserial.B1200,
	2400:   goserial.B2400,
	4800:   goserial.B4800,
	9600:   goserial.B9600,
	19200:  goserial.B19200,
	38400:  goserial.B38400,
	115200: goserial.B115200,
}

// dataBitsFlag maps a character size to its termios CSIZE encoding.
var dataBitsFlag = map[int]goserial.CFlag{
	5: goserial.CS5,
	6: goserial.CS6,
	7: goserial.CS7,
	8: goserial.CS8,
}

// Port is an open serial line, configured per a CommSpec and ready to
// be registered with a session.Session (it satisfies session.Handle
// via Fd).
type Port struct {
	path string
	p    *goserial.Port
}

// Open opens path and applies spec's framing over termios, the way
// the OLS engine's serial discovery expects.
func Open(path string, spec CommSpec) (*Port, error) {
	p, err := goserial.Open(path, goserial.NewOptions())
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", path, err)
	}
	if err := configure(p, spec); err != nil {
		p.Close()
		return nil, err
	}
	return &Port{path: path, p: p}, nil
}

func configure(p *goserial.Port, spec CommSpec) error {
	attrs, err := p.GetAttr()
	if err != nil {
		return fmt.Errorf("serial: get attrs: %w", err)
	}
	attrs.MakeRaw()

	baud, ok := bauds[spec.Baud]
	if !ok {
		return fmt.Errorf("serial: unsupported baud rate %d", spec.Baud)
	}
	attrs.SetSpeed(baud)

	size, ok := dataBitsFlag[spec.DataBits]
	if !ok {
		return fmt.Errorf("serial: unsupported data bits %d", spec.DataBits)
	}
	attrs.Cflag &^= goserial.CSIZE
	attrs.Cflag |= size

	switch spec.Parity {
	case ParityNone:
		attrs.Cflag &^= goserial.PARENB
	case ParityEven:
		attrs.Cflag |= goserial.PARENB
		attrs.Cflag &^= goserial.PARODD
	case ParityOdd:
		attrs.Cflag |= goserial.PARENB | goserial.PARODD
	}

	if spec.StopBits == 2 {
		attrs.Cflag |= goserial.CSTOPB
	} else {
		attrs.Cflag &^= goserial.CSTOPB
	}

	if err := p.SetAttr(goserial.TCSANOW, attrs); err != nil {
		return fmt.Errorf("serial: set attrs: %w", err)
	}
	return nil
}

// Fd satisfies session.Handle.
func (port *Port) Fd() int { return port.p.Fd() }

func (port *Port) Read(b []byte) (int, error)  { return port.p.Read(b) }
func (port *Port) Write(b []byte) (int, error) { return port.p.Write(b) }
func (port *Port) Close() error                { return port.p.Close() }

func (port *Port) String() string { return port.path }
