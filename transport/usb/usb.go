// Package usb declares the USB control/bulk transfer surface the
// DSLogic engine (drivers/dslogic) consumes. Concrete control/bulk
// transfer primitives are out of scope for this core;
// a real backend (libusb-equivalent) implements these interfaces and
// is wired in by the caller that constructs a dslogic.Driver.
package usb

import "context"

// Direction identifies a control-pipe request direction.
type Direction int

const (
	DirOut Direction = iota
	DirIn
)

// Device is one open USB device: a control pipe plus the bulk
// endpoints the engine streams through.
type Device interface {
	// VendorControl issues a vendor-specific control transfer on
	// endpoint 0. data is the outgoing payload for DirOut, or the
	// buffer to fill for DirIn.
	VendorControl(ctx context.Context, dir Direction, request uint8, value, index uint16, data []byte) (int, error)

	// BulkWrite writes buf to the given OUT endpoint. A short write
	// (n != len(buf)) with a nil error is treated as fatal by callers
	// ("Short transfers are fatal").
	BulkWrite(ctx context.Context, endpoint uint8, buf []byte) (int, error)

	// BulkRead reads up to len(buf) bytes from the given IN endpoint,
	// blocking no longer than timeout allows the caller's transport to
	// enforce (USB_TIMEOUT).
	BulkRead(ctx context.Context, endpoint uint8, buf []byte) (int, error)

	// Fd exposes a readiness-signaling descriptor (e.g. an eventfd a
	// real libusb completion-source backend arms) so the device can be
	// registered with session.Session like any other source.
	Fd() int

	Close() error
}

// ResourceReader yields successive chunks of a firmware or FPGA
// bitstream resource, (buf, n) at a time until io.EOF, matching the
// "resource reader" the bulk-upload loop needs.
type ResourceReader interface {
	Read(buf []byte) (n int, err error)
}
