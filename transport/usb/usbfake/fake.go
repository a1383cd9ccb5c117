// Package usbfake provides an in-memory usb.Device for exercising
// drivers/dslogic without real hardware or a libusb backend.
package usbfake

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/wk2xx/scopecore/transport/usb"
)

// Device is a scriptable fake: control writes are recorded, control
// reads are served from Responses, bulk writes are recorded, and bulk
// reads are served from StreamChunks in order.
type Device struct {
	mu sync.Mutex

	ControlWrites []ControlCall
	Responses     map[uint8][]byte // request -> bytes to hand back on DirIn

	BulkWrites [][]byte
	ShortWrite bool // force the next BulkWrite to report a short transfer

	StreamChunks [][]byte // consumed in order by BulkRead
	streamIdx    int

	readFd     int
	closed     bool
	closeCount int
}

// ControlCall records one VendorControl invocation.
type ControlCall struct {
	Dir     usb.Direction
	Request uint8
	Value   uint16
	Index   uint16
	Data    []byte
}

// New returns an empty fake device. readFd is an arbitrary descriptor
// Fd() reports; tests that don't register with a session can pass 0.
func New(readFd int) *Device {
	return &Device{Responses: make(map[uint8][]byte), readFd: readFd}
}

func (d *Device) VendorControl(ctx context.Context, dir usb.Direction, request uint8, value, index uint16, data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	call := ControlCall{Dir: dir, Request: request, Value: value, Index: index}
	if dir == usb.DirOut {
		call.Data = append([]byte(nil), data...)
		d.ControlWrites = append(d.ControlWrites, call)
		return len(data), nil
	}
	resp := d.Responses[request]
	n := copy(data, resp)
	call.Data = append([]byte(nil), data[:n]...)
	d.ControlWrites = append(d.ControlWrites, call)
	return n, nil
}

func (d *Device) BulkWrite(ctx context.Context, endpoint uint8, buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.BulkWrites = append(d.BulkWrites, append([]byte(nil), buf...))
	if d.ShortWrite {
		d.ShortWrite = false
		return len(buf) - 1, nil
	}
	return len(buf), nil
}

func (d *Device) BulkRead(ctx context.Context, endpoint uint8, buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streamIdx >= len(d.StreamChunks) {
		return 0, io.EOF
	}
	chunk := d.StreamChunks[d.streamIdx]
	d.streamIdx++
	if len(chunk) > len(buf) {
		return 0, fmt.Errorf("usbfake: chunk larger than read buffer")
	}
	n := copy(buf, chunk)
	return n, nil
}

func (d *Device) Fd() int { return d.readFd }

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.closeCount++
	return nil
}

func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
