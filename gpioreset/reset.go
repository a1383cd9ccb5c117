// Package gpioreset drives an optional hardware reset line ahead of
// DSLogic firmware and FPGA upload on
// boards where the reset pin is wired to a GPIO header rather than
// being toggled purely over USB. It is optional: callers with no reset
// line configured simply never construct a Line.
package gpioreset

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Line is a single GPIO output line held low (inactive) between
// Pulse calls.
type Line struct {
	line *gpiocdev.Line
}

// Open requests offset on chip (e.g. "gpiochip0") as an output,
// initially inactive.
func Open(chip string, offset int) (*Line, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("gpioreset: request %s:%d: %w", chip, offset, err)
	}
	return &Line{line: l}, nil
}

// Pulse drives the line active for hold, then releases it inactive
// again, to reset a device whose reset pin is level- rather than
// edge-triggered.
func (r *Line) Pulse(hold time.Duration) error {
	if err := r.line.SetValue(1); err != nil {
		return fmt.Errorf("gpioreset: assert: %w", err)
	}
	time.Sleep(hold)
	if err := r.line.SetValue(0); err != nil {
		return fmt.Errorf("gpioreset: deassert: %w", err)
	}
	return nil
}

// Close releases the underlying line request.
func (r *Line) Close() error {
	return r.line.Close()
}
