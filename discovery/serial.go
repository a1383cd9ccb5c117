// Package discovery enumerates serial-port candidates for drivers whose
// scan() has no connection-spec to go on. It walks the
// kernel's tty subsystem via udev rather than globbing /dev, so a
// device that has just been unplugged or that udev has not finished
// tagging yet is excluded instead of producing a spurious open error.
package discovery

import (
	"context"
	"sort"

	"github.com/jochenvg/go-udev"
)

// EnumerateSerial returns the device nodes of present, real tty
// devices (USB-serial adapters and onboard UARTs), sorted for
// deterministic scan order. Pseudo-terminals and the console/tty0-style
// virtual consoles are excluded since no instrument firmware answers
// behind them.
func EnumerateSerial(ctx context.Context) ([]string, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("tty"); err != nil {
		return nil, err
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, err
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, err
	}

	var nodes []string
	for _, d := range devices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		node := d.Devnode()
		if node == "" {
			continue
		}
		// A bare "tty" subsystem device with no parent device is a
		// virtual console (tty0, ttyS-less) rather than a line an
		// instrument could be attached to.
		if d.Parent() == nil {
			continue
		}
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes, nil
}
