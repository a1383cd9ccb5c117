package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wk2xx/scopecore/config"
	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/drivers/dslogic"
	"github.com/wk2xx/scopecore/drivers/ols"
	"github.com/wk2xx/scopecore/gpioreset"
	"github.com/wk2xx/scopecore/transport/usb"
)

// newDriver constructs the named driver against table. dslogic gets a
// stub Opener: this core declares the USB control/bulk transfer
// surface (transport/usb) but ships no concrete backend, so a build
// wiring a real one replaces openUSBStub with that backend's Open
// func. resetChip, when non-empty, configures a GPIO reset line
// dslogic pulses before firmware upload.
func newDriver(name string, table config.Table, resetChip string, resetOffset int) (driver.Driver, error) {
	switch name {
	case "ols":
		return ols.New(table.Sump), nil
	case "dslogic":
		drv := dslogic.New(table, openUSBStub, os.ReadFile, openBitstreamFile)
		if resetChip != "" {
			line, err := gpioreset.Open(resetChip, resetOffset)
			if err != nil {
				return nil, fmt.Errorf("reset line %s:%d: %w", resetChip, resetOffset, err)
			}
			drv = drv.WithResetLine(line)
		}
		return drv, nil
	default:
		return nil, fmt.Errorf("unknown driver %q (want ols or dslogic)", name)
	}
}

func openUSBStub(ctx context.Context, vendorID, productID uint16) (usb.Device, error) {
	return nil, fmt.Errorf("no USB transport backend wired into this build (vid=%04x pid=%04x)", vendorID, productID)
}

// openBitstreamFile adapts os.Open to dslogic.BitstreamLoader: *os.File
// satisfies usb.ResourceReader via its Read method, but the function
// types themselves don't unify without this wrapper.
func openBitstreamFile(name string) (usb.ResourceReader, error) {
	return os.Open(name)
}
