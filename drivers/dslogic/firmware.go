package dslogic

import (
	"context"
	"fmt"
	"time"

	"github.com/wk2xx/scopecore/transport/usb"
)

// cypressFirmwareLoad is the standard Cypress FX2 "load firmware"
// vendor request: a sequence of control writes to successive target
// addresses, terminated by a run/no-run toggle at address 0xe600 (the
// CPUCS register) — the part of the bootstrap every FX2-based
// instrument shares regardless of the application firmware image.
const cypressFirmwareLoad uint8 = 0xa0

// cpucsAddr is the FX2 CPU control-and-status register: writing 1
// halts the 8051, 0 releases it to run the just-uploaded image.
const cpucsAddr uint16 = 0xe600

// firmwareChunk caps each control-transfer payload to keep within
// typical endpoint-0 max-packet limits.
const firmwareChunk = 4096

// UploadFirmware runs the FX2 firmware bootstrap ("Firmware
// bootstrap"): halt the CPU, stream the image in chunks via vendor
// request 0xa0, release the CPU, and report the time after which the
// device is expected to have renumerated under a new USB address.
func UploadFirmware(ctx context.Context, dev usb.Device, image []byte, renumDelay time.Duration) (readyAt time.Time, err error) {
	if _, err := dev.VendorControl(ctx, usb.DirOut, cypressFirmwareLoad, cpucsAddr, 0, []byte{1}); err != nil {
		return time.Time{}, fmt.Errorf("dslogic: halt cpu: %w", err)
	}

	for off := 0; off < len(image); off += firmwareChunk {
		end := off + firmwareChunk
		if end > len(image) {
			end = len(image)
		}
		chunk := image[off:end]
		n, err := dev.VendorControl(ctx, usb.DirOut, cypressFirmwareLoad, uint16(off), 0, chunk)
		if err != nil {
			return time.Time{}, fmt.Errorf("dslogic: upload firmware at %d: %w", off, err)
		}
		if n != len(chunk) {
			return time.Time{}, fmt.Errorf("dslogic: short firmware write at %d (%d/%d)", off, n, len(chunk))
		}
	}

	if _, err := dev.VendorControl(ctx, usb.DirOut, cypressFirmwareLoad, cpucsAddr, 0, []byte{0}); err != nil {
		return time.Time{}, fmt.Errorf("dslogic: release cpu: %w", err)
	}

	return time.Now().Add(renumDelay), nil
}
