package dslogic

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wk2xx/scopecore/transport/usb"
)

// UploadBitstream runs the FPGA bitstream upload sequence: a
// CONFIG vendor request with three zero bytes, the FPGA_UPLOAD_DELAY
// wait, then the bitstream streamed from r in chunks of up to
// bitstreamChunk bytes over the bulk OUT endpoint. A short write at
// any point is fatal.
func UploadBitstream(ctx context.Context, dev usb.Device, r usb.ResourceReader, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}

	if _, err := dev.VendorControl(ctx, usb.DirOut, cmdConfig, 0, 0, []byte{0, 0, 0}); err != nil {
		return fmt.Errorf("dslogic: config request: %w", err)
	}
	sleep(fpgaUploadWait)

	buf := make([]byte, bitstreamChunk)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			written, werr := dev.BulkWrite(ctx, endpointConfigOut, buf[:n])
			if werr != nil {
				return fmt.Errorf("dslogic: bitstream bulk write: %w", werr)
			}
			if written != n {
				return fmt.Errorf("dslogic: short bitstream write (%d/%d)", written, n)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("dslogic: read bitstream resource: %w", err)
		}
	}
}
