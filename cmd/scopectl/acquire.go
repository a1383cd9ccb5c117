package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/wk2xx/scopecore/datafeed"
	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/instrument"
	"github.com/wk2xx/scopecore/session"
)

type acquireOptions struct {
	driverName   string
	samplerate   uint64
	limitSamples uint64
	output       string
}

// runAcquire scans for the first instrument, applies the requested
// configuration, starts acquisition, and runs the session loop until
// the driver sends datafeed.End or ctx is canceled (Ctrl-C). Logic
// sample bytes are written to opts.output as they arrive, Analog
// values as one decimal line each; End stops the session, and every
// other packet is logged at debug level.
func runAcquire(ctx context.Context, drv driver.Driver, scanOpts driver.ScanOptions, opts acquireOptions) error {
	found, err := drv.Scan(ctx, scanOpts)
	if err != nil {
		return fmt.Errorf("acquire: scan: %w", err)
	}
	if len(found) == 0 {
		return fmt.Errorf("acquire: no instruments found")
	}
	inst := found[0]

	if err := drv.DevOpen(ctx, inst); err != nil {
		return fmt.Errorf("acquire: open %s %s: %w", inst.Vendor, inst.Model, err)
	}
	defer drv.DevClose(inst)

	if err := applyAcquireConfig(drv, opts.driverName, inst, opts); err != nil {
		return fmt.Errorf("acquire: configure: %w", err)
	}

	out := io.Writer(os.Stdout)
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("acquire: create %s: %w", opts.output, err)
		}
		defer f.Close()
		out = f
	}

	sess := session.New()
	var sampleCount int
	subID := sess.DatafeedSubscribe(func(inst *instrument.Instance, pkt datafeed.Packet, cbCtx any) {
		switch p := pkt.(type) {
		case datafeed.Logic:
			if _, err := out.Write(p.Samples); err != nil {
				log.Error("acquire: write samples", "err", err)
			}
			sampleCount += p.NumSamples()
		case datafeed.Analog:
			for _, v := range p.Samples {
				fmt.Fprintf(out, "%g\n", v)
			}
			sampleCount += len(p.Samples)
		case datafeed.End:
			sess.Stop()
		default:
			log.Debug("acquire: packet", "type", fmt.Sprintf("%T", pkt))
		}
	}, nil)
	defer sess.DatafeedUnsubscribe(subID)

	if err := drv.DevAcquisitionStart(ctx, inst, sess); err != nil {
		return fmt.Errorf("acquire: start: %w", err)
	}

	runErr := sess.Run(ctx)
	if stopErr := drv.DevAcquisitionStop(inst, sess); stopErr != nil {
		log.Error("acquire: stop", "err", stopErr)
	}
	if runErr != nil {
		return fmt.Errorf("acquire: run: %w", runErr)
	}

	fmt.Fprintf(os.Stderr, "acquire: %d samples captured\n", sampleCount)
	return nil
}

// applyAcquireConfig maps CLI flags onto ConfigSet calls. The two
// driver families disagree on the Go type ConfigLimitSamples expects
// (ols wants uint32, dslogic uint64), so the cast lives here rather
// than forcing one driver's convention onto the other.
func applyAcquireConfig(drv driver.Driver, driverName string, inst *instrument.Instance, opts acquireOptions) error {
	if opts.samplerate != 0 {
		if err := drv.ConfigSet(inst, driver.ConfigSamplerate, opts.samplerate); err != nil {
			return fmt.Errorf("samplerate: %w", err)
		}
	}
	if opts.limitSamples != 0 {
		var err error
		switch driverName {
		case "dslogic":
			err = drv.ConfigSet(inst, driver.ConfigLimitSamples, opts.limitSamples)
		default:
			err = drv.ConfigSet(inst, driver.ConfigLimitSamples, uint32(opts.limitSamples))
		}
		if err != nil {
			return fmt.Errorf("limit-samples: %w", err)
		}
	}
	return nil
}
