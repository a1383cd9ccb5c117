package dslogic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wk2xx/scopecore/config"
	"github.com/wk2xx/scopecore/datafeed"
	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/gpioreset"
	"github.com/wk2xx/scopecore/instrument"
	"github.com/wk2xx/scopecore/session"
	"github.com/wk2xx/scopecore/transport/usb"
)

// resetPulseHold is how long WithResetLine's GPIO line is held
// asserted before firmware upload begins.
const resetPulseHold = 10 * time.Millisecond

// Opener opens a USB device given the vid/pid this driver resolved
// from a connection spec or bus scan; it is supplied by the caller
// since concrete USB enumeration/open is out of scope for this core
// (transport/usb package doc).
type Opener func(ctx context.Context, vendorID, productID uint16) (usb.Device, error)

// FirmwareLoader and BitstreamLoader yield the raw resources named in
// a config.DSLogicModel entry; a real deployment backs these with an
// embedded or on-disk resource lookup.
type FirmwareLoader func(name string) ([]byte, error)
type BitstreamLoader func(name string) (usb.ResourceReader, error)

type devicePrivate struct {
	model          config.DSLogicModel
	voltageRange   string
	dev            usb.Device
	firmwareReady  time.Time
	firmwareLoaded bool

	samplerate   uint64
	limitSamples uint64
	captureRat   int
	continuous   bool
	extClk       bool
	clkRising    bool

	sess     *session.Session
	consumer *streamConsumer
}

// Driver implements driver.Driver for the FX2/DSLogic USB family.
type Driver struct {
	log        *log.Logger
	table      config.Table
	open       Opener
	loadFw     FirmwareLoader
	loadBit    BitstreamLoader
	known      []*instrument.Instance
	renumDelay time.Duration // overridable in tests; production callers get maxRenumDelay via New
	reset      *gpioreset.Line
}

// WithResetLine configures an optional hardware GPIO reset line the
// driver pulses ahead of firmware upload, for carrier boards that wire
// DSLogic's reset pin to a GPIO header rather than relying on USB
// re-enumeration alone. Returns d for chaining onto New.
func (d *Driver) WithResetLine(line *gpioreset.Line) *Driver {
	d.reset = line
	return d
}

// New returns an unopened DSLogic driver. table supplies the
// VID/PID-to-bitstream profile entries; open, loadFw and loadBit are
// the caller-supplied resource/transport hooks this core has no
// business owning.
func New(table config.Table, open Opener, loadFw FirmwareLoader, loadBit BitstreamLoader) *Driver {
	return &Driver{
		log:        log.With("component", "dslogic"),
		table:      table,
		open:       open,
		loadFw:     loadFw,
		loadBit:    loadBit,
		renumDelay: maxRenumDelay,
	}
}

func (d *Driver) Init(ctx context.Context) error { return nil }
func (d *Driver) Cleanup() error                 { return nil }
func (d *Driver) DevList() []*instrument.Instance { return d.known }

// parseVidPid parses a "<vid>.<pid>" hex connection spec.
func parseVidPid(spec string) (uint16, uint16, error) {
	parts := strings.SplitN(spec, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("dslogic: malformed connection spec %q", spec)
	}
	vid, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("dslogic: bad vendor id %q: %w", parts[0], err)
	}
	pid, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("dslogic: bad product id %q: %w", parts[1], err)
	}
	return uint16(vid), uint16(pid), nil
}

// Scan resolves the connection-spec vid.pid against the profile
// table and returns an unopened instance if a matching model is
// configured; DevOpen opens the device.
func (d *Driver) Scan(ctx context.Context, opts driver.ScanOptions) ([]*instrument.Instance, error) {
	spec := opts[driver.OptConnectionSpec]
	if spec == "" {
		return nil, fmt.Errorf("dslogic: scan requires a vid.pid connection-spec")
	}
	vid, pid, err := parseVidPid(spec)
	if err != nil {
		return nil, err
	}
	model, ok := d.table.FindDSLogic(vid, pid)
	if !ok {
		return nil, fmt.Errorf("dslogic: no profile for %04x.%04x", vid, pid)
	}

	inst := &instrument.Instance{
		Status:  instrument.StatusInactive,
		Vendor:  "DSLogic",
		Model:   model.Model,
		Probes:  instrument.NewLogicProbes(model.ProbeCount),
		Private: &devicePrivate{model: model, voltageRange: opts[driver.OptModelHint]},
	}
	d.known = append(d.known, inst)
	return []*instrument.Instance{inst}, nil
}

// DevOpen opens the USB device and, if it is still running in bootloader
// mode (no firmware uploaded yet this process), runs the firmware
// bootstrap and refuses further use until MAX_RENUM_DELAY_MS has
// elapsed.
func (d *Driver) DevOpen(ctx context.Context, inst *instrument.Instance) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	dev, err := d.open(ctx, priv.model.VendorID, priv.model.ProductID)
	if err != nil {
		return fmt.Errorf("dslogic: open %04x.%04x: %w", priv.model.VendorID, priv.model.ProductID, err)
	}
	priv.dev = dev

	if !priv.firmwareLoaded {
		if d.reset != nil {
			if err := d.reset.Pulse(resetPulseHold); err != nil {
				return fmt.Errorf("dslogic: reset pulse: %w", err)
			}
		}
		image, err := d.loadFw(priv.model.FirmwareFile)
		if err != nil {
			return fmt.Errorf("dslogic: load firmware resource %s: %w", priv.model.FirmwareFile, err)
		}
		readyAt, err := UploadFirmware(ctx, dev, image, d.renumDelay)
		if err != nil {
			return fmt.Errorf("dslogic: firmware bootstrap: %w", err)
		}
		priv.firmwareReady = readyAt
		priv.firmwareLoaded = true
	}
	if remaining := time.Until(priv.firmwareReady); remaining > 0 {
		return fmt.Errorf("dslogic: device renumerating, retry in %s", remaining)
	}

	inst.Status = instrument.StatusActive
	priv.samplerate = priv.model.MaxSamplerate
	priv.limitSamples = 1024
	return nil
}

func (d *Driver) DevClose(inst *instrument.Instance) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	if priv.dev != nil {
		priv.dev.Close()
	}
	inst.Status = instrument.StatusInactive
	return nil
}

func (d *Driver) InfoGet(id driver.InfoID, inst *instrument.Instance) (any, error) {
	if inst == nil {
		switch id {
		case driver.InfoSupportedOptions:
			return []driver.ScanOptionKey{driver.OptConnectionSpec, driver.OptModelHint}, nil
		}
		return nil, driver.ErrArg
	}
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return nil, driver.ErrBug
	}
	switch id {
	case driver.InfoProbeCount:
		return len(inst.Probes), nil
	case driver.InfoSamplerates:
		return driver.SamplerateRange{Low: 1, High: priv.model.MaxSamplerate, Step: 1}, nil
	case driver.InfoCurrentSamplerate:
		return priv.samplerate, nil
	default:
		return nil, driver.ErrArg
	}
}

func (d *Driver) ConfigSet(inst *instrument.Instance, key driver.ConfigKey, value any) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	switch key {
	case driver.ConfigSamplerate:
		rate, ok := value.(uint64)
		if !ok || rate == 0 || rate > priv.model.MaxSamplerate {
			return driver.ErrSamplerate
		}
		priv.samplerate = rate
		return nil
	case driver.ConfigLimitSamples:
		n, ok := value.(uint64)
		if !ok || n < driver.MinNumSamples {
			return driver.ErrGeneric
		}
		priv.limitSamples = n
		return nil
	case driver.ConfigCaptureRatio:
		ratio, ok := value.(int)
		if !ok || ratio < 0 || ratio > 100 {
			priv.captureRat = 0
			return driver.ErrArg
		}
		priv.captureRat = ratio
		return nil
	case driver.ConfigContinuous:
		b, _ := value.(bool)
		priv.continuous = b
		return nil
	default:
		return driver.ErrArg
	}
}

// DevAcquisitionStart uploads the model's bitstream (selecting by
// voltage range when the model has dual-range variants), sends the
// configuration frame, issues CMD_START, and registers the device's
// bulk-in endpoint as a session source.
func (d *Driver) DevAcquisitionStart(ctx context.Context, inst *instrument.Instance, cbData any) error {
	sess, ok := cbData.(*session.Session)
	if !ok {
		return driver.ErrArg
	}
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	priv.sess = sess

	bitfile, err := resolveBitstream(priv.model, priv.voltageRange)
	if err != nil {
		return err
	}
	res, err := d.loadBit(bitfile)
	if err != nil {
		return fmt.Errorf("dslogic: load bitstream resource %s: %w", bitfile, err)
	}
	if err := UploadBitstream(ctx, priv.dev, res, nil); err != nil {
		return err
	}

	numProbes := len(inst.EnabledProbes())
	mode := computeMode(ModeParams{
		Samplerate:   priv.samplerate,
		LimitSamples: priv.limitSamples,
		Continuous:   priv.continuous,
		ExternalClk:  priv.extClk,
		ClkRising:    priv.clkRising,
	})
	trig := BuildTriggerConfig(inst.Probes, priv.captureRat, priv.limitSamples)
	if trig.Enabled {
		mode |= modeTriggerEnable
	}
	frame := ConfigFrame{
		Mode:     mode,
		Divider:  uint64ToDivider(priv.model.MaxSamplerate, priv.samplerate),
		Count:    uint32(priv.limitSamples),
		TrigPos:  trig.TrigPos,
		ChEnable: instrument.EnabledMask(inst.Probes),
		Trigger:  trig,
	}
	if err := frame.Send(ctx, priv.dev); err != nil {
		return err
	}

	if _, err := priv.dev.VendorControl(ctx, usb.DirOut, cmdStart, 0, 0, nil); err != nil {
		return fmt.Errorf("dslogic: start: %w", err)
	}

	sess.Send(inst, datafeed.Header{FeedVersion: 1, StartTime: time.Now()})
	sess.Send(inst, datafeed.MetaLogic{NumProbes: numProbes, SampleRate: priv.samplerate})

	priv.consumer = newStreamConsumer(trig, sampleWidth(numProbes), priv.limitSamples)
	d.log.Debug("dslogic: starting stream", "transfer_size", transferSize(priv.samplerate), "parallel_transfers", getNumberOfTransfers())
	sess.SourceAdd(priv.dev, session.EventReadable, session.PollOnly, d.makeStreamCallback(inst, priv), nil)
	return nil
}

func (d *Driver) DevAcquisitionStop(inst *instrument.Instance, cbData any) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	inst.Status = instrument.StatusStopping
	if priv.sess != nil && priv.dev != nil {
		_ = priv.sess.SourceRemove(priv.dev)
	}
	return nil
}

// uint64ToDivider converts a target samplerate into the integer
// clock divider the configuration frame's "divider" section carries,
// using the same floor-division convention as the serial engine's
// samplerate programming.
func uint64ToDivider(clockHz, requested uint64) uint32 {
	if requested == 0 {
		return 1
	}
	d := clockHz / requested
	if d == 0 {
		d = 1
	}
	return uint32(d)
}

func (d *Driver) makeStreamCallback(inst *instrument.Instance, priv *devicePrivate) session.Callback {
	emptyTransfers := 0
	buf := make([]byte, transferSize(priv.samplerate))
	return func(ctx any, ready session.Events) (bool, error) {
		n, err := priv.dev.BulkRead(context.Background(), endpointStreamIn, buf)
		if err != nil {
			d.log.Error("dslogic: bulk read failed", "err", err)
			d.finish(inst, priv)
			return false, err
		}
		if n == 0 {
			emptyTransfers++
			if emptyTransfers >= emptyTransferLimit {
				d.finish(inst, priv)
				return false, nil
			}
			return true, nil
		}
		emptyTransfers = 0
		priv.consumer.Feed(buf[:n])
		if priv.consumer.Done() {
			d.finish(inst, priv)
			return false, nil
		}
		return true, nil
	}
}

func (d *Driver) finish(inst *instrument.Instance, priv *devicePrivate) {
	logic, triggerAt := priv.consumer.Result()
	unitsize := datafeed.Unitsize1
	if priv.consumer.width == 2 {
		unitsize = datafeed.Unitsize2
	}
	if triggerAt >= 0 {
		triggerByte := triggerAt * priv.consumer.width
		priv.sess.Send(inst, datafeed.Logic{Unitsize: unitsize, Samples: logic[:triggerByte]})
		priv.sess.Send(inst, datafeed.Trigger{})
		priv.sess.Send(inst, datafeed.Logic{Unitsize: unitsize, Samples: logic[triggerByte:]})
	} else {
		priv.sess.Send(inst, datafeed.Logic{Unitsize: unitsize, Samples: logic})
	}
	priv.sess.Send(inst, datafeed.End{})
	_ = priv.sess.SourceRemove(priv.dev)
	if priv.dev != nil {
		priv.dev.Close()
	}
	inst.Status = instrument.StatusInactive
}
