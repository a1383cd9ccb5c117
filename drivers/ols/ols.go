package ols

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wk2xx/scopecore/config"
	"github.com/wk2xx/scopecore/datafeed"
	"github.com/wk2xx/scopecore/discovery"
	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/instrument"
	"github.com/wk2xx/scopecore/session"
	"github.com/wk2xx/scopecore/transport/serial"
)

// devicePrivate is the engine-private state an Instance carries while
// open.
type devicePrivate struct {
	port       *serial.Port
	profile    Profile
	samplerate uint64
	captureRat int
	limit      uint32
	rle        bool
	continuous bool
	probeMask  uint64
	groups     [4]bool
	numGroups  int
	trigger    TriggerProgramming
	hasTrigger bool
	sess       *session.Session
	receiver   *Receiver
}

// Driver implements driver.Driver for the SUMP/OLS family.
type Driver struct {
	log      *log.Logger
	known    []*instrument.Instance
	fallback config.SumpProfile
}

// New returns an unopened OLS driver. fallback supplies the
// probe-count/clock-rate a device gets when discovery's
// METADATA request times out and the caller has configured something
// other than the generic 32-probe/100MHz Sump default.
func New(fallback config.SumpProfile) *Driver {
	return &Driver{log: log.With("component", "ols"), fallback: fallback}
}

func (d *Driver) Init(ctx context.Context) error  { return nil }
func (d *Driver) Cleanup() error                  { return nil }
func (d *Driver) DevList() []*instrument.Instance { return d.known }

// Scan opens connection-spec/serial-comm-spec candidates (or
// enumerates via discovery.EnumerateSerial when connection-spec is
// absent) and runs Discover against each.
func (d *Driver) Scan(ctx context.Context, opts driver.ScanOptions) ([]*instrument.Instance, error) {
	commSpecStr := opts[driver.OptSerialCommSpec]
	if commSpecStr == "" {
		commSpecStr = "115200/8n1"
	}
	spec, err := serial.ParseCommSpec(commSpecStr)
	if err != nil {
		return nil, err
	}

	var candidates []string
	if path := opts[driver.OptConnectionSpec]; path != "" {
		candidates = []string{path}
	} else {
		candidates, err = discovery.EnumerateSerial(ctx)
		if err != nil {
			return nil, fmt.Errorf("ols: enumerate serial devices: %w", err)
		}
	}

	var found []*instrument.Instance
	for _, path := range candidates {
		port, err := serial.Open(path, spec)
		if err != nil {
			d.log.Debug("ols: cannot open candidate", "path", path, "err", err)
			continue
		}
		profile, err := Discover(port, nil)
		port.Close()
		if err != nil {
			d.log.Debug("ols: discovery failed", "path", path, "err", err)
			continue
		}
		if profile.ProbeCount == GenericSumpProbeCount && d.fallback.ProbeCount != 0 {
			profile.ProbeCount = d.fallback.ProbeCount
		}
		if profile.ClockHz == GenericSumpClockHz && d.fallback.ClockHz != 0 {
			profile.ClockHz = d.fallback.ClockHz
		}
		inst := &instrument.Instance{
			Status:    instrument.StatusInactive,
			Vendor:    profile.Vendor,
			Model:     profile.Model,
			Version:   profile.Version,
			Probes:    instrument.NewLogicProbes(profile.ProbeCount),
			Private:   &devicePrivate{profile: profile},
			Transport: path,
		}
		found = append(found, inst)
		d.known = append(d.known, inst)
	}
	return found, nil
}

func (d *Driver) DevOpen(ctx context.Context, inst *instrument.Instance) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	path, _ := inst.Transport.(string)
	spec, err := serial.ParseCommSpec("115200/8n1")
	if err != nil {
		return err
	}
	port, err := serial.Open(path, spec)
	if err != nil {
		return fmt.Errorf("ols: open %s: %w", path, err)
	}
	priv.port = port
	priv.samplerate = priv.profile.ClockHz
	priv.limit = 1024
	priv.groups = [4]bool{true, false, false, false}
	priv.numGroups = 1
	inst.Status = instrument.StatusActive
	return nil
}

func (d *Driver) DevClose(inst *instrument.Instance) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	if priv.port != nil {
		priv.port.Close()
	}
	inst.Status = instrument.StatusInactive
	return nil
}

func (d *Driver) InfoGet(id driver.InfoID, inst *instrument.Instance) (any, error) {
	if inst == nil {
		switch id {
		case driver.InfoSupportedOptions:
			return []driver.ScanOptionKey{driver.OptConnectionSpec, driver.OptSerialCommSpec, driver.OptModelHint}, nil
		case driver.InfoTriggerAlphabet:
			return "01rfc", nil
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
	case driver.InfoProbeNames:
		names := make([]string, len(inst.Probes))
		for i, p := range inst.Probes {
			names[i] = p.Name
		}
		return names, nil
	case driver.InfoSamplerates:
		return driver.SamplerateRange{Low: 1, High: priv.profile.ClockHz, Step: 1}, nil
	case driver.InfoCurrentSamplerate:
		return ProgramSamplerate(priv.profile.ClockHz, priv.samplerate).Effective, nil
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
		if !ok || rate == 0 {
			return driver.ErrSamplerate
		}
		priv.samplerate = rate
		return nil
	case driver.ConfigCaptureRatio:
		ratio, ok := value.(int)
		if !ok || ratio < 0 || ratio > 100 {
			priv.captureRat = 0
			return driver.ErrArg
		}
		priv.captureRat = ratio
		return nil
	case driver.ConfigLimitSamples:
		n, ok := value.(uint32)
		if !ok || n < driver.MinNumSamples {
			return driver.ErrGeneric
		}
		priv.limit = n
		return nil
	case driver.ConfigRLE:
		b, _ := value.(bool)
		priv.rle = b
		return nil
	case driver.ConfigContinuous:
		b, _ := value.(bool)
		priv.continuous = b
		return nil
	default:
		return driver.ErrArg
	}
}

// DevAcquisitionStart programs samplerate, trigger, flags, and
// capture size, sends RUN, then registers the engine's receive
// callback with sess under an infinite timeout.
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
	priv.probeMask = instrument.EnabledMask(inst.Probes)
	priv.numGroups = ChannelGroups(priv.probeMask)
	for g := 0; g < 4; g++ {
		priv.groups[g] = priv.probeMask&(uint64(0xff)<<uint(g*8)) != 0
	}
	priv.trigger = BuildTriggerProgramming(inst.Probes)
	priv.hasTrigger = priv.trigger.NumStages > 0

	prog := ProgramSamplerate(priv.profile.ClockHz, priv.samplerate)
	if _, err := priv.port.Write(longCommand(cmdSetDivider, reversedWord(prog.Divider))); err != nil {
		return fmt.Errorf("ols: set divider: %w", err)
	}
	for _, cmd := range priv.trigger.Commands() {
		if _, err := priv.port.Write(cmd); err != nil {
			return fmt.Errorf("ols: program trigger: %w", err)
		}
	}

	maxSamples := priv.profile.SampleMemory
	if maxSamples == 0 {
		maxSamples = priv.limit * 4
	}
	sizing := ComputeCaptureSizing(maxSamples, priv.numGroups, priv.limit, priv.captureRat, priv.hasTrigger, priv.trigger.NumStages)
	if _, err := priv.port.Write(longCommand(cmdCaptureSize, captureSizeWord(sizing.ReadCount, sizing.DelayCount))); err != nil {
		return fmt.Errorf("ols: set capture size: %w", err)
	}

	flagsWord := BuildFlags(prog.Demux, false, priv.rle, priv.probeMask)
	if _, err := priv.port.Write(longCommand(cmdSetFlags, reversedWord(flagsWord))); err != nil {
		return fmt.Errorf("ols: set flags: %w", err)
	}

	priv.receiver = NewReceiver(priv.groups, priv.limit, priv.rle)

	sess.Send(inst, datafeed.Header{FeedVersion: 1, StartTime: time.Now()})
	sess.Send(inst, datafeed.MetaLogic{NumProbes: len(inst.Probes), SampleRate: prog.Effective})

	if _, err := priv.port.Write([]byte{cmdRun}); err != nil {
		return fmt.Errorf("ols: run: %w", err)
	}

	sess.SourceAdd(priv.port, session.EventReadable, session.Infinite, d.makeReceiveCallback(inst, priv, sizing), nil)
	return nil
}

// DevAcquisitionStop requests the engine flush and terminate; the
// receive callback itself emits End and removes its source once the
// device goes silent, so this only needs to act if still pending: it
// then flushes the samples received so far and emits End itself.
func (d *Driver) DevAcquisitionStop(inst *instrument.Instance, cbData any) error {
	priv, ok := inst.Private.(*devicePrivate)
	if !ok {
		return driver.ErrBug
	}
	inst.Status = instrument.StatusStopping
	if priv.sess == nil || priv.port == nil || priv.receiver == nil {
		return nil
	}
	if err := priv.sess.SourceRemove(priv.port); err != nil {
		return nil // already finished: End was sent by the receive callback
	}
	maxSamples := priv.profile.SampleMemory
	if maxSamples == 0 {
		maxSamples = priv.limit * 4
	}
	d.finishAcquisition(inst, priv, ComputeCaptureSizing(maxSamples, priv.numGroups, priv.limit, priv.captureRat, priv.hasTrigger, priv.trigger.NumStages))
	return nil
}

func (d *Driver) makeReceiveCallback(inst *instrument.Instance, priv *devicePrivate, sizing CaptureSizing) session.Callback {
	first := true
	return func(ctx any, ready session.Events) (bool, error) {
		if ready&session.EventReadable == 0 {
			// Silence timed out: the acquisition is complete.
			d.finishAcquisition(inst, priv, sizing)
			return false, nil
		}

		var buf [256]byte
		n, err := priv.port.Read(buf[:])
		if err != nil {
			d.log.Error("ols: transport read failed", "err", err)
			d.emitEndAndRemove(inst, priv)
			return false, err
		}
		for i := 0; i < n; i++ {
			priv.receiver.Feed(buf[i])
		}
		if first && n > 0 {
			first = false
			if err := priv.sess.Rearm(priv.port, 30); err != nil {
				d.log.Error("ols: rearm silence timeout failed", "err", err)
			}
		}
		return true, nil
	}
}

func (d *Driver) finishAcquisition(inst *instrument.Instance, priv *devicePrivate, sizing CaptureSizing) {
	logic := priv.receiver.Logic()
	if priv.hasTrigger && sizing.TriggerAt >= 0 {
		triggerByte := int(sizing.TriggerAt) * 4
		if triggerByte > len(logic) {
			triggerByte = len(logic)
		}
		priv.sess.Send(inst, datafeed.Logic{Unitsize: datafeed.Unitsize4, Samples: logic[:triggerByte]})
		priv.sess.Send(inst, datafeed.Trigger{})
		priv.sess.Send(inst, datafeed.Logic{Unitsize: datafeed.Unitsize4, Samples: logic[triggerByte:]})
	} else {
		priv.sess.Send(inst, datafeed.Logic{Unitsize: datafeed.Unitsize4, Samples: logic})
	}
	d.emitEndAndRemove(inst, priv)
}

func (d *Driver) emitEndAndRemove(inst *instrument.Instance, priv *devicePrivate) {
	priv.sess.Send(inst, datafeed.End{})
	_ = priv.sess.SourceRemove(priv.port)
	if priv.port != nil {
		priv.port.Close()
	}
	inst.Status = instrument.StatusInactive
}
