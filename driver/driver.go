// Package driver defines the capability-driven interface every
// hardware backend must honor, independent of transport or
// acquisition engine. A driver is a Go value satisfying the Driver
// interface; driver-private state lives behind the interface rather
// than in a shared void*-style payload.
package driver

import (
	"context"

	"github.com/wk2xx/scopecore/instrument"
)

// InfoID selects what info_get returns.
type InfoID int

const (
	InfoSupportedOptions InfoID = iota
	InfoSupportedCapabilities
	InfoProbeCount
	InfoProbeNames
	InfoSamplerates
	InfoTriggerAlphabet
	InfoCurrentSamplerate
	InfoPatterns
	InfoBufferSizes
	InfoTimeBases
	InfoTriggerSources
	InfoFilters
	InfoVDivs
	InfoCoupling
)

// ConfigKey selects what config_set changes.
type ConfigKey int

const (
	ConfigSamplerate ConfigKey = iota
	ConfigCaptureRatio
	ConfigLimitSamples
	ConfigLimitMsec
	ConfigLimitFrames
	ConfigContinuous
	ConfigRLE
	ConfigTriggerSlope
	ConfigTriggerSource
	ConfigHorizTriggerPos
	ConfigBufferSize
	ConfigTimeBase
	ConfigFilter
	ConfigVDiv
	ConfigCoupling
	ConfigPatternMode
	ConfigSessionFile
	ConfigCaptureFile
	ConfigCaptureUnitSize
	ConfigCaptureNumProbes
)

// MinNumSamples is the smallest limit-samples config_set accepts.
const MinNumSamples = 4

// ScanOptionKey names a recognized scan() option.
type ScanOptionKey int

const (
	OptConnectionSpec ScanOptionKey = iota
	OptSerialCommSpec
	OptModelHint
)

// ScanOptions is the option set passed to scan(); unrecognized keys
// are simply absent from the map rather than erroring, so drivers can
// ignore options meant for other backends.
type ScanOptions map[ScanOptionKey]string

// SamplerateRange describes a (low, high, step) samplerate range, all
// fields nonzero. info_get(samplerates) returns either a
// SamplerateRange or an enumerated list, never both.
type SamplerateRange struct {
	Low, High, Step uint64
}

// AcquisitionCallback receives readiness-driven progress notices from
// dev_acquisition_start/stop; cbData is opaque caller context handed
// back unmodified.
type AcquisitionCallback func(inst *instrument.Instance, cbData any)

// Driver is the capability-driven interface every hardware backend
// honors.
type Driver interface {
	// Init prepares process-wide driver state (e.g. loading a
	// device-profile table). Called once before any other method.
	Init(ctx context.Context) error

	// Cleanup releases process-wide driver state. Called at most
	// once, after every device has been closed.
	Cleanup() error

	// Scan probes for instruments reachable given opts and returns a
	// new device instance for each one found by this call. A device
	// found by an earlier Scan is returned again as a further instance.
	Scan(ctx context.Context, opts ScanOptions) ([]*instrument.Instance, error)

	// DevList returns every instance this driver currently knows
	// about, scanned or not.
	DevList() []*instrument.Instance

	DevOpen(ctx context.Context, inst *instrument.Instance) error
	DevClose(inst *instrument.Instance) error

	// InfoGet answers a capability/metadata query. inst is nil for
	// driver-global queries (e.g. InfoSupportedOptions) and non-nil
	// for per-device queries (e.g. InfoCurrentSamplerate).
	InfoGet(id InfoID, inst *instrument.Instance) (any, error)

	// ConfigSet applies one configuration value. Rejected
	// configuration returns an error and leaves prior
	// configuration untouched, except that a rejected capture ratio
	// resets the ratio to 0.
	ConfigSet(inst *instrument.Instance, key ConfigKey, value any) error

	DevAcquisitionStart(ctx context.Context, inst *instrument.Instance, cbData any) error
	DevAcquisitionStop(inst *instrument.Instance, cbData any) error
}
