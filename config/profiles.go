// Package config loads the device-profile tables the OLS and DSLogic
// drivers need at scan time. These are process-wide immutable state
// initialized once at startup, so unlike cmd/scopectl's
// flag parsing they're loaded from a document rather than the command
// line: a fleet deploying scopectl ships one profile file alongside
// the binary instead of recompiling it for a new instrument model.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SumpProfile is the generic-Sump fallback drivers/ols synthesizes
// when METADATA parsing times out.
type SumpProfile struct {
	ProbeCount int    `yaml:"probe_count"`
	ClockHz    uint64 `yaml:"clock_hz"`
}

// VoltageRange is one selectable analog front-end range for a
// dual-range DSLogic variant.
type VoltageRange struct {
	Name     string  `yaml:"name"`
	Bitfile  string  `yaml:"bitfile"`
	RangeLow float64 `yaml:"range_low_v"`
	RangeHi  float64 `yaml:"range_high_v"`
}

// DSLogicModel is one entry in the USB VID/PID-to-bitstream table.
type DSLogicModel struct {
	Model         string         `yaml:"model"`
	VendorID      uint16         `yaml:"vendor_id"`
	ProductID     uint16         `yaml:"product_id"`
	FirmwareFile  string         `yaml:"firmware_file"`
	ProbeCount    int            `yaml:"probe_count"`
	MaxSamplerate uint64         `yaml:"max_samplerate_hz"`
	MaxDepth      uint64         `yaml:"max_depth_samples"`
	// Bitfile names the single bitstream for single-range models;
	// VoltageRanges, when non-empty, names one bitstream per range and
	// Bitfile is ignored.
	Bitfile       string         `yaml:"bitfile"`
	VoltageRanges []VoltageRange `yaml:"voltage_ranges"`
}

// Table is the top-level document shape a profile YAML file carries.
type Table struct {
	Sump    SumpProfile    `yaml:"sump"`
	DSLogic []DSLogicModel `yaml:"dslogic"`
}

// Load parses a profile table from path.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return t, nil
}

// FindDSLogic returns the table entry matching vid/pid, or false.
func (t Table) FindDSLogic(vid, pid uint16) (DSLogicModel, bool) {
	for _, m := range t.DSLogic {
		if m.VendorID == vid && m.ProductID == pid {
			return m, true
		}
	}
	return DSLogicModel{}, false
}

// BitstreamFor resolves the bitstream file name for rangeName ("" for
// single-range models).
func (m DSLogicModel) BitstreamFor(rangeName string) (string, error) {
	if len(m.VoltageRanges) == 0 {
		if m.Bitfile == "" {
			return "", fmt.Errorf("config: model %s has no bitstream configured", m.Model)
		}
		return m.Bitfile, nil
	}
	for _, vr := range m.VoltageRanges {
		if vr.Name == rangeName {
			return vr.Bitfile, nil
		}
	}
	return "", fmt.Errorf("config: model %s has no voltage range %q", m.Model, rangeName)
}

// Default returns the built-in fallback table used when no profile
// file is configured: just the generic-Sump profile drivers/ols
// already knows how to synthesize, and an empty DSLogic table (no
// USB device will firmware-match against it, which is correct until a
// real profile file is supplied).
func Default() Table {
	return Table{
		Sump: SumpProfile{ProbeCount: 32, ClockHz: 100_000_000},
	}
}
