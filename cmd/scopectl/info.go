package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/instrument"
)

var infoNames = map[driver.InfoID]string{
	driver.InfoSupportedOptions:      "supported-options",
	driver.InfoSupportedCapabilities: "supported-capabilities",
	driver.InfoProbeCount:            "probe-count",
	driver.InfoProbeNames:            "probe-names",
	driver.InfoSamplerates:           "samplerates",
	driver.InfoTriggerAlphabet:       "trigger-alphabet",
	driver.InfoCurrentSamplerate:     "current-samplerate",
	driver.InfoPatterns:              "patterns",
	driver.InfoBufferSizes:           "buffer-sizes",
	driver.InfoTimeBases:             "time-bases",
	driver.InfoTriggerSources:        "trigger-sources",
	driver.InfoFilters:               "filters",
	driver.InfoVDivs:                 "vdivs",
	driver.InfoCoupling:              "coupling",
}

// infoOrder fixes iteration order so output is stable across runs.
var infoOrder = []driver.InfoID{
	driver.InfoSupportedOptions,
	driver.InfoSupportedCapabilities,
	driver.InfoProbeCount,
	driver.InfoProbeNames,
	driver.InfoSamplerates,
	driver.InfoTriggerAlphabet,
	driver.InfoCurrentSamplerate,
	driver.InfoPatterns,
	driver.InfoBufferSizes,
	driver.InfoTimeBases,
	driver.InfoTriggerSources,
	driver.InfoFilters,
	driver.InfoVDivs,
	driver.InfoCoupling,
}

// runInfo prints every driver-global InfoGet answer, then scans for
// the first reachable instrument (if any) and prints its per-device
// answers too. Queries a driver doesn't support are reported, not
// treated as fatal: InfoGet is free to return an error for
// anything it doesn't track.
func runInfo(ctx context.Context, drv driver.Driver, opts driver.ScanOptions) error {
	fmt.Println("driver-global:")
	printInfo(drv, nil)

	found, err := drv.Scan(ctx, opts)
	if err != nil {
		return fmt.Errorf("info: scan: %w", err)
	}
	if len(found) == 0 {
		fmt.Println("\nno instruments found for per-device info")
		return nil
	}

	inst := found[0]
	if err := drv.DevOpen(ctx, inst); err != nil {
		return fmt.Errorf("info: open %s %s: %w", inst.Vendor, inst.Model, err)
	}
	defer drv.DevClose(inst)

	fmt.Printf("\n%s %s:\n", inst.Vendor, inst.Model)
	printInfo(drv, inst)
	return nil
}

func printInfo(drv driver.Driver, inst *instrument.Instance) {
	for _, id := range infoOrder {
		value, err := drv.InfoGet(id, inst)
		name := infoNames[id]
		if err != nil {
			if errors.Is(err, driver.ErrArg) {
				fmt.Printf("  %-24s (not supported)\n", name)
				continue
			}
			fmt.Printf("  %-24s error: %v\n", name, err)
			continue
		}
		fmt.Printf("  %-24s %v\n", name, value)
	}
}
