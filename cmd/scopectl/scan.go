package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/wk2xx/scopecore/driver"
)

func runScan(ctx context.Context, drv driver.Driver, opts driver.ScanOptions) error {
	found, err := drv.Scan(ctx, opts)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(found) == 0 {
		fmt.Println("no instruments found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tVENDOR\tMODEL\tVERSION\tPROBES\tTRANSPORT")
	for i, inst := range found {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%v\n", i, inst.Vendor, inst.Model, inst.Version, len(inst.Probes), inst.Transport)
	}
	return tw.Flush()
}
