// Command scopectl drives the acquisition core from the command line:
// scan for instruments, inspect what a driver reports capable, or run
// a bounded acquisition and dump the datafeed to a file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/wk2xx/scopecore/config"
	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "scopectl:", err)
		os.Exit(1)
	}
}

func usage(fs *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "scopectl - drive a scopecore instrument driver from the command line")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  scopectl [flags] scan")
	fmt.Fprintln(os.Stderr, "  scopectl [flags] info")
	fmt.Fprintln(os.Stderr, "  scopectl [flags] acquire")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	fs.PrintDefaults()
}

func run(args []string) error {
	fs := pflag.NewFlagSet("scopectl", pflag.ContinueOnError)
	fs.Usage = func() { usage(fs) }

	driverName := fs.StringP("driver", "D", "ols", "driver to use: ols or dslogic")
	connSpec := fs.StringP("connection", "c", "", "connection spec (e.g. a serial device path); empty means auto-discover")
	commSpec := fs.String("comm-spec", "", "serial comm spec <baud>/<databits><parity><stopbits>, e.g. 115200/8n1")
	configPath := fs.String("config", "", "device profile YAML file; empty uses the built-in defaults")
	samplerate := fs.Uint64P("samplerate", "s", 0, "samplerate in Hz; 0 leaves the driver's default")
	limitSamples := fs.Uint64P("limit-samples", "n", 0, "sample limit; 0 leaves the driver's default")
	output := fs.StringP("output", "o", "", "acquire: file to write the raw Logic sample stream to; empty means stdout")
	logLevel := fs.String("log-level", "info", "debug, info, warn, or error")
	resetChip := fs.String("reset-chip", "", "dslogic only: GPIO chip (e.g. gpiochip0) wired to the device's reset pin; empty disables it")
	resetOffset := fs.Int("reset-offset", 0, "dslogic only: GPIO line offset on --reset-chip")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logging.Init(logging.Options{Level: *logLevel})

	table := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		table = loaded
	}

	if fs.NArg() == 0 {
		usage(fs)
		return fmt.Errorf("missing subcommand")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv, err := newDriver(*driverName, table, *resetChip, *resetOffset)
	if err != nil {
		return err
	}
	if err := drv.Init(ctx); err != nil {
		return err
	}
	defer drv.Cleanup()

	opts := driver.ScanOptions{}
	if *connSpec != "" {
		opts[driver.OptConnectionSpec] = *connSpec
	}
	if *commSpec != "" {
		opts[driver.OptSerialCommSpec] = *commSpec
	}

	switch fs.Arg(0) {
	case "scan":
		return runScan(ctx, drv, opts)
	case "info":
		return runInfo(ctx, drv, opts)
	case "acquire":
		return runAcquire(ctx, drv, opts, acquireOptions{
			driverName:   *driverName,
			samplerate:   *samplerate,
			limitSamples: *limitSamples,
			output:       *output,
		})
	default:
		usage(fs)
		return fmt.Errorf("unknown subcommand %q", fs.Arg(0))
	}
}
