package dslogic

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk2xx/scopecore/config"
	"github.com/wk2xx/scopecore/datafeed"
	"github.com/wk2xx/scopecore/driver"
	"github.com/wk2xx/scopecore/instrument"
	"github.com/wk2xx/scopecore/session"
	"github.com/wk2xx/scopecore/transport/usb"
	"github.com/wk2xx/scopecore/transport/usb/usbfake"
)

func testTable() config.Table {
	return config.Table{
		DSLogic: []config.DSLogicModel{
			{
				Model:         "DSLogic",
				VendorID:      0x2a0e,
				ProductID:     0x0001,
				FirmwareFile:  "DSLogic.fw",
				ProbeCount:    8,
				MaxSamplerate: dsMaxLogicSamplerate,
				Bitfile:       "DSLogic.bin",
			},
		},
	}
}

func newTestDriver(fake *usbfake.Device) *Driver {
	open := func(ctx context.Context, vid, pid uint16) (usb.Device, error) { return fake, nil }
	loadFw := func(name string) ([]byte, error) { return []byte{0xde, 0xad, 0xbe, 0xef}, nil }
	loadBit := func(name string) (usb.ResourceReader, error) {
		return bytes.NewReader([]byte{1, 2, 3, 4}), nil
	}
	return New(testTable(), open, loadFw, loadBit)
}

func TestScanRejectsUnknownVidPid(t *testing.T) {
	d := newTestDriver(usbfake.New(0))
	_, err := d.Scan(context.Background(), driver.ScanOptions{driver.OptConnectionSpec: "ffff.ffff"})
	assert.Error(t, err)
}

func TestDevOpenRefusesUntilRenumerationDelayElapses(t *testing.T) {
	fake := usbfake.New(0)
	d := newTestDriver(fake)
	insts, err := d.Scan(context.Background(), driver.ScanOptions{driver.OptConnectionSpec: "2a0e.0001"})
	require.NoError(t, err)

	// Firmware bootstrap runs and then refuses the open (
	// "refuse to open the device until >= MAX_RENUM_DELAY_MS").
	err = d.DevOpen(context.Background(), insts[0])
	require.Error(t, err)
	assert.Equal(t, 0, len(fake.BulkWrites)) // firmware upload is control-only
	assert.NotEmpty(t, fake.ControlWrites)
}

func TestScanMatchesProfileAndDevOpenBootstraps(t *testing.T) {
	fake := usbfake.New(0)
	d := newTestDriver(fake)
	d.renumDelay = 0
	insts, err := d.Scan(context.Background(), driver.ScanOptions{driver.OptConnectionSpec: "2a0e.0001"})
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, "DSLogic", insts[0].Model)

	err = d.DevOpen(context.Background(), insts[0])
	require.NoError(t, err)
	assert.NotEmpty(t, fake.ControlWrites)
}

func TestAcquisitionEndToEndEmitsHeaderLogicEnd(t *testing.T) {
	fake := usbfake.New(0)
	// One transfer's worth of samples (8 enabled probes -> 1 byte/sample).
	fake.StreamChunks = [][]byte{bytes.Repeat([]byte{0x55}, 8)}

	d := newTestDriver(fake)
	d.renumDelay = 0
	insts, err := d.Scan(context.Background(), driver.ScanOptions{driver.OptConnectionSpec: "2a0e.0001"})
	require.NoError(t, err)
	inst := insts[0]
	require.NoError(t, d.DevOpen(context.Background(), inst))
	require.NoError(t, d.ConfigSet(inst, driver.ConfigLimitSamples, uint64(8)))

	sess := session.New()
	var pkts []datafeed.Packet
	sess.DatafeedSubscribe(func(_ *instrument.Instance, pkt datafeed.Packet, _ any) { pkts = append(pkts, pkt) }, nil)

	require.NoError(t, d.DevAcquisitionStart(context.Background(), inst, sess))
	require.NoError(t, sess.Run(context.Background()))

	require.True(t, len(pkts) >= 3)
	_, isHeader := pkts[0].(datafeed.Header)
	assert.True(t, isHeader)
	_, isEnd := pkts[len(pkts)-1].(datafeed.End)
	assert.True(t, isEnd)
}
