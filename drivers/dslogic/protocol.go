// Package dslogic implements the USB logic-analyzer engine:
// FX2 firmware bootstrap, FPGA bitstream upload, a little-endian
// configuration frame, and multi-transfer streaming with software
// trigger matching.
package dslogic

import "time"

// Control-pipe vendor requests.
const (
	cmdWrReg   uint8 = 0xb0
	cmdConfig  uint8 = 0xb1
	cmdSetting uint8 = 0xb2
	cmdStart   uint8 = 0xb3
)

// Bulk endpoints.
const (
	endpointConfigOut uint8 = 0x02
	endpointStreamIn  uint8 = 0x06
)

// Timing constants.
const (
	maxRenumDelay  = 3000 * time.Millisecond
	fpgaUploadWait = 10 * time.Millisecond
	usbTimeout     = 3000 * time.Millisecond
)

// Bulk transfer sizing.
const (
	bitstreamChunk     = 1 << 20 // 1 MiB, "chunks of up to 1 MiB"
	numSimulTransfers  = 4
	emptyTransferLimit = numSimulTransfers * 2 // "EmptyTransferCount ... >= NUM_SIMUL_TRANSFERS*2"
)

// Device capability ceilings the mode-word and RLE-threshold math is
// expressed against.
const (
	dsMaxLogicSamplerate = 100_000_000
	dsMaxLogicDepth       = 128 * 1024 * 1024
)

// dsCfgStart and dsCfgEnd frame the configuration structure sent over
// the bulk OUT endpoint; they have no meaning beyond letting our own
// encoder and a receiving FPGA image agree on frame boundaries.
const (
	dsCfgStart uint32 = 0xa5a5a5a5
	dsCfgEnd   uint32 = 0x5a5a5a5a
)

// Mode-word bits.
type modeBits uint16

const (
	modeIntTest modeBits = 1 << iota
	modeExtTest
	modeLpbTest
	modeHalf
	modeQuar
	modeStream
	modeClkType
	modeClkEdge
	modeRLE
	modeTriggerEnable
)
