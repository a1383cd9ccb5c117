package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
sump:
  probe_count: 32
  clock_hz: 100000000
dslogic:
  - model: DSLogic
    vendor_id: 0x2a0e
    product_id: 0x0001
    firmware_file: DSLogic.fw
    probe_count: 16
    max_samplerate_hz: 100000000
    max_depth_samples: 134217728
    bitfile: DSLogic.bin
  - model: DSLogic Plus
    vendor_id: 0x2a0e
    product_id: 0x0020
    firmware_file: DSLogicPlus.fw
    probe_count: 16
    max_samplerate_hz: 400000000
    max_depth_samples: 134217728
    voltage_ranges:
      - name: 5V
        bitfile: DSLogicPlus-5V.bin
        range_low_v: 0
        range_high_v: 5
      - name: 33V
        bitfile: DSLogicPlus-33V.bin
        range_low_v: 0
        range_high_v: 3.3
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadParsesSumpAndDSLogic(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, table.Sump.ProbeCount)
	assert.Len(t, table.DSLogic, 2)
}

func TestFindDSLogicMatchesVidPid(t *testing.T) {
	table, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	m, ok := table.FindDSLogic(0x2a0e, 0x0020)
	require.True(t, ok)
	assert.Equal(t, "DSLogic Plus", m.Model)

	_, ok = table.FindDSLogic(0xffff, 0xffff)
	assert.False(t, ok)
}

func TestBitstreamForSingleRangeModel(t *testing.T) {
	table, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)
	m, _ := table.FindDSLogic(0x2a0e, 0x0001)
	bf, err := m.BitstreamFor("")
	require.NoError(t, err)
	assert.Equal(t, "DSLogic.bin", bf)
}

func TestBitstreamForDualRangeModel(t *testing.T) {
	table, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)
	m, _ := table.FindDSLogic(0x2a0e, 0x0020)

	bf, err := m.BitstreamFor("5V")
	require.NoError(t, err)
	assert.Equal(t, "DSLogicPlus-5V.bin", bf)

	_, err = m.BitstreamFor("unknown")
	assert.Error(t, err)
}

func TestDefaultTableHasGenericSumpOnly(t *testing.T) {
	table := Default()
	assert.Equal(t, 32, table.Sump.ProbeCount)
	assert.Empty(t, table.DSLogic)
}
