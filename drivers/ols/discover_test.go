package ols

import (
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	"github.com/wk2xx/scopecore/instrument"
)

// TestDiscoverNoMetadata is an end-to-end scenario: the transport
// answers ID with "1SLO" and never answers METADATA.
func TestDiscoverNoMetadata(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	go func() {
		buf := make([]byte, 1)
		resets := 0
		for resets < 5 {
			if _, err := slave.Read(buf); err != nil {
				return
			}
			resets++
		}
		// ID request.
		if _, err := slave.Read(buf); err != nil {
			return
		}
		slave.Write([]byte("1SLO"))
		// METADATA request arrives but we never answer it.
		slave.Read(buf)
	}()

	profile, err := Discover(master, nil)
	require.NoError(t, err)
	require.Equal(t, "Sump", profile.Vendor)
	require.Equal(t, "Logic Analyzer", profile.Model)
	require.Equal(t, GenericSumpProbeCount, profile.ProbeCount)

	probes := instrument.NewLogicProbes(profile.ProbeCount)
	require.Len(t, probes, 32)
	require.Equal(t, "0", probes[0].Name)
	require.Equal(t, "31", probes[31].Name)
}

// TestDiscoverWithMetadata is another end-to-end scenario: a device name string
// token followed by a sample-memory u32 token, then the terminator.
func TestDiscoverWithMetadata(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	metadata := []byte{
		0x01, 'D', 'E', 'V', 0x00, // type 0 token 1: device name "DEV"
		0x21, 0x00, 0x00, 0x00, 0x20, // type 1 token 1: sample memory = 0x20
		0x00, // terminator
	}

	go func() {
		buf := make([]byte, 1)
		for i := 0; i < 5; i++ {
			if _, err := slave.Read(buf); err != nil {
				return
			}
		}
		if _, err := slave.Read(buf); err != nil { // ID
			return
		}
		slave.Write([]byte("1SLO"))
		if _, err := slave.Read(buf); err != nil { // METADATA
			return
		}
		slave.Write(metadata)
	}()

	profile, err := Discover(master, nil)
	require.NoError(t, err)
	require.Contains(t, profile.Model, "DEV")
	require.Equal(t, uint32(32), profile.SampleMemory)
}
