package discovery

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnumerateSerial exercises the real udev socket, so it only runs
// where one exists (CI under a Linux runner with SCOPECORE_UDEV_TESTS
// set); elsewhere udev.Udev{} has nothing to dial and the test would
// just be asserting on absent hardware.
func TestEnumerateSerial(t *testing.T) {
	if os.Getenv("SCOPECORE_UDEV_TESTS") == "" {
		t.Skip("set SCOPECORE_UDEV_TESTS=1 to run against the real udev socket")
	}
	nodes, err := EnumerateSerial(context.Background())
	require.NoError(t, err)
	for _, n := range nodes {
		require.NotEmpty(t, n)
	}
}

func TestEnumerateSerialRespectsCanceledContext(t *testing.T) {
	if os.Getenv("SCOPECORE_UDEV_TESTS") == "" {
		t.Skip("set SCOPECORE_UDEV_TESTS=1 to run against the real udev socket")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EnumerateSerial(ctx)
	// Either udev returns quickly enough that ctx.Err() is observed
	// mid-scan, or the scan finishes before the next check; both are
	// acceptable, we only require no panic.
	_ = err
}
