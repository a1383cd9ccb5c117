package dslogic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk2xx/scopecore/transport/usb/usbfake"
)

func TestUploadFirmwareHaltsThenReleasesCPU(t *testing.T) {
	dev := usbfake.New(0)
	before := time.Now()
	readyAt, err := UploadFirmware(context.Background(), dev, make([]byte, firmwareChunk+10), maxRenumDelay)
	require.NoError(t, err)

	require.True(t, len(dev.ControlWrites) >= 3)
	assert.Equal(t, []byte{1}, dev.ControlWrites[0].Data, "first write halts the CPU")
	last := dev.ControlWrites[len(dev.ControlWrites)-1]
	assert.Equal(t, []byte{0}, last.Data, "last write releases the CPU")

	assert.True(t, !readyAt.Before(before.Add(maxRenumDelay)))
}

func TestUploadFirmwareChunks(t *testing.T) {
	dev := usbfake.New(0)
	image := make([]byte, firmwareChunk*2+1)
	_, err := UploadFirmware(context.Background(), dev, image, maxRenumDelay)
	require.NoError(t, err)
	// halt + 3 chunks + release = 5 control writes.
	assert.Len(t, dev.ControlWrites, 5)
}
