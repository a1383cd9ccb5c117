package dslogic

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk2xx/scopecore/transport/usb/usbfake"
)

func TestUploadBitstreamSendsConfigThenChunks(t *testing.T) {
	dev := usbfake.New(0)
	data := bytes.Repeat([]byte{0xAB}, bitstreamChunk+100)
	r := bytes.NewReader(data)

	var slept time.Duration
	err := UploadBitstream(context.Background(), dev, r, func(d time.Duration) { slept = d })
	require.NoError(t, err)

	assert.Equal(t, fpgaUploadWait, slept)
	require.Len(t, dev.ControlWrites, 1)
	assert.Equal(t, []byte{0, 0, 0}, dev.ControlWrites[0].Data)

	var total int
	for _, w := range dev.BulkWrites {
		total += len(w)
	}
	assert.Equal(t, len(data), total)
}

func TestUploadBitstreamShortWriteIsFatal(t *testing.T) {
	dev := usbfake.New(0)
	dev.ShortWrite = true
	r := bytes.NewReader(bytes.Repeat([]byte{1}, 10))
	err := UploadBitstream(context.Background(), dev, r, func(time.Duration) {})
	assert.Error(t, err)
}
