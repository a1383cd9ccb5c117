package dslogic

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wk2xx/scopecore/transport/usb"
	"github.com/wk2xx/scopecore/transport/usb/usbfake"
)

func TestConfigFrameEncodeFramingWords(t *testing.T) {
	f := ConfigFrame{Mode: modeStream, Divider: 1, Count: 8}
	enc := f.Encode()
	require.True(t, len(enc) > 8)
	assert.Equal(t, dsCfgStart, binary.LittleEndian.Uint32(enc[:4]))
	assert.Equal(t, dsCfgEnd, binary.LittleEndian.Uint32(enc[len(enc)-4:]))
	assert.Equal(t, 0, len(enc)%2)
}

func TestConfigFrameSendIssuesSettingThenBulkWrite(t *testing.T) {
	dev := usbfake.New(0)
	f := ConfigFrame{Mode: modeStream, Divider: 1, Count: 8}
	require.NoError(t, f.Send(context.Background(), dev))

	require.Len(t, dev.ControlWrites, 1)
	assert.Equal(t, usb.DirOut, dev.ControlWrites[0].Dir)

	require.Len(t, dev.BulkWrites, 1)
	assert.Equal(t, f.Encode(), dev.BulkWrites[0])
}
