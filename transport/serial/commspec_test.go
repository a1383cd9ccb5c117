package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    CommSpec
		wantErr bool
	}{
		{"canonical example from spec", "9600/8n1", CommSpec{9600, 8, ParityNone, 1}, false},
		{"even parity two stop bits", "115200/7e2", CommSpec{115200, 7, ParityEven, 2}, false},
		{"odd parity", "4800/8o1", CommSpec{4800, 8, ParityOdd, 1}, false},
		{"missing slash", "9600", CommSpec{}, true},
		{"bad baud", "abc/8n1", CommSpec{}, true},
		{"bad databits", "9600/9n1", CommSpec{}, true},
		{"bad parity letter", "9600/8x1", CommSpec{}, true},
		{"bad stopbits", "9600/8n3", CommSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommSpecRoundTrip(t *testing.T) {
	spec := "19200/8n1"
	parsed, err := ParseCommSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, spec, parsed.String())
}
