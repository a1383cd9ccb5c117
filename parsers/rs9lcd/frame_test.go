package rs9lcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsGoodChecksum(t *testing.T) {
	f := Frame{0x00, 0x02, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xc0}
	assert.NoError(t, f.Validate())
}

func TestValidateRejectsBadChecksum(t *testing.T) {
	f := Frame{0x00, 0x02, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xc1}
	assert.Error(t, f.Validate())
}

func TestValidateRejectsModeAtOrAboveInvalid(t *testing.T) {
	f := Frame{26, 0, 0, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xd8}
	assert.Error(t, f.Validate())
}

func TestValidateRejectsCombinedKiloMega(t *testing.T) {
	// ind1 = 0x30 sets both IND1_KILO and IND1_MEGA.
	f := Frame{0x00, 0x30, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xee}
	assert.Error(t, f.Validate())
}

func TestValidateRejectsCombinedQuantityBits(t *testing.T) {
	// ind1 = 0x06 sets both IND1_HZ and IND1_OHM.
	f := Frame{0x00, 0x06, 0x00, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xc4}
	assert.Error(t, f.Validate())
}

func TestValidateRejectsCombinedMultiplierAcrossBytes(t *testing.T) {
	// ind1 = 0x10 (KILO), ind2 = 0x01 (MICRO).
	f := Frame{0x00, 0x10, 0x01, 0xd7, 0xd7, 0xd7, 0x00, 0x00, 0xcf}
	assert.Error(t, f.Validate())
}
