package uvcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityIntervalsConsistent(t *testing.T) {
	for _, fc := range DefaultCapabilities {
		for _, fr := range fc.Frames {
			assert.EqualValues(t, 10000000/fr.FPS, fr.Interval,
				"%v %dx%d", fc.Format, fr.Width, fr.Height)
		}
	}
}

func TestCapabilitiesMapToFrameSizes(t *testing.T) {
	// Every advertised combination must survive negotiation.
	for _, fc := range DefaultCapabilities {
		for _, fr := range fc.Frames {
			_, ok := frameSizeForResolution[[2]int{fr.Width, fr.Height}]
			assert.True(t, ok, "%dx%d not mapped", fr.Width, fr.Height)
		}
	}
}

func TestFrameSizeDimensions(t *testing.T) {
	w, h := FrameSizeVGA.Dimensions()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, "VGA", FrameSizeVGA.String())

	w, h = FrameSize(99).Dimensions()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)
}
