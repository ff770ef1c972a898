package uvcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuirksOV3660(t *testing.T) {
	sensor := &fakeSensor{variant: SensorOV3660, supports: true}
	applyQuirks(sensor)

	assert.Equal(t, []sensorSetting{
		{ControlVFlip, 1},
		{ControlBrightness, 1},
		{ControlSaturation, -2},
		{ControlVFlip, 1},
	}, sensor.controls)
}

func TestQuirksGC0308(t *testing.T) {
	sensor := &fakeSensor{variant: SensorGC0308, supports: true}
	applyQuirks(sensor)

	assert.Equal(t, []sensorSetting{
		{ControlVFlip, 1},
		{ControlHMirror, 0},
	}, sensor.controls)
}

func TestQuirksUnknownVariant(t *testing.T) {
	sensor := &fakeSensor{variant: SensorUnknown, supports: true}
	applyQuirks(sensor)

	// Only the base correction applies.
	assert.Equal(t, []sensorSetting{{ControlVFlip, 1}}, sensor.controls)
}

func TestQuirkFailureIsNonFatal(t *testing.T) {
	cam := newFakeCamera()
	cam.sensor.variant = SensorOV3660
	cam.sensor.failControl = true
	s := newTestSession(cam)

	// A sensor that rejects its corrections still streams.
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Equal(t, StateStreaming, s.State())
}

func TestQuirksSkippedOnFastPath(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	applied := len(cam.sensor.controls)
	assert.True(t, applied > 0)

	// Identical renegotiation does not touch the device or the sensor.
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Equal(t, applied, len(cam.sensor.controls))
}
