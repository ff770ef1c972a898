//////////////////////////////////////////////////////////////////////////////
//
// Per-sensor-variant corrective settings
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package uvcam

type sensorSetting struct {
	control SensorControl
	value   int
}

// Fresh sensors come up flipped vertically; corrected for every variant.
var baseQuirks = []sensorSetting{
	{ControlVFlip, 1},
}

// Per-variant corrections, applied after the base set. Values are fixed
// recalibrations, not deltas against prior user settings.
var sensorQuirks = map[SensorVariant][]sensorSetting{
	SensorOV3660: {
		{ControlBrightness, 1},  // up the brightness just a bit
		{ControlSaturation, -2}, // colors come out oversaturated
		{ControlVFlip, 1},
	},
	SensorOV2640: {
		{ControlVFlip, 1},
	},
	SensorGC0308: {
		{ControlHMirror, 0},
	},
	SensorGC032A: {
		{ControlVFlip, 1},
	},
}

// applyQuirks applies the fixed corrective settings for the active sensor.
// Runs exactly once per fresh initialization, never on the no-op fast path.
// A failed setting is a cosmetic miscalibration and never fails the
// initialization.
func applyQuirks(sensor Sensor) {
	variant := sensor.Variant()
	log.Info("camera sensor: %v (PID: 0x%x)", variant, uint16(variant))

	apply := func(q sensorSetting) {
		if err := sensor.SetControl(q.control, q.value); err != nil {
			log.Warn("sensor %v: set %v=%d: %v", variant, q.control, q.value, err)
		}
	}
	for _, q := range baseQuirks {
		apply(q)
	}
	for _, q := range sensorQuirks[variant] {
		apply(q)
	}
}
