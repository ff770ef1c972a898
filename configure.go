//////////////////////////////////////////////////////////////////////////////
//
// Device configuration cache
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package uvcam

import (
	"github.com/pkg/errors"
)

// applyConfig brings the capture device to the given configuration. Applying
// the configuration already in effect is a no-op. A differing configuration
// tears the device down first; initializing a still-active device is
// undefined and must never happen.
func (s *Session) applyConfig(cfg CameraConfig) error {
	if s.initialized && cfg == s.applied {
		log.Debug("camera already configured")
		return nil
	}
	if s.initialized {
		s.cam.ReturnAll()
		if err := s.cam.Deinit(); err != nil {
			log.Warn("camera deinit: %v", err)
		}
		s.initialized = false
		log.Info("camera restart")
	}

	if err := s.cam.Init(cfg); err != nil {
		return errors.Wrap(err, "camera init")
	}

	sensor := s.cam.Sensor()
	if !sensor.Supports(cfg.PixelFormat) {
		// The device call succeeded but the sensor cannot deliver the
		// negotiated encoding; an initialized-but-wrong device is not a
		// usable state.
		log.Error("%v format is not supported", cfg.PixelFormat)
		return errors.Wrapf(ErrUnsupportedEncoding, "%v", cfg.PixelFormat)
	}

	applyQuirks(sensor)

	s.applied = cfg
	s.initialized = true
	return nil
}
