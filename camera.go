//////////////////////////////////////////////////////////////////////////////
//
// Camera defines the capability set required from a capture device
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package uvcam

import "time"

// PixelFormat is the capture device's internal pixel encoding.
type PixelFormat int

const (
	PixelFormatJPEG PixelFormat = iota + 1
	PixelFormatYUV422
	PixelFormatGrayscale
	PixelFormatRGB565
)

func (pf PixelFormat) String() string {
	switch pf {
	case PixelFormatJPEG:
		return "JPEG"
	case PixelFormatYUV422:
		return "YUV422"
	case PixelFormatGrayscale:
		return "GRAYSCALE"
	case PixelFormatRGB565:
		return "RGB565"
	}
	return "UNKNOWN"
}

// FrameSize is the capture device's frame size class.
type FrameSize int

const (
	FrameSizeQVGA FrameSize = iota // 320x240
	FrameSizeHVGA                  // 480x320
	FrameSizeVGA                   // 640x480
	FrameSizeSVGA                  // 800x600
	FrameSizeHD                    // 1280x720
	FrameSizeFHD                   // 1920x1080
)

var frameSizeNames = []string{"QVGA", "HVGA", "VGA", "SVGA", "HD", "FHD"}

var frameSizeDims = [][2]int{
	{320, 240},
	{480, 320},
	{640, 480},
	{800, 600},
	{1280, 720},
	{1920, 1080},
}

func (fs FrameSize) String() string {
	if fs < 0 || int(fs) >= len(frameSizeNames) {
		return "INVALID"
	}
	return frameSizeNames[fs]
}

// Dimensions returns the pixel width and height of the frame size class.
func (fs FrameSize) Dimensions() (width, height int) {
	if fs < 0 || int(fs) >= len(frameSizeDims) {
		return 0, 0
	}
	return frameSizeDims[fs][0], frameSizeDims[fs][1]
}

// CameraConfig is the device configuration derived from a negotiated stream
// request. Comparable: two configurations are interchangeable iff they are
// equal.
type CameraConfig struct {
	ClockFreq   uint32 // Sensor clock (XCLK) frequency, in Hz
	PixelFormat PixelFormat
	FrameSize   FrameSize
	Quality     int // JPEG quality; lower is better
	BufferCount int // Number of capture buffers
}

// Frame is one capture result. The pixel data belongs to the device until
// the frame is handed back via Camera.Release.
type Frame struct {
	Data        []byte
	Width       int
	Height      int
	PixelFormat PixelFormat
	Timestamp   time.Time
}

// Camera is the producer-side capability set. Implementations are not
// expected to be safe for concurrent use; the session serializes all calls.
type Camera interface {
	// Init configures and starts the device. After a successful Init the
	// device is capturing and Sensor is valid.
	Init(cfg CameraConfig) error

	// Deinit stops the device and releases its resources. The device must
	// not hold any outstanding frames when called; see ReturnAll.
	Deinit() error

	// ReturnAll forces the device to take back all outstanding frames.
	ReturnAll()

	// Acquire returns the next captured frame, or nil if none is available
	// yet.
	Acquire() *Frame

	// Release hands a frame obtained from Acquire back to the device.
	Release(*Frame)

	// Sensor returns the active sensor. Valid only after a successful Init.
	Sensor() Sensor
}

// SensorControl identifies a corrective sensor setting.
type SensorControl int

const (
	ControlVFlip SensorControl = iota
	ControlHMirror
	ControlBrightness
	ControlSaturation
)

func (c SensorControl) String() string {
	switch c {
	case ControlVFlip:
		return "vflip"
	case ControlHMirror:
		return "hmirror"
	case ControlBrightness:
		return "brightness"
	case ControlSaturation:
		return "saturation"
	}
	return "unknown"
}

// SensorVariant identifies the sensor model behind the capture device.
// Values follow the sensor product IDs.
type SensorVariant uint16

const (
	SensorUnknown SensorVariant = 0
	SensorOV2640  SensorVariant = 0x26
	SensorGC0308  SensorVariant = 0x9b
	SensorOV3660  SensorVariant = 0x3660
	SensorGC032A  SensorVariant = 0x232a
)

func (v SensorVariant) String() string {
	switch v {
	case SensorOV2640:
		return "OV2640"
	case SensorOV3660:
		return "OV3660"
	case SensorGC0308:
		return "GC0308"
	case SensorGC032A:
		return "GC032A"
	}
	return "unknown sensor"
}

// Sensor exposes the per-sensor controls the quirk adjuster needs.
type Sensor interface {
	// Variant returns the identity of the active sensor.
	Variant() SensorVariant

	// Supports reports whether the sensor can actually deliver the given
	// pixel encoding. Checked after Init; an initialized device that cannot
	// deliver the negotiated encoding is unusable.
	Supports(PixelFormat) bool

	// SetControl applies a corrective setting.
	SetControl(ctrl SensorControl, value int) error
}
