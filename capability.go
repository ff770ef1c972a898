//////////////////////////////////////////////////////////////////////////////
//
// Capability catalog advertised to the streaming transport
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package uvcam

import "fmt"

// Format is the transport-side stream encoding.
type Format int

const (
	FormatMJPEG Format = iota + 1
	FormatYUY2
	FormatNV12
	FormatGray8
)

func (f Format) String() string {
	switch f {
	case FormatMJPEG:
		return "MJPEG"
	case FormatYUY2:
		return "YUY2"
	case FormatNV12:
		return "NV12"
	case FormatGray8:
		return "GRAY8"
	}
	return "UNKNOWN"
}

// FrameCapability is one advertised frame combination. Interval is the frame
// duration in 100-nanosecond units and must equal 10,000,000 divided by FPS;
// catalog authors are responsible for keeping the two consistent.
type FrameCapability struct {
	Width    int
	Height   int
	FPS      int
	Interval uint32
}

func (fc FrameCapability) String() string {
	return fmt.Sprintf("%d x %d @%dfps (interval: %d)", fc.Width, fc.Height, fc.FPS, fc.Interval)
}

// FormatCapability groups the advertised frames of one stream format.
type FormatCapability struct {
	Format Format
	Frames []FrameCapability
}

// DefaultCapabilities is the static capability table consumed by the
// transport when it builds its streaming descriptors. Read-only.
var DefaultCapabilities = []FormatCapability{
	{
		Format: FormatMJPEG,
		Frames: []FrameCapability{
			{640, 480, 30, 333333}, // VGA 30fps, the default
			{320, 240, 30, 333333},
			{480, 320, 30, 333333},
			{1280, 720, 15, 666666},
		},
	},
}
