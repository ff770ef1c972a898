//////////////////////////////////////////////////////////////////////////////
//
// Session bridges a capture device to a streaming transport
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

// Package uvcam bridges a frame-producing capture device to a frame-consuming
// streaming transport. The transport negotiates format, resolution and rate
// through Session.OnStart, then pulls frames with AcquireFrame/ReleaseFrame.
// The session owns all negotiation and device-configuration state; it performs
// no locking and relies on the transport to serialize its calls.
package uvcam

import (
	"github.com/pkg/errors"
)

// Defaults mirroring the reference hardware configuration.
const (
	DefaultMaxFrameSize = 60 * 1024 // transport buffer capacity, in bytes
	DefaultClockFreq    = 20000000  // sensor XCLK, in Hz
	DefaultBufferCount  = 2
)

// State is the session's streaming state.
type State int

const (
	StateIdle State = iota
	StateStreaming
)

// Negotiated records the most recently requested stream parameters. It is
// written on every start request that names a supported format, even when
// the request subsequently fails, so diagnostics always reflect what the
// transport last asked for.
type Negotiated struct {
	Format   Format
	Width    int
	Height   int
	FPS      int
	Interval uint32 // frame duration, in 100ns units
}

// StreamHandler is the inbound callback set a streaming transport drives.
// Calls must be serialized: OnStart completes before the first AcquireFrame,
// and AcquireFrame/ReleaseFrame strictly alternate.
type StreamHandler interface {
	OnStart(format Format, width, height, fps int) error
	OnStop()
	AcquireFrame() *FrameView
	ReleaseFrame(*FrameView)
}

// SessionConfig configures a Session. Camera is required; zero values for
// the remaining fields select the defaults above.
type SessionConfig struct {
	Camera       Camera
	MaxFrameSize int    // largest frame the transport can carry
	ClockFreq    uint32 // sensor clock handed to the device on init
	BufferCount  int
}

// Session is the single streaming session between one capture device and one
// transport. Not safe for concurrent use.
type Session struct {
	cam          Camera
	maxFrameSize int
	clockFreq    uint32
	bufferCount  int

	state      State
	negotiated Negotiated

	// Device configuration cache. initialized is true only while the device
	// is actually configured per applied; every failure path clears it.
	initialized bool
	applied     CameraConfig

	slot frameSlot
}

var _ StreamHandler = (*Session)(nil)

// NewSession creates a session for the given capture device.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Camera == nil {
		panic("uvcam: session requires a camera")
	}
	if cfg.MaxFrameSize == 0 {
		cfg.MaxFrameSize = DefaultMaxFrameSize
	}
	if cfg.ClockFreq == 0 {
		cfg.ClockFreq = DefaultClockFreq
	}
	if cfg.BufferCount == 0 {
		cfg.BufferCount = DefaultBufferCount
	}
	return &Session{
		cam:          cfg.Camera,
		maxFrameSize: cfg.MaxFrameSize,
		clockFreq:    cfg.ClockFreq,
		bufferCount:  cfg.BufferCount,
	}
}

// Resolution to frame size class and JPEG quality. Exact match only; there
// is deliberately no nearest-resolution fallback.
var frameSizeForResolution = map[[2]int]struct {
	size    FrameSize
	quality int
}{
	{320, 240}:   {FrameSizeQVGA, 10},
	{480, 320}:   {FrameSizeHVGA, 10},
	{640, 480}:   {FrameSizeVGA, 12},
	{800, 600}:   {FrameSizeSVGA, 14},
	{1280, 720}:  {FrameSizeHD, 16},
	{1920, 1080}: {FrameSizeFHD, 16},
}

// OnStart begins or renegotiates a streaming session. It validates the
// request, records the negotiated parameters, derives the device
// configuration and applies it. A renegotiation while streaming re-runs the
// whole sequence; if the derived configuration differs from the one applied,
// the device is torn down and reinitialized.
func (s *Session) OnStart(format Format, width, height, fps int) error {
	if format != FormatMJPEG {
		return errors.Wrapf(ErrUnsupportedFormat, "%v", format)
	}
	if fps <= 0 {
		return errors.Wrapf(ErrInvalidFrameRate, "%d fps", fps)
	}

	// Record what was requested before attempting to satisfy it, so a
	// failed start still leaves the request visible to diagnostics.
	s.negotiated = Negotiated{
		Format:   format,
		Width:    width,
		Height:   height,
		FPS:      fps,
		Interval: uint32(10000000 / fps),
	}
	log.Info("negotiated: %v %dx%d @%dfps (interval: %d)",
		format, width, height, fps, s.negotiated.Interval)

	m, ok := frameSizeForResolution[[2]int{width, height}]
	if !ok {
		return errors.Wrapf(ErrUnsupportedResolution, "%dx%d", width, height)
	}

	cfg := CameraConfig{
		ClockFreq:   s.clockFreq,
		PixelFormat: PixelFormatJPEG,
		FrameSize:   m.size,
		Quality:     m.quality,
		BufferCount: s.bufferCount,
	}
	if err := s.applyConfig(cfg); err != nil {
		return err
	}

	s.state = StateStreaming
	return nil
}

// OnStop signals the end of the streaming session. Purely a notification:
// the device stays configured so an identical restart is a no-op, and any
// in-flight frame view remains valid until the transport releases it.
func (s *Session) OnStop() {
	log.Info("stream stopped")
	s.state = StateIdle
}

// AcquireFrame pulls the next frame for the transport. Returns nil when no
// frame is available yet; the transport is expected to retry.
func (s *Session) AcquireFrame() *FrameView {
	return s.slot.acquire(s.cam, s.maxFrameSize)
}

// ReleaseFrame hands the current frame view back. The view must be the one
// most recently returned by AcquireFrame.
func (s *Session) ReleaseFrame(view *FrameView) {
	s.slot.release(s.cam, view)
}

// Negotiated returns the most recently recorded stream request.
func (s *Session) Negotiated() Negotiated {
	return s.negotiated
}

// State returns the session's streaming state.
func (s *Session) State() State {
	return s.state
}
