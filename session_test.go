package uvcam

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeSensor struct {
	variant     SensorVariant
	supports    bool
	controls    []sensorSetting
	failControl bool
}

func (s *fakeSensor) Variant() SensorVariant    { return s.variant }
func (s *fakeSensor) Supports(PixelFormat) bool { return s.supports }

func (s *fakeSensor) SetControl(ctrl SensorControl, value int) error {
	s.controls = append(s.controls, sensorSetting{ctrl, value})
	if s.failControl {
		return errors.New("control failure")
	}
	return nil
}

type fakeCamera struct {
	sensor fakeSensor

	initCalls   int
	deinitCalls int
	returnAlls  int
	calls       []string
	initErr     error
	lastConfig  CameraConfig

	pending  []*Frame
	released []*Frame
}

func newFakeCamera() *fakeCamera {
	return &fakeCamera{sensor: fakeSensor{variant: SensorOV2640, supports: true}}
}

func (c *fakeCamera) Init(cfg CameraConfig) error {
	c.initCalls++
	c.calls = append(c.calls, "init")
	c.lastConfig = cfg
	return c.initErr
}

func (c *fakeCamera) Deinit() error {
	c.deinitCalls++
	c.calls = append(c.calls, "deinit")
	return nil
}

func (c *fakeCamera) ReturnAll() {
	c.returnAlls++
	c.calls = append(c.calls, "returnAll")
}

func (c *fakeCamera) Acquire() *Frame {
	if len(c.pending) == 0 {
		return nil
	}
	f := c.pending[0]
	c.pending = c.pending[1:]
	return f
}

func (c *fakeCamera) Release(f *Frame) {
	c.released = append(c.released, f)
	c.calls = append(c.calls, "release")
}

func (c *fakeCamera) Sensor() Sensor { return &c.sensor }

func newTestSession(cam *fakeCamera) *Session {
	return NewSession(SessionConfig{Camera: cam})
}

func TestStartIdempotent(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))

	assert.Equal(t, 1, cam.initCalls)
	assert.Equal(t, 0, cam.deinitCalls)
	assert.Equal(t, 0, cam.returnAlls)
	assert.Equal(t, StateStreaming, s.State())
}

func TestStartReconfiguration(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Nil(t, s.OnStart(FormatMJPEG, 1280, 720, 15))

	// The device must be torn down before it is reinitialized.
	assert.Equal(t, []string{"init", "returnAll", "deinit", "init"}, cam.calls)
	assert.Equal(t, FrameSizeHD, cam.lastConfig.FrameSize)
	assert.Equal(t, 16, cam.lastConfig.Quality)
}

func TestNegotiatedInterval(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	for _, fps := range []int{10, 15, 30, 60} {
		assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, fps))
		assert.EqualValues(t, 10000000/fps, s.Negotiated().Interval)
	}
}

func TestZeroRateRejected(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	err := s.OnStart(FormatMJPEG, 640, 480, 0)
	assert.Equal(t, ErrInvalidFrameRate, errors.Cause(err))
	assert.Equal(t, 0, cam.initCalls)
	assert.Equal(t, Negotiated{}, s.Negotiated())
	assert.Equal(t, StateIdle, s.State())
}

func TestUnsupportedFormat(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	err := s.OnStart(FormatYUY2, 640, 480, 30)
	assert.Equal(t, ErrUnsupportedFormat, errors.Cause(err))
	assert.Equal(t, 0, cam.initCalls)
	// A rejected format is not recorded.
	assert.Equal(t, Negotiated{}, s.Negotiated())
}

func TestUnsupportedResolution(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	err := s.OnStart(FormatMJPEG, 999, 999, 30)
	assert.Equal(t, ErrUnsupportedResolution, errors.Cause(err))
	assert.Equal(t, 0, cam.initCalls)

	// The request is still recorded for diagnostics.
	assert.Equal(t, Negotiated{
		Format:   FormatMJPEG,
		Width:    999,
		Height:   999,
		FPS:      30,
		Interval: 333333,
	}, s.Negotiated())
}

func TestInitFailureNotCached(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	deviceErr := errors.New("sensor probe failed")
	cam.initErr = deviceErr

	err := s.OnStart(FormatMJPEG, 640, 480, 30)
	assert.Equal(t, deviceErr, errors.Cause(err))
	assert.Equal(t, StateIdle, s.State())

	// A failed configuration must not be remembered as applied.
	cam.initErr = nil
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Equal(t, 2, cam.initCalls)
	assert.Equal(t, 0, cam.deinitCalls)
}

func TestEncodingNotSupported(t *testing.T) {
	cam := newFakeCamera()
	cam.sensor.supports = false
	s := newTestSession(cam)

	err := s.OnStart(FormatMJPEG, 640, 480, 30)
	assert.Equal(t, ErrUnsupportedEncoding, errors.Cause(err))

	// The init "succeeded" at the device level, but the session must not
	// treat the device as configured.
	cam.sensor.supports = true
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Equal(t, 2, cam.initCalls)
	assert.Equal(t, 0, cam.deinitCalls)
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))

	f := &Frame{Data: make([]byte, 1000), Width: 640, Height: 480, PixelFormat: PixelFormatJPEG}
	cam.pending = append(cam.pending, f)

	view := s.AcquireFrame()
	if assert.NotNil(t, view) {
		// The view aliases the frame memory, no copy.
		assert.Equal(t, &f.Data[0], &view.Data[0])
		assert.Equal(t, 640, view.Width)
		assert.Equal(t, 480, view.Height)
	}

	s.ReleaseFrame(view)
	assert.Equal(t, []*Frame{f}, cam.released)

	// Slot is empty again; with no pending frames the next pull is empty.
	assert.Nil(t, s.AcquireFrame())
}

func TestOversizeFrameDropped(t *testing.T) {
	cam := newFakeCamera()
	s := NewSession(SessionConfig{Camera: cam, MaxFrameSize: 512})
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))

	big := &Frame{Data: make([]byte, 1000)}
	small := &Frame{Data: make([]byte, 100)}
	cam.pending = append(cam.pending, big, small)

	// Oversize frame goes straight back to the device, no error surfaced.
	assert.Nil(t, s.AcquireFrame())
	assert.Equal(t, []*Frame{big}, cam.released)

	// Streaming continues with the next frame.
	view := s.AcquireFrame()
	assert.NotNil(t, view)
	s.ReleaseFrame(view)
}

func TestReleaseMismatchPanics(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))

	cam.pending = append(cam.pending, &Frame{Data: make([]byte, 100)})
	view := s.AcquireFrame()
	assert.NotNil(t, view)

	assert.Panics(t, func() { s.ReleaseFrame(&FrameView{}) })
	assert.Panics(t, func() { s.ReleaseFrame(nil) })

	// The held frame is still releasable afterwards.
	s.ReleaseFrame(view)
}

func TestAcquireWhileHeldPanics(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))

	cam.pending = append(cam.pending, &Frame{Data: make([]byte, 100)})
	view := s.AcquireFrame()
	assert.NotNil(t, view)

	assert.Panics(t, func() { s.AcquireFrame() })
}

func TestStopMakesNoDeviceCalls(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)
	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))

	n := len(cam.calls)
	s.OnStop()
	assert.Equal(t, n, len(cam.calls))
	assert.Equal(t, StateIdle, s.State())
}

// Full happy-path scenario: negotiate VGA MJPEG, pull one frame, stop.
func TestStartStreamScenario(t *testing.T) {
	cam := newFakeCamera()
	s := newTestSession(cam)

	assert.Nil(t, s.OnStart(FormatMJPEG, 640, 480, 30))
	assert.Equal(t, FrameSizeVGA, cam.lastConfig.FrameSize)
	assert.Equal(t, 12, cam.lastConfig.Quality)
	assert.Equal(t, PixelFormatJPEG, cam.lastConfig.PixelFormat)
	assert.EqualValues(t, DefaultClockFreq, cam.lastConfig.ClockFreq)
	assert.Equal(t, DefaultBufferCount, cam.lastConfig.BufferCount)
	assert.EqualValues(t, 333333, s.Negotiated().Interval)

	cam.pending = append(cam.pending, &Frame{Data: make([]byte, 2048)})
	view := s.AcquireFrame()
	if assert.NotNil(t, view) {
		assert.True(t, len(view.Data) <= DefaultMaxFrameSize)
	}
	s.ReleaseFrame(view)
	assert.Nil(t, s.AcquireFrame())

	n := len(cam.calls)
	s.OnStop()
	assert.Equal(t, n, len(cam.calls))
}
