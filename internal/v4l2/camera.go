//////////////////////////////////////////////////////////////////////////////
//
// V4L2 capture device behind the uvcam.Camera interface
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

// Video4Linux2 is a Linux-specific API. Only build if GOOS=linux.
// +build linux

package v4l2

import (
	"strings"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/honulabs/uvcam"
	"github.com/honulabs/uvcam/internal/logging"
)

var log = logging.DefaultLogger.WithTag("v4l2")

// Camera adapts a V4L2 capture device to the uvcam.Camera interface. Frames
// are memory-mapped driver buffers handed out without copying; releasing a
// frame re-enqueues its buffer with the driver.
type Camera struct {
	path string

	fd    int
	mmaps [][]byte

	width, height int
	pixelFormat   uvcam.PixelFormat
	actualFourcc  uint32
	variant       uvcam.SensorVariant

	// Dequeued buffers currently held outside the driver, keyed by the
	// frame handed out for them.
	outstanding map[*uvcam.Frame]uint32

	inited bool
}

// New prepares a camera for the given device path, usually /dev/video0.
// The device is not opened until Init.
func New(path string) *Camera {
	return &Camera{path: path, fd: -1}
}

func fourccFor(pf uvcam.PixelFormat) uint32 {
	switch pf {
	case uvcam.PixelFormatJPEG:
		return V4L2_PIX_FMT_MJPEG
	case uvcam.PixelFormatYUV422:
		return V4L2_PIX_FMT_YUYV
	case uvcam.PixelFormatGrayscale:
		return V4L2_PIX_FMT_GREY
	case uvcam.PixelFormatRGB565:
		return V4L2_PIX_FMT_RGB565
	}
	return 0
}

func (c *Camera) ioctl(request uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(c.fd),
		uintptr(request),
		uintptr(arg),
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// Init opens and configures the device, maps its capture buffers and starts
// streaming. cfg.ClockFreq has no V4L2 counterpart; the driver owns the
// sensor clock.
func (c *Camera) Init(cfg uvcam.CameraConfig) error {
	if c.inited {
		return errors.New("device already initialized")
	}

	fd, err := unix.Open(c.path, unix.O_RDWR|unix.O_NONBLOCK, 0666)
	if err != nil {
		return errors.Wrapf(err, "open %s", c.path)
	}
	c.fd = fd

	if err := c.setup(cfg); err != nil {
		c.teardown()
		return err
	}
	c.inited = true
	return nil
}

func (c *Camera) setup(cfg uvcam.CameraConfig) error {
	var caps v4l2_capability
	if err := c.ioctl(VIDIOC_QUERYCAP, unsafe.Pointer(&caps)); err != nil {
		return errors.Wrap(err, "query capabilities")
	}
	const required = V4L2_CAP_VIDEO_CAPTURE | V4L2_CAP_STREAMING
	if caps.capabilities&required != required {
		return errors.Errorf("%s does not support streaming capture", c.path)
	}
	c.variant = variantFromName(cstr(caps.card[:]))
	log.Debug("opened %s: %s", c.path, cstr(caps.card[:]))

	c.width, c.height = cfg.FrameSize.Dimensions()
	c.pixelFormat = cfg.PixelFormat
	if err := c.setFormat(cfg); err != nil {
		return err
	}

	if cfg.PixelFormat == uvcam.PixelFormatJPEG {
		// The config quality counts down toward better; V4L2 counts up.
		q := int32(100 - cfg.Quality)
		if err := c.setControlRaw(V4L2_CID_JPEG_COMPRESSION_QUALITY, q); err != nil {
			log.Debug("jpeg quality control not supported: %v", err)
		}
	}

	if err := c.setupBuffers(cfg.BufferCount); err != nil {
		return err
	}

	typ := uint32(V4L2_BUF_TYPE_VIDEO_CAPTURE)
	if err := c.ioctl(VIDIOC_STREAMON, unsafe.Pointer(&typ)); err != nil {
		return errors.Wrap(err, "stream on")
	}
	return nil
}

// setFormat negotiates frame size and pixel format with the driver. The
// driver is free to substitute a format it can deliver; the substitution is
// recorded and surfaced through Supports.
func (c *Camera) setFormat(cfg uvcam.CameraConfig) error {
	var format v4l2_format
	format.typ = V4L2_BUF_TYPE_VIDEO_CAPTURE

	pix := (*v4l2_pix_format)(unsafe.Pointer(&format.raw[0]))
	pix.width = uint32(c.width)
	pix.height = uint32(c.height)
	pix.pixelformat = fourccFor(cfg.PixelFormat)
	pix.field = V4L2_FIELD_ANY

	if err := c.ioctl(VIDIOC_S_FMT, unsafe.Pointer(&format)); err != nil {
		return errors.Wrap(err, "set format")
	}
	c.actualFourcc = pix.pixelformat
	return nil
}

// setupBuffers requests driver buffers, maps each into process memory and
// enqueues them all.
func (c *Camera) setupBuffers(count int) error {
	rb := v4l2_requestbuffers{
		count:  uint32(count),
		typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
		memory: V4L2_MEMORY_MMAP,
	}
	if err := c.ioctl(VIDIOC_REQBUFS, unsafe.Pointer(&rb)); err != nil {
		return errors.Wrap(err, "request buffers")
	}
	if rb.count == 0 {
		return errors.New("driver granted no buffers")
	}

	for i := uint32(0); i < rb.count; i++ {
		qb := v4l2_buffer{
			index:  i,
			typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
			memory: V4L2_MEMORY_MMAP,
		}
		if err := c.ioctl(VIDIOC_QUERYBUF, unsafe.Pointer(&qb)); err != nil {
			return errors.Wrapf(err, "query buffer %d", i)
		}
		offset := nativeEndian.Uint32(qb.m[0:4])

		mm, err := unix.Mmap(
			c.fd,
			int64(offset),
			int(qb.length),
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_SHARED,
		)
		if err != nil {
			return errors.Wrapf(err, "mmap buffer %d", i)
		}
		c.mmaps = append(c.mmaps, mm)

		if err := c.enqueue(i); err != nil {
			return errors.Wrapf(err, "enqueue buffer %d", i)
		}
	}

	c.outstanding = make(map[*uvcam.Frame]uint32)
	return nil
}

func (c *Camera) enqueue(index uint32) error {
	buf := v4l2_buffer{
		index:  index,
		typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
		memory: V4L2_MEMORY_MMAP,
	}
	return c.ioctl(VIDIOC_QBUF, unsafe.Pointer(&buf))
}

// Deinit stops streaming, unmaps the buffers and closes the device.
func (c *Camera) Deinit() error {
	if !c.inited {
		return nil
	}
	c.inited = false
	return c.teardown()
}

func (c *Camera) teardown() error {
	var first error

	typ := uint32(V4L2_BUF_TYPE_VIDEO_CAPTURE)
	if err := c.ioctl(VIDIOC_STREAMOFF, unsafe.Pointer(&typ)); err != nil && first == nil {
		first = errors.Wrap(err, "stream off")
	}

	for _, mm := range c.mmaps {
		if err := unix.Munmap(mm); err != nil && first == nil {
			first = err
		}
	}
	c.mmaps = nil
	c.outstanding = nil

	// Release the driver buffers.
	rb := v4l2_requestbuffers{
		typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
		memory: V4L2_MEMORY_MMAP,
	}
	c.ioctl(VIDIOC_REQBUFS, unsafe.Pointer(&rb))

	if err := unix.Close(c.fd); err != nil && first == nil {
		first = err
	}
	c.fd = -1
	return first
}

// ReturnAll re-enqueues every buffer currently held outside the driver.
func (c *Camera) ReturnAll() {
	for f, index := range c.outstanding {
		if err := c.enqueue(index); err != nil {
			log.Warn("requeue buffer %d: %v", index, err)
		}
		delete(c.outstanding, f)
	}
}

// Acquire dequeues the next filled buffer. Returns nil if no frame is ready.
func (c *Camera) Acquire() *uvcam.Frame {
	if !c.inited {
		return nil
	}

	var buf v4l2_buffer
	buf.typ = V4L2_BUF_TYPE_VIDEO_CAPTURE
	buf.memory = V4L2_MEMORY_MMAP
	if err := c.ioctl(VIDIOC_DQBUF, unsafe.Pointer(&buf)); err != nil {
		if err != unix.EAGAIN {
			log.Warn("dequeue: %v", err)
		}
		return nil
	}

	f := &uvcam.Frame{
		Data:        c.mmaps[buf.index][:buf.bytesused],
		Width:       c.width,
		Height:      c.height,
		PixelFormat: c.pixelFormat,
		Timestamp:   time.Unix(int64(buf.tv_sec), int64(buf.tv_usec)*1000),
	}
	c.outstanding[f] = buf.index
	return f
}

// Release hands a frame's buffer back to the driver.
func (c *Camera) Release(f *uvcam.Frame) {
	index, ok := c.outstanding[f]
	if !ok {
		panic("v4l2: released frame is not outstanding")
	}
	delete(c.outstanding, f)
	if err := c.enqueue(index); err != nil {
		log.Warn("requeue buffer %d: %v", index, err)
	}
}

// Sensor returns the sensor control surface. Valid after a successful Init.
func (c *Camera) Sensor() uvcam.Sensor {
	return c
}

// Variant reports the sensor model, matched from the driver's card name.
func (c *Camera) Variant() uvcam.SensorVariant {
	return c.variant
}

// Supports reports whether the driver accepted the requested pixel encoding
// rather than substituting another.
func (c *Camera) Supports(pf uvcam.PixelFormat) bool {
	return fourccFor(pf) == c.actualFourcc
}

// SetControl applies a corrective sensor setting. Flip and mirror pass
// through as booleans; brightness and saturation arrive as small signed
// steps away from the sensor default and are scaled onto the driver's
// reported control range.
func (c *Camera) SetControl(ctrl uvcam.SensorControl, value int) error {
	switch ctrl {
	case uvcam.ControlVFlip:
		return c.setControlRaw(V4L2_CID_VFLIP, int32(value))
	case uvcam.ControlHMirror:
		return c.setControlRaw(V4L2_CID_HFLIP, int32(value))
	case uvcam.ControlBrightness:
		return c.setControlScaled(V4L2_CID_BRIGHTNESS, value)
	case uvcam.ControlSaturation:
		return c.setControlScaled(V4L2_CID_SATURATION, value)
	}
	return errors.Errorf("unknown control %v", ctrl)
}

// setControlScaled maps a correction given in eighths of the control range
// onto the driver's min/max, anchored at the default value.
func (c *Camera) setControlScaled(id uint32, steps int) error {
	qc := v4l2_queryctrl{id: id}
	if err := c.ioctl(VIDIOC_QUERYCTRL, unsafe.Pointer(&qc)); err != nil {
		return errors.Wrapf(err, "query control 0x%x", id)
	}

	span := (qc.maximum - qc.minimum) / 8
	if span <= 0 {
		span = qc.step
	}
	v := qc.default_value + int32(steps)*span
	if v < qc.minimum {
		v = qc.minimum
	}
	if v > qc.maximum {
		v = qc.maximum
	}
	return c.setControlRaw(id, v)
}

func (c *Camera) setControlRaw(id uint32, value int32) error {
	ctrl := v4l2_control{id: id, value: value}
	if err := c.ioctl(VIDIOC_S_CTRL, unsafe.Pointer(&ctrl)); err != nil {
		return errors.Wrapf(err, "set control 0x%x", id)
	}
	return nil
}

// cstr converts a NUL-terminated byte array to a string.
func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func variantFromName(name string) uvcam.SensorVariant {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "ov2640"):
		return uvcam.SensorOV2640
	case strings.Contains(n, "ov3660"):
		return uvcam.SensorOV3660
	case strings.Contains(n, "gc0308"):
		return uvcam.SensorGC0308
	case strings.Contains(n, "gc032a"):
		return uvcam.SensorGC032A
	}
	return uvcam.SensorUnknown
}
