// +build !linux

package v4l2

import (
	"errors"

	"github.com/honulabs/uvcam"
)

// Camera stub for platforms without V4L2 support.
type Camera struct {
	path string
}

func New(path string) *Camera {
	return &Camera{path: path}
}

func (c *Camera) Init(uvcam.CameraConfig) error {
	return errors.New("v4l2: not supported on this platform")
}

func (c *Camera) Deinit() error         { return nil }
func (c *Camera) ReturnAll()            {}
func (c *Camera) Acquire() *uvcam.Frame { return nil }
func (c *Camera) Release(*uvcam.Frame)  {}
func (c *Camera) Sensor() uvcam.Sensor  { return nil }
