// +build linux
// +build 386 arm

package v4l2

import "unsafe"

// Layouts must match the kernel ABI exactly; fail the build if they drift.
var (
	_ [0]struct{} = [unsafe.Sizeof(v4l2_format{}) - 204]struct{}{}
	_ [0]struct{} = [unsafe.Sizeof(v4l2_buffer{}) - 68]struct{}{}
)

const (
	VIDIOC_G_FMT    = 0xc0cc5604
	VIDIOC_S_FMT    = 0xc0cc5605
	VIDIOC_QUERYBUF = 0xc0445609
	VIDIOC_QBUF     = 0xc044560f
	VIDIOC_DQBUF    = 0xc0445611
)

// v4l2_format has size 204 bytes.
type v4l2_format struct {
	typ uint32
	raw [200]byte // union; v4l2_pix_format at offset 0
}

// v4l2_buffer has size 68 bytes.
type v4l2_buffer struct {
	index      uint32
	typ        uint32
	bytesused  uint32
	flags      uint32
	field      uint32
	tv_sec     int32
	tv_usec    int32
	timecode   v4l2_timecode
	sequence   uint32
	memory     uint32
	m          [4]byte // union; mmap offset in m[0:4]
	length     uint32
	reserved2  uint32
	request_fd uint32
}
