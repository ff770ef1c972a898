// +build linux
// +build amd64 arm64

package v4l2

import "unsafe"

// Layouts must match the kernel ABI exactly; fail the build if they drift.
var (
	_ [0]struct{} = [unsafe.Sizeof(v4l2_format{}) - 208]struct{}{}
	_ [0]struct{} = [unsafe.Sizeof(v4l2_buffer{}) - 88]struct{}{}
)

// ioctl numbers encode the argument struct size, so these differ from the
// 32-bit variants.
const (
	VIDIOC_G_FMT    = 0xc0d05604
	VIDIOC_S_FMT    = 0xc0d05605
	VIDIOC_QUERYBUF = 0xc0585609
	VIDIOC_QBUF     = 0xc058560f
	VIDIOC_DQBUF    = 0xc0585611
)

// v4l2_format has size 208 bytes: the union holding the pix format is 8-byte
// aligned, leaving 4 bytes of padding after typ.
type v4l2_format struct {
	typ uint32
	_   uint32
	raw [200]byte // union; v4l2_pix_format at offset 0
}

// v4l2_buffer has size 88 bytes.
type v4l2_buffer struct {
	index      uint32
	typ        uint32
	bytesused  uint32
	flags      uint32
	field      uint32
	_          uint32 // align timestamp to 8
	tv_sec     int64
	tv_usec    int64
	timecode   v4l2_timecode
	sequence   uint32
	memory     uint32
	m          [8]byte // union; mmap offset in m[0:4]
	length     uint32
	reserved2  uint32
	request_fd uint32
	_          uint32
}
