// Video4Linux2 is a Linux-specific API. Only build if GOOS=linux.
// +build linux

package v4l2

import (
	"encoding/binary"
	"unsafe"
)

// Constants and struct layouts from linux/videodev2.h. Layouts that embed a
// timeval or a pointer-sized union differ by architecture and live in the
// videodev2_*.go files.

var nativeEndian binary.ByteOrder

func init() {
	x := uint16(1)
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		nativeEndian = binary.LittleEndian
	} else {
		nativeEndian = binary.BigEndian
	}
}

const (
	VIDIOC_QUERYCAP  = 0x80685600
	VIDIOC_REQBUFS   = 0xc0145608
	VIDIOC_STREAMON  = 0x40045612
	VIDIOC_STREAMOFF = 0x40045613
	VIDIOC_QUERYCTRL = 0xc0445624
	VIDIOC_S_CTRL    = 0xc008561c

	V4L2_BUF_TYPE_VIDEO_CAPTURE = 1
	V4L2_MEMORY_MMAP            = 1
	V4L2_FIELD_ANY              = 0

	V4L2_CAP_VIDEO_CAPTURE = 0x00000001
	V4L2_CAP_STREAMING     = 0x04000000

	V4L2_CID_BRIGHTNESS               = 0x00980900
	V4L2_CID_SATURATION               = 0x00980902
	V4L2_CID_HFLIP                    = 0x00980914
	V4L2_CID_VFLIP                    = 0x00980915
	V4L2_CID_JPEG_COMPRESSION_QUALITY = 0x009d0903

	// Pixel formats (little-endian fourcc)
	V4L2_PIX_FMT_MJPEG  = 0x47504a4d // 'MJPG'
	V4L2_PIX_FMT_YUYV   = 0x56595559 // 'YUYV'
	V4L2_PIX_FMT_GREY   = 0x59455247 // 'GREY'
	V4L2_PIX_FMT_RGB565 = 0x50424752 // 'RGBP'
)

// v4l2_capability has size 104 bytes.
type v4l2_capability struct {
	driver       [16]byte
	card         [32]byte
	bus_info     [32]byte
	version      uint32
	capabilities uint32
	device_caps  uint32
	reserved     [3]uint32
}

// v4l2_pix_format has size 48 bytes and sits at the head of the v4l2_format
// union on every architecture.
type v4l2_pix_format struct {
	width        uint32
	height       uint32
	pixelformat  uint32
	field        uint32
	bytesperline uint32
	sizeimage    uint32
	colorspace   uint32
	priv         uint32
	flags        uint32
	ycbcr_enc    uint32
	quantization uint32
	xfer_func    uint32
}

// v4l2_requestbuffers has size 20 bytes.
type v4l2_requestbuffers struct {
	count    uint32
	typ      uint32
	memory   uint32
	reserved [2]uint32
}

// v4l2_timecode has size 16 bytes.
type v4l2_timecode struct {
	typ      uint32
	flags    uint32
	frames   uint8
	seconds  uint8
	minutes  uint8
	hours    uint8
	userbits [4]uint8
}

// v4l2_control has size 8 bytes.
type v4l2_control struct {
	id    uint32
	value int32
}

// v4l2_queryctrl has size 68 bytes.
type v4l2_queryctrl struct {
	id            uint32
	typ           uint32
	name          [32]byte
	minimum       int32
	maximum       int32
	step          int32
	default_value int32
	flags         uint32
	reserved      [2]uint32
}
