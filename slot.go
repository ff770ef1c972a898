//////////////////////////////////////////////////////////////////////////////
//
// Single in-flight frame hand-off between capture device and transport
//
// Copyright 2020 Honu Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package uvcam

import "time"

// FrameView is the transport-facing view of a captured frame. Data aliases
// the device-owned frame memory; no pixel data is copied. The view is valid
// until it is passed back to ReleaseFrame.
type FrameView struct {
	Data        []byte
	Width       int
	Height      int
	PixelFormat PixelFormat
	Timestamp   time.Time

	frame *Frame // backing device frame
}

// frameSlot holds the single in-flight frame. Invariant: at most one frame
// is held at a time, and release must name exactly the view handed out by
// the matching acquire. Violations are caller protocol bugs, not runtime
// conditions, and panic.
type frameSlot struct {
	held *Frame
	view *FrameView
}

// acquire pulls the next frame from the device. Returns nil when the device
// has nothing yet, and also when the frame exceeds maxSize: an oversize
// frame is handed straight back to the device and dropped, since the
// transport buffer can never carry it.
func (slot *frameSlot) acquire(cam Camera, maxSize int) *FrameView {
	if slot.view != nil {
		panic("uvcam: frame acquired before previous view was released")
	}

	f := cam.Acquire()
	if f == nil {
		return nil
	}
	if len(f.Data) > maxSize {
		log.Error("frame size %d exceeds max frame size %d, dropping", len(f.Data), maxSize)
		cam.Release(f)
		return nil
	}

	slot.held = f
	slot.view = &FrameView{
		Data:        f.Data,
		Width:       f.Width,
		Height:      f.Height,
		PixelFormat: f.PixelFormat,
		Timestamp:   f.Timestamp,
		frame:       f,
	}
	return slot.view
}

// release returns the held frame to the device and empties the slot.
func (slot *frameSlot) release(cam Camera, view *FrameView) {
	if view == nil || view != slot.view {
		panic("uvcam: released frame view is not the one acquired")
	}
	cam.Release(slot.held)
	slot.held = nil
	slot.view = nil
}
