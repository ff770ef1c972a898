package uvcam

import "errors"

// Negotiation and initialization errors returned from Session.OnStart.
// Call sites wrap these with request context; unwrap with errors.Cause.
var (
	ErrUnsupportedFormat     = errors.New("unsupported stream format")
	ErrInvalidFrameRate      = errors.New("invalid frame rate")
	ErrUnsupportedResolution = errors.New("unsupported resolution")
	ErrUnsupportedEncoding   = errors.New("pixel encoding not supported by sensor")
)
