package denoise

import (
	"errors"
	"fmt"
)

// Sentinel errors for denoiser lifecycle misuse.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrDenoiserClosed indicates the denoiser has been closed.
	ErrDenoiserClosed = errors.New("denoiser is closed")

	// ErrNilEngine indicates a nil engine was supplied.
	ErrNilEngine = errors.New("engine must not be nil")

	// ErrNilBuffer indicates a nil audio buffer descriptor was supplied.
	ErrNilBuffer = errors.New("audio buffer must not be nil")

	// ErrInvalidFrameSize indicates the engine reported a non-positive frame size.
	ErrInvalidFrameSize = errors.New("engine reported invalid frame size")
)

// UnsupportedSampleFormatError indicates the input encoding is not 32-bit float.
//
// All processing operates on float32 samples; buffers carrying any other
// encoding are rejected before any state is touched.
type UnsupportedSampleFormatError struct {
	Format SampleFormat
}

// Error implements the error interface.
func (e *UnsupportedSampleFormatError) Error() string {
	return fmt.Sprintf("unsupported sample format: %s (32-bit float required)", e.Format)
}

// UnsupportedChannelCountError indicates a non-positive channel count.
type UnsupportedChannelCountError struct {
	Channels int
}

// Error implements the error interface.
func (e *UnsupportedChannelCountError) Error() string {
	return fmt.Sprintf("unsupported channel count: %d (must be >= 1)", e.Channels)
}

// UnsupportedSampleRateError indicates the input sample rate differs from the
// required rate beyond the comparison tolerance.
type UnsupportedSampleRateError struct {
	Expected float64
	Actual   float64
}

// Error implements the error interface.
func (e *UnsupportedSampleRateError) Error() string {
	return fmt.Sprintf("unsupported sample rate: %g Hz (engine requires %g Hz)", e.Actual, e.Expected)
}
