// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements the Denoiser facade: the public entry point that
// composes format validation, mono downmixing, the carryover buffer, and
// the frame engine. The facade owns the engine state and the carryover
// buffer as a single unit behind one mutex; every public operation holds
// the lock for its full duration and releases it on every exit path.
package denoise

import (
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/denoise/gate"
)

// Engine is the fixed-frame denoising capability the streaming layer drives.
//
// Implementations own opaque per-stream state: ProcessFrame mutates it and
// operates in place on exactly FrameSize samples, returning a speech
// probability in [0, 1]. Reset reinitializes the state to its
// fresh-construction condition. Close releases the state; no method may be
// called afterwards. Implementations need not be safe for concurrent use —
// the Denoiser serializes all access.
type Engine interface {
	// FrameSize returns the fixed number of samples per frame.
	FrameSize() int

	// ProcessFrame denoises exactly FrameSize samples in place and returns
	// the frame's speech probability in [0, 1].
	ProcessFrame(frame []float32) (float32, error)

	// Reset reinitializes the engine state, equivalent to fresh construction.
	Reset() error

	// Close releases the engine state.
	Close() error
}

// Denoiser is the stateful streaming facade over a fixed-frame engine.
//
// A Denoiser accepts arbitrarily-chunked sample buffers, processes every
// complete frame, and carries sub-frame remainders across calls with zero
// sample loss. One instance serves one logical audio stream: the internal
// lock makes concurrent calls memory-safe and atomic per call, but it does
// not order concurrently-issued calls, so callers multiplexing threads over
// one stream must serialize externally.
type Denoiser struct {
	// mu guards the engine state and the carryover buffer as one atomic
	// unit. A single lock, never two, since every operation needs both.
	mu     sync.Mutex
	stream streamBuffer
	closed bool
}

// New creates a Denoiser backed by the default engine and model.
func New() (*Denoiser, error) {
	logrus.WithFields(logrus.Fields{
		"function": "New",
	}).Info("Creating denoiser with default engine")

	return NewWithEngine(gate.NewDefault())
}

// NewWithModel creates a Denoiser backed by the default engine loaded from
// a serialized model blob. A nil blob selects the built-in model.
func NewWithModel(model []byte) (*Denoiser, error) {
	logrus.WithFields(logrus.Fields{
		"function":   "NewWithModel",
		"model_size": len(model),
	}).Info("Creating denoiser from model blob")

	engine, err := gate.New(model)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewWithModel",
			"error":    err.Error(),
		}).Error("Engine creation failed")
		return nil, err
	}
	return NewWithEngine(engine)
}

// NewWithEngine creates a Denoiser driving the supplied engine.
//
// The Denoiser takes ownership of the engine: Close destroys it exactly once.
func NewWithEngine(engine Engine) (*Denoiser, error) {
	if engine == nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewWithEngine",
			"error":    "nil engine",
		}).Error("Engine validation failed")
		return nil, ErrNilEngine
	}
	if engine.FrameSize() <= 0 {
		logrus.WithFields(logrus.Fields{
			"function":   "NewWithEngine",
			"frame_size": engine.FrameSize(),
			"error":      "non-positive frame size",
		}).Error("Engine validation failed")
		return nil, ErrInvalidFrameSize
	}

	d := &Denoiser{
		stream: streamBuffer{engine: engine},
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewWithEngine",
		"frame_size": engine.FrameSize(),
	}).Info("Denoiser created successfully")

	return d, nil
}

// FrameSize returns the engine's fixed frame size in samples.
func (d *Denoiser) FrameSize() int {
	return d.stream.engine.FrameSize()
}

// ProcessStream pushes mono float32 samples into the stream and returns the
// denoised output for every complete frame plus the mean speech probability
// across those frames (0 when no frame completed).
//
// Empty input short-circuits to (nil, 0, nil) without any validation: an
// empty push carries no data to mis-rate, so even a wrong nominal rate is
// not reported. Non-empty input is rate-checked against RequiredSampleRate
// before any state is touched.
func (d *Denoiser) ProcessStream(samples []float32, sampleRate float64) ([]float32, float32, error) {
	if len(samples) == 0 {
		return nil, 0, nil
	}

	logrus.WithFields(logrus.Fields{
		"function":    "ProcessStream",
		"samples":     len(samples),
		"sample_rate": sampleRate,
	}).Debug("Processing stream chunk")

	if err := validateSampleRate(sampleRate); err != nil {
		return nil, 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		logrus.WithFields(logrus.Fields{
			"function": "ProcessStream",
			"error":    "denoiser closed",
		}).Error("Stream processing rejected")
		return nil, 0, ErrDenoiserClosed
	}

	return d.stream.ingest(samples)
}

// ProcessBuffer validates an audio buffer descriptor, downmixes it to mono,
// and streams the result at the buffer's own sample rate.
func (d *Denoiser) ProcessBuffer(buf *AudioBuffer) ([]float32, float32, error) {
	logrus.WithFields(logrus.Fields{
		"function": "ProcessBuffer",
	}).Debug("Processing audio buffer")

	if err := ValidateFormat(buf); err != nil {
		return nil, 0, err
	}

	mono, err := DownmixMono(buf)
	if err != nil {
		return nil, 0, err
	}

	return d.ProcessStream(mono, buf.SampleRate)
}

// Flush drains the carryover buffer and empties it.
//
// With processPartial false the buffered remainder is returned exactly as
// supplied, with probability 0. With processPartial true the remainder is
// zero-padded to one frame, run through the engine, and trimmed back to its
// original length, returning that frame's speech probability.
func (d *Denoiser) Flush(processPartial bool) ([]float32, float32, error) {
	logrus.WithFields(logrus.Fields{
		"function":        "Flush",
		"process_partial": processPartial,
	}).Debug("Flushing denoiser")

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, 0, ErrDenoiserClosed
	}

	return d.stream.flush(processPartial)
}

// Reset discards all pending carryover samples and, when resetEngineState
// is true, reinitializes the engine state as if freshly constructed.
func (d *Denoiser) Reset(resetEngineState bool) error {
	logrus.WithFields(logrus.Fields{
		"function":     "Reset",
		"reset_engine": resetEngineState,
	}).Info("Resetting denoiser")

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDenoiserClosed
	}

	return d.stream.reset(resetEngineState)
}

// Close destroys the engine state and releases the denoiser.
//
// Close is idempotent; the engine is destroyed exactly once. All other
// operations fail with ErrDenoiserClosed afterwards.
func (d *Denoiser) Close() error {
	logrus.WithFields(logrus.Fields{
		"function": "Close",
	}).Info("Closing denoiser")

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.stream.pending = nil

	if err := d.stream.engine.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Close",
			"error":    err.Error(),
		}).Error("Engine close failed")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Close",
	}).Info("Denoiser closed successfully")

	return nil
}

// ProcessInPlace denoises whole frames directly in the caller's slice and
// returns the number of frames processed.
//
// Only floor(len(samples)/FrameSize) frames are touched; any remainder is
// silently left unprocessed and the carryover buffer is neither consulted
// nor updated. Validation failures (including a closed denoiser) are
// swallowed as a 0-frame no-op, matching the historical behavior of this
// entry point. The call still takes the facade lock, so it cannot race with
// streaming calls on the same instance.
//
// Deprecated: use ProcessStream, which preserves sub-frame samples.
func (d *Denoiser) ProcessInPlace(samples []float32) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.processWholeFramesLocked(samples)
}

// ProcessInPlacePtr is the raw-pointer variant of ProcessInPlace for legacy
// callers holding C-style storage. ptr must reference at least count
// contiguous float32 samples.
//
// Deprecated: use ProcessStream, which preserves sub-frame samples.
func (d *Denoiser) ProcessInPlacePtr(ptr unsafe.Pointer, count int) int {
	if ptr == nil || count <= 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.processWholeFramesLocked(unsafe.Slice((*float32)(ptr), count))
}

// processWholeFramesLocked runs every complete frame in samples through the
// engine in place. Callers must hold d.mu.
func (d *Denoiser) processWholeFramesLocked(samples []float32) int {
	frameSize := d.stream.engine.FrameSize()
	frames := len(samples) / frameSize

	logrus.WithFields(logrus.Fields{
		"function":  "processWholeFramesLocked",
		"samples":   len(samples),
		"frames":    frames,
		"remainder": len(samples) - frames*frameSize,
	}).Debug("Processing whole frames in place")

	for i := 0; i < frames; i++ {
		if _, err := d.stream.engine.ProcessFrame(samples[i*frameSize : (i+1)*frameSize]); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "processWholeFramesLocked",
				"frame":    i,
				"error":    err.Error(),
			}).Error("Engine frame processing failed")
			return i
		}
	}
	return frames
}
