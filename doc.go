// Package denoise implements a stateful streaming layer over a fixed-frame
// noise suppression engine for real-time audio.
//
// Frame-based denoising engines only accept buffers of exactly one frame
// (480 samples at 48kHz for the default engine), while audio callers deliver
// arbitrarily-sized, arbitrarily-chunked sample buffers. This package
// reconciles the two: it validates input format, downmixes multi-channel
// audio to mono, accumulates samples across calls, runs every complete frame
// through the engine, and carries the sub-frame remainder over to the next
// call. No sample is ever dropped or duplicated, and frame alignment depends
// only on the cumulative sample count, never on how callers chunk the stream.
//
// # Getting Started
//
// Create a Denoiser and push samples as they arrive:
//
//	d, err := denoise.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	for chunk := range capture {
//	    out, speech, err := d.ProcessStream(chunk, 48000)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    playback(out)
//	    _ = speech // mean speech probability for the processed frames
//	}
//
//	// Drain whatever is still buffered when the stream ends.
//	tail, _, _ := d.Flush(false)
//	playback(tail)
//
// Multi-channel input goes through ProcessBuffer, which validates the
// format descriptor and downmixes to mono before streaming:
//
//	buf := &denoise.AudioBuffer{
//	    Format:     denoise.SampleFormatFloat32,
//	    Layout:     denoise.LayoutPlanar,
//	    Channels:   2,
//	    SampleRate: 48000,
//	    Planes:     [][]float32{left, right},
//	}
//	out, speech, err := d.ProcessBuffer(buf)
//
// # Architecture Overview
//
// The processing pipeline:
//
//	Raw buffer → Format Validation → Mono Downmix → Carryover Buffer →
//	Frame Engine (per complete frame) → Denoised output + speech probability
//
// A Denoiser owns one engine state and one carryover buffer, guarded
// together by a single mutex. Every public operation holds the lock for its
// full duration, so a Denoiser is safe to share between goroutines, though
// one instance per logical stream is recommended: concurrent callers
// interleave at call granularity and share the carryover state.
//
// The engine itself is pluggable through the Engine interface. The default
// implementation lives in the gate subpackage; NewWithEngine accepts any
// conforming implementation.
//
// # Opus Input
//
// OpusStream adapts Opus packets (e.g. from a VoIP pipeline) to the
// streaming API, decoding with pion/opus and conditioning the decoder
// output to 48kHz mono before denoising.
//
// # Legacy API
//
// ProcessInPlace and ProcessInPlacePtr process whole frames directly in the
// caller's storage without touching the carryover buffer. They are retained
// for backward compatibility only; new code should use ProcessStream.
package denoise
