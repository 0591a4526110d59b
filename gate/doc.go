// Package gate implements the default fixed-frame denoising engine used by
// the denoise package.
//
// The engine is a recurrent, energy-adaptive noise gate operating on
// 480-sample mono frames at 48kHz (10ms, the same frame contract as the
// RNNoise family of denoisers). Each frame updates an asymmetric noise
// floor estimate, derives a speech probability from the frame's
// signal-to-noise ratio, and applies a smoothed attenuation gain in place.
// State carries across frames, so one engine instance serves one stream.
//
// Engine behavior is parameterized by a Model. The built-in model suits
// general voice capture; alternative tunings can be distributed as
// serialized blobs whose integrity is pinned with a BLAKE2b-256 digest
// (see EncodeModel and ModelDigest).
//
// The engine is not safe for concurrent use; the denoise.Denoiser facade
// serializes all access.
package gate
