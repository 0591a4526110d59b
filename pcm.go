// Package denoise provides streaming noise suppression for real-time audio.
//
// This file implements conversions between 16-bit little-endian PCM bytes
// and the normalized float32 samples the streaming API operates on. VoIP
// pipelines almost universally hand audio around as PCM16, so both the Opus
// adapter and external callers need this bridge.
package denoise

// Float32FromPCM16 converts 16-bit little-endian PCM bytes to normalized
// float32 samples in [-1, 1).
//
// A trailing odd byte, which cannot form a complete sample, is ignored.
func Float32FromPCM16(data []byte) []float32 {
	count := len(data) / 2
	samples := make([]float32, count)
	for i := 0; i < count; i++ {
		raw := int16(data[i*2]) | int16(data[i*2+1])<<8
		samples[i] = float32(raw) / 32768.0
	}
	return samples
}

// PCM16FromFloat32 converts normalized float32 samples to 16-bit
// little-endian PCM bytes, clipping values outside [-1, 1].
func PCM16FromFloat32(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		raw := int16(sample * 32767.0)
		data[i*2] = byte(raw)
		data[i*2+1] = byte(raw >> 8)
	}
	return data
}
