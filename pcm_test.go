package denoise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32FromPCM16(t *testing.T) {
	// 0x4000 = 16384 = 0.5 in normalized scale, 0xC000 = -16384.
	data := []byte{0x00, 0x40, 0x00, 0xC0, 0x00, 0x00}

	samples := Float32FromPCM16(data)

	require.Len(t, samples, 3)
	assert.InDelta(t, 0.5, samples[0], 1e-6)
	assert.InDelta(t, -0.5, samples[1], 1e-6)
	assert.Zero(t, samples[2])
}

func TestFloat32FromPCM16IgnoresTrailingByte(t *testing.T) {
	samples := Float32FromPCM16([]byte{0x00, 0x40, 0x7F})

	assert.Len(t, samples, 1)
}

func TestPCM16FromFloat32Clipping(t *testing.T) {
	data := PCM16FromFloat32([]float32{2.0, -2.0})

	require.Len(t, data, 4)
	high := int16(data[0]) | int16(data[1])<<8
	low := int16(data[2]) | int16(data[3])<<8
	assert.Equal(t, int16(32767), high)
	assert.Equal(t, int16(-32767), low)
}

func TestPCMRoundTrip(t *testing.T) {
	original := []float32{0, 0.25, -0.25, 0.99, -0.99}

	restored := Float32FromPCM16(PCM16FromFloat32(original))

	require.Len(t, restored, len(original))
	for i := range original {
		assert.InDelta(t, original[i], restored[i], 1e-3, "sample %d", i)
	}
}
