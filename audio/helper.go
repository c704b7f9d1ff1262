package audio

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Float32ToInt16LE converts float32 audio frames into 16bit signed little
// endian samples, the input format of the fingerprinting engine. Values
// outside of [-1, 1] are clamped.
func Float32ToInt16LE(frames []float32) []byte {
	out := make([]byte, len(frames)*2)
	for i, frame := range frames {
		f := math32.Max(-1, math32.Min(1, frame))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(f*32767)))
	}
	return out
}

// RMS calculates the root mean square (effective level) of a buffer of
// audio frames.
func RMS(frames []float32) float32 {
	if len(frames) == 0 {
		return 0
	}
	var sum float32
	for _, frame := range frames {
		sum += frame * frame
	}
	return math32.Sqrt(sum / float32(len(frames)))
}
