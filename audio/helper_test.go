package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloat32ToInt16LE(t *testing.T) {

	in := []float32{0, 0.5, 1, -1, 2, -2}
	expected := []int16{0, 16383, 32767, -32767, 32767, -32767}

	out := Float32ToInt16LE(in)
	if len(out) != len(in)*2 {
		t.Fatalf("expected %d bytes, got %d", len(in)*2, len(out))
	}

	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))
		if got != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRMS(t *testing.T) {

	tt := []struct {
		name     string
		frames   []float32
		expected float32
	}{
		{"empty", nil, 0},
		{"silence", []float32{0, 0, 0, 0}, 0},
		{"constant level", []float32{0.5, -0.5, 0.5, -0.5}, 0.5},
		{"full scale", []float32{1, -1}, 1},
	}

	for _, tc := range tt {
		got := RMS(tc.frames)
		if math.Abs(float64(got-tc.expected)) > 1e-6 {
			t.Fatalf("%s: expected %f, got %f", tc.name, tc.expected, got)
		}
	}
}
