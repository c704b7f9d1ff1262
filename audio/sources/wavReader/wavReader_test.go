package wavReader

import (
	"os"
	"path/filepath"
	"testing"

	ga "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dh1tw/gochromaprint/audio"
)

// writeTestWav creates a 16 bit mono wav file containing the provided
// samples and returns its path.
func writeTestWav(t *testing.T, samples []int, samplerate int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := wav.NewEncoder(f, samplerate, 16, 1, 1)
	buf := &ga.IntBuffer{
		Format: &ga.Format{
			NumChannels: 1,
			SampleRate:  samplerate,
		},
		Data: samples,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestWavReaderInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("not a wav file"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewWavReader(path); err == nil {
		t.Fatal("expected error for invalid wav file")
	}
}

func TestWavReaderFormat(t *testing.T) {
	path := writeTestWav(t, make([]int, 100), 8000)

	r, err := NewWavReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Samplerate() != 8000 {
		t.Fatalf("expected samplerate 8000, got %v", r.Samplerate())
	}
	if r.Channels() != 1 {
		t.Fatalf("expected 1 channel, got %v", r.Channels())
	}
}

func TestWavReaderReadsAllSamples(t *testing.T) {

	samples := make([]int, 10000)
	for i := range samples {
		samples[i] = (i%200 - 100) * 100
	}

	path := writeTestWav(t, samples, 8000)

	r, err := NewWavReader(path, FramesPerBuffer(1024))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var got []float32
	sawEOF := false

	r.SetCb(func(msg audio.Msg) {
		if sawEOF {
			t.Fatal("received data after EOF")
		}
		got = append(got, msg.Data...)
		if msg.EOF {
			sawEOF = true
		}
	})

	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	if !sawEOF {
		t.Fatal("never received an EOF flagged message")
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}

	for i, s := range samples {
		want := float32(s) / 32768
		if got[i] != want {
			t.Fatalf("sample %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestWavReaderWithoutCallback(t *testing.T) {
	path := writeTestWav(t, make([]int, 10), 8000)

	r, err := NewWavReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.Start(); err == nil {
		t.Fatal("expected error when starting without callback")
	}
}
