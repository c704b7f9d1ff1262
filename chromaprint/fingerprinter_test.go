package chromaprint

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func newTestFingerprinter(t *testing.T, opts ...Option) *Fingerprinter {
	t.Helper()
	opts = append([]Option{WithEngine(NewBuiltinEngine(AlgorithmDefault))}, opts...)
	fp, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { fp.Close() })
	return fp
}

// pcmPattern generates a deterministic even-length PCM byte sequence.
func pcmPattern(length int) []byte {
	data := make([]byte, length)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	return data
}

func TestNewInvalidAlgorithm(t *testing.T) {
	_, err := New(WithAlgorithm(Algorithm(42)))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestStartInvalidParameters(t *testing.T) {

	tt := []struct {
		name       string
		samplerate int
		channels   int
	}{
		{"zero samplerate", 0, 2},
		{"negative samplerate", -44100, 2},
		{"zero channels", 44100, 0},
		{"negative channels", 44100, -1},
	}

	for _, tc := range tt {
		fp := newTestFingerprinter(t)
		if err := fp.Start(tc.samplerate, tc.channels); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
		// a failed Start leaves the fingerprinter unconfigured; a correct
		// Start must still succeed
		if err := fp.Start(44100, 2); err != nil {
			t.Fatalf("%s: start after failed start: %v", tc.name, err)
		}
	}
}

func TestStartTwice(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	if err := fp.Start(48000, 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	// the rejected restart must not have corrupted the session
	if err := fp.Feed(pcmPattern(512)); err != nil {
		t.Fatal(err)
	}
	if _, err := fp.Finish(); err != nil {
		t.Fatal(err)
	}
}

func TestFinishBeforeStart(t *testing.T) {
	fp := newTestFingerprinter(t)
	if _, err := fp.Finish(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestFeedBeforeStart(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Feed(pcmPattern(4)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestDoubleFinish(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := fp.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := fp.Finish(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestFeedOddChunk(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	if err := fp.Feed(pcmPattern(101)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	// the session must still be usable after the rejected chunk
	if err := fp.Feed(pcmPattern(100)); err != nil {
		t.Fatal(err)
	}
	result, err := fp.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if len(result) == 0 {
		t.Fatal("expected a non-empty fingerprint")
	}
}

func TestFeedAfterFinish(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := fp.Finish(); err != nil {
		t.Fatal(err)
	}
	if err := fp.Feed(pcmPattern(4)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fp.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fp.Feed(pcmPattern(4)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after close, got %v", err)
	}
	if _, err := fp.Finish(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after close, got %v", err)
	}
}

func TestEmptyStream(t *testing.T) {
	fp := newTestFingerprinter(t)
	if err := fp.Start(8000, 1); err != nil {
		t.Fatal(err)
	}
	result, err := fp.Finish()
	if err != nil {
		t.Fatal(err)
	}
	values, algorithm, err := DecodeFingerprint(result, true)
	if err != nil {
		t.Fatal(err)
	}
	if algorithm != AlgorithmDefault {
		t.Fatalf("expected algorithm %s, got %s", AlgorithmDefault, algorithm)
	}
	if len(values) != 0 {
		t.Fatalf("expected an empty fingerprint, got %d values", len(values))
	}
}

func TestChunkInvariance(t *testing.T) {

	data := pcmPattern(100002)

	fingerprint := func(chunkSize int) []byte {
		fp := newTestFingerprinter(t)
		if err := fp.Start(44100, 2); err != nil {
			t.Fatal(err)
		}
		for offset := 0; offset < len(data); offset += chunkSize {
			end := offset + chunkSize
			if end > len(data) {
				end = len(data)
			}
			if err := fp.Feed(data[offset:end]); err != nil {
				t.Fatal(err)
			}
		}
		result, err := fp.Finish()
		if err != nil {
			t.Fatal(err)
		}
		return result
	}

	whole := fingerprint(len(data))
	for _, chunkSize := range []int{2, 1024, 4096, 9998, 65536} {
		if chunked := fingerprint(chunkSize); !bytes.Equal(whole, chunked) {
			t.Fatalf("fingerprint differs when fed in chunks of %d bytes", chunkSize)
		}
	}
}

func TestSilenceScenario(t *testing.T) {

	// 4 seconds of stereo silence at 44.1kHz
	silence := make([]byte, 44100*2*2*4)

	run := func() ([]int32, Algorithm) {
		fp := newTestFingerprinter(t, WithAlgorithm(AlgorithmTest2))
		if err := fp.Start(44100, 2); err != nil {
			t.Fatal(err)
		}
		if err := fp.Feed(silence); err != nil {
			t.Fatal(err)
		}
		result, err := fp.Finish()
		if err != nil {
			t.Fatal(err)
		}
		if len(result) == 0 {
			t.Fatal("expected a non-empty fingerprint")
		}
		values, algorithm, err := DecodeFingerprint(result, true)
		if err != nil {
			t.Fatal(err)
		}
		return values, algorithm
	}

	first, algorithm := run()
	if algorithm != AlgorithmTest2 {
		t.Fatalf("expected algorithm %s, got %s", AlgorithmTest2, algorithm)
	}
	if len(first) == 0 {
		t.Fatal("expected raw fingerprint values")
	}

	second, _ := run()
	if len(first) != len(second) {
		t.Fatalf("fingerprint length not deterministic: %d vs %d", len(first), len(second))
	}
}

// flakyEngine fails a configurable number of Finish calls before recovering.
type flakyEngine struct {
	*BuiltinEngine
	finishFailures int
}

func (e *flakyEngine) Finish() error {
	if e.finishFailures > 0 {
		e.finishFailures--
		return fmt.Errorf("simulated engine failure")
	}
	return e.BuiltinEngine.Finish()
}

func TestFailedFinishCanBeRetried(t *testing.T) {

	engine := &flakyEngine{
		BuiltinEngine:  NewBuiltinEngine(AlgorithmDefault),
		finishFailures: 1,
	}
	fp := newTestFingerprinter(t, WithEngine(engine))

	if err := fp.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	if err := fp.Feed(pcmPattern(8192)); err != nil {
		t.Fatal(err)
	}

	if _, err := fp.Finish(); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}

	// the failed Finish left the session started
	result, err := fp.Finish()
	if err != nil {
		t.Fatalf("retried finish: %v", err)
	}
	if len(result) == 0 {
		t.Fatal("expected a non-empty fingerprint")
	}
}
