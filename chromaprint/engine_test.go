package chromaprint

import (
	"errors"
	"testing"
)

func TestNewEngineInvalidAlgorithm(t *testing.T) {
	if _, err := NewEngine(Algorithm(-1)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBuiltinEngineCallSequence(t *testing.T) {

	e := NewBuiltinEngine(AlgorithmDefault)

	if err := e.Feed([]byte{0, 0}, 1); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine for feed before start, got %v", err)
	}
	if err := e.Finish(); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine for finish before start, got %v", err)
	}
	if _, err := e.Fingerprint(); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine for fingerprint before finish, got %v", err)
	}

	if err := e.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	if err := e.Feed([]byte{1, 2, 3, 4}, 2); err != nil {
		t.Fatal(err)
	}
	if err := e.Finish(); err != nil {
		t.Fatal(err)
	}
	fp, err := e.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if fp == "" {
		t.Fatal("expected a non-empty fingerprint")
	}

	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(44100, 2); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine after close, got %v", err)
	}
}

func TestBuiltinEngineRejectsBadParameters(t *testing.T) {
	e := NewBuiltinEngine(AlgorithmDefault)
	defer e.Close()

	if err := e.Start(0, 1); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
	if err := e.Start(44100, 1); err != nil {
		t.Fatal(err)
	}
	// the declared sample count must fit into the buffer
	if err := e.Feed([]byte{0, 0}, 5); !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

func TestBuiltinEngineDistinguishesParameters(t *testing.T) {

	fingerprint := func(samplerate, channels int) string {
		e := NewBuiltinEngine(AlgorithmDefault)
		defer e.Close()
		if err := e.Start(samplerate, channels); err != nil {
			t.Fatal(err)
		}
		pcm := make([]byte, 8192)
		if err := e.Feed(pcm, len(pcm)/2); err != nil {
			t.Fatal(err)
		}
		if err := e.Finish(); err != nil {
			t.Fatal(err)
		}
		fp, err := e.Fingerprint()
		if err != nil {
			t.Fatal(err)
		}
		return fp
	}

	if fingerprint(44100, 2) == fingerprint(8000, 1) {
		t.Fatal("identical audio at different parameters must not collide")
	}
}
