package chromaprint

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// builtinBlockSamples is the number of 16bit samples hashed into one
// subfingerprint by the built-in engine.
const builtinBlockSamples = 4096

// BuiltinEngine is a deterministic, pure Go fingerprinting engine. It does
// not perform any spectral analysis; it hashes fixed-size sample blocks into
// subfingerprints and encodes them with the regular fingerprint codec. The
// result is stable across runs for identical input and independent of how
// the input was chunked, which makes it suitable for tests and for builds
// without libchromaprint. Its fingerprints are not comparable to the ones
// produced by the native engine.
type BuiltinEngine struct {
	algorithm   Algorithm
	seed        uint32
	started     bool
	finished    bool
	closed      bool
	block       []byte // trailing bytes of the last incomplete block
	hashes      []int32
	fingerprint string
}

// NewBuiltinEngine returns a built-in engine for the given algorithm.
func NewBuiltinEngine(algorithm Algorithm) *BuiltinEngine {
	return &BuiltinEngine{algorithm: algorithm}
}

// Start configures the engine. Calling Start again discards everything
// accumulated so far.
func (e *BuiltinEngine) Start(samplerate, channels int) error {
	if e.closed {
		return fmt.Errorf("%w: engine closed", ErrEngine)
	}
	if samplerate <= 0 || channels <= 0 {
		return fmt.Errorf("%w: samplerate %d / channels %d not supported",
			ErrEngine, samplerate, channels)
	}
	e.started = true
	e.finished = false
	e.block = nil
	e.hashes = nil
	e.fingerprint = ""

	// the audio parameters season the block hashes so that different
	// configurations produce different fingerprints
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d:%d", int(e.algorithm), samplerate, channels)
	e.seed = h.Sum32()
	return nil
}

// Feed appends samples to the fingerprint accumulator.
func (e *BuiltinEngine) Feed(pcm []byte, samples int) error {
	if e.closed || !e.started || e.finished {
		return fmt.Errorf("%w: feed out of sequence", ErrEngine)
	}
	if samples < 0 || samples*2 > len(pcm) {
		return fmt.Errorf("%w: %d samples exceed a buffer of %d bytes",
			ErrEngine, samples, len(pcm))
	}
	e.block = append(e.block, pcm[:samples*2]...)
	for len(e.block) >= builtinBlockSamples*2 {
		e.hashes = append(e.hashes, e.hashBlock(e.block[:builtinBlockSamples*2]))
		e.block = e.block[builtinBlockSamples*2:]
	}
	return nil
}

// Finish flushes the trailing partial block and encodes the fingerprint.
// Calling Finish again after it succeeded is a no-op, so that a failed
// fingerprint retrieval can be retried.
func (e *BuiltinEngine) Finish() error {
	if e.closed || !e.started {
		return fmt.Errorf("%w: finish before start", ErrEngine)
	}
	if e.finished {
		return nil
	}
	if len(e.block) > 0 {
		// zero-pad the trailing partial block
		padded := make([]byte, builtinBlockSamples*2)
		copy(padded, e.block)
		e.hashes = append(e.hashes, e.hashBlock(padded))
		e.block = nil
	}
	enc, err := EncodeFingerprint(e.hashes, e.algorithm, true)
	if err != nil {
		return wrapEngine(err)
	}
	e.fingerprint = string(enc)
	e.finished = true
	return nil
}

// Fingerprint returns the encoded text fingerprint computed by Finish.
func (e *BuiltinEngine) Fingerprint() (string, error) {
	if e.closed || !e.finished {
		return "", fmt.Errorf("%w: no fingerprint available before finish", ErrEngine)
	}
	return e.fingerprint, nil
}

// Close releases the accumulator. Subsequent calls are no-ops.
func (e *BuiltinEngine) Close() error {
	e.closed = true
	e.block = nil
	e.hashes = nil
	return nil
}

func (e *BuiltinEngine) hashBlock(block []byte) int32 {
	var seed [4]byte
	binary.LittleEndian.PutUint32(seed[:], e.seed)
	h := fnv.New32a()
	h.Write(seed[:])
	h.Write(block)
	return int32(h.Sum32())
}
