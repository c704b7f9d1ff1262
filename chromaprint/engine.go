package chromaprint

import "fmt"

// Engine is the capability interface of a fingerprinting engine. A
// Fingerprinter drives it through the fixed call sequence
// Start -> Feed... -> Finish -> Fingerprint; Close releases the engine's
// resources and must be called exactly once.
//
// Engines report failure through the returned error; no call may be treated
// as infallible.
type Engine interface {
	// Start configures the engine for the given sample rate (Hz) and
	// number of interleaved audio channels.
	Start(samplerate, channels int) error
	// Feed passes raw audio (16bit signed little endian, interleaved) to
	// the fingerprint accumulator. samples is the number of 16bit values
	// contained in pcm. The engine must not retain pcm.
	Feed(pcm []byte, samples int) error
	// Finish signals end-of-stream and computes the fingerprint.
	Finish() error
	// Fingerprint returns the encoded fingerprint in its text form. It is
	// only valid after a successful Finish.
	Fingerprint() (string, error)
	// Close releases the engine.
	Close() error
}

// NewEngine returns an engine instance for the given algorithm. When
// compiled with the 'libchromaprint' build tag the native libchromaprint
// backend is used, otherwise the deterministic built-in engine takes its
// place.
func NewEngine(algorithm Algorithm) (Engine, error) {
	if !algorithm.valid() {
		return nil, fmt.Errorf("%w: algorithm %s", ErrInvalidArgument, algorithm)
	}
	if NativeAvailable() {
		return newNativeEngine(algorithm)
	}
	return NewBuiltinEngine(algorithm), nil
}
