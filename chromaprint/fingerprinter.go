package chromaprint

import (
	"fmt"
	"runtime"
)

// lifecycle states of a Fingerprinter
type state int

const (
	created state = iota
	started
	finished
	closed
)

func (s state) String() string {
	switch s {
	case created:
		return "created"
	case started:
		return "started"
	case finished:
		return "finished"
	case closed:
		return "closed"
	}
	return "unknown"
}

// Fingerprinter calculates the fingerprint of a stream of raw PCM audio. It
// owns exactly one engine instance and enforces the legal call sequence
// Start -> Feed... -> Finish. All operations are synchronous and blocking; a
// Fingerprinter is not safe for concurrent use from multiple goroutines.
type Fingerprinter struct {
	engine     Engine
	algorithm  Algorithm
	state      state
	samplerate int
	channels   int
}

// Options contains the parameters for initializing a Fingerprinter.
type Options struct {
	Algorithm Algorithm
	Engine    Engine
}

// Option is the type for a function option.
type Option func(*Options)

// WithAlgorithm is a functional option which selects the fingerprinting
// variant. The default is AlgorithmTest2.
func WithAlgorithm(a Algorithm) Option {
	return func(args *Options) {
		args.Algorithm = a
	}
}

// WithEngine is a functional option which injects a specific engine
// instance. By default the engine is created through NewEngine. The
// Fingerprinter takes ownership of the engine and releases it on Close.
func WithEngine(e Engine) Option {
	return func(args *Options) {
		args.Engine = e
	}
}

// New is the constructor method for a Fingerprinter.
func New(opts ...Option) (*Fingerprinter, error) {

	options := Options{
		Algorithm: AlgorithmDefault,
	}

	for _, option := range opts {
		option(&options)
	}

	if !options.Algorithm.valid() {
		return nil, fmt.Errorf("%w: algorithm %s", ErrInvalidArgument, options.Algorithm)
	}

	engine := options.Engine
	if engine == nil {
		var err error
		engine, err = NewEngine(options.Algorithm)
		if err != nil {
			return nil, err
		}
	}

	fp := &Fingerprinter{
		engine:    engine,
		algorithm: options.Algorithm,
	}

	// backstop for callers which never call Close; the engine must be
	// released exactly once and Close guards against a second release
	runtime.SetFinalizer(fp, func(fp *Fingerprinter) { fp.Close() })

	return fp, nil
}

// Algorithm returns the fingerprinting variant fixed at construction.
func (fp *Fingerprinter) Algorithm() Algorithm {
	return fp.algorithm
}

// Samplerate returns the sample rate set with Start, or 0 before Start.
func (fp *Fingerprinter) Samplerate() int {
	return fp.samplerate
}

// Channels returns the channel count set with Start, or 0 before Start.
func (fp *Fingerprinter) Channels() int {
	return fp.channels
}

// Start configures the fingerprinter for audio with the given sample rate
// (Hz) and number of interleaved channels. It is only valid directly after
// construction; restarting a started fingerprinter is rejected. A failed
// Start leaves the fingerprinter unconfigured, so it can be retried with
// corrected parameters.
func (fp *Fingerprinter) Start(samplerate, channels int) error {
	if fp.state != created {
		return fmt.Errorf("%w: start in state %s", ErrInvalidState, fp.state)
	}
	if samplerate <= 0 {
		return fmt.Errorf("%w: samplerate %d", ErrInvalidArgument, samplerate)
	}
	if channels <= 0 {
		return fmt.Errorf("%w: channels %d", ErrInvalidArgument, channels)
	}
	if err := fp.engine.Start(samplerate, channels); err != nil {
		return wrapEngine(err)
	}
	fp.samplerate = samplerate
	fp.channels = channels
	fp.state = started
	return nil
}

// Feed passes a chunk of raw PCM audio (16bit signed little endian,
// interleaved) to the fingerprint accumulator. Chunks are processed
// synchronously in call order and the buffer is not retained beyond the
// call. The chunk length must be even; a rejected chunk leaves the
// fingerprinter started, so feeding can continue with corrected input.
func (fp *Fingerprinter) Feed(pcm []byte) error {
	if fp.state != started {
		return fmt.Errorf("%w: feed in state %s", ErrInvalidState, fp.state)
	}
	if len(pcm)%2 != 0 {
		return fmt.Errorf("%w: chunk of %d bytes can not be split into 16bit samples",
			ErrInvalidArgument, len(pcm))
	}
	if len(pcm) == 0 {
		return nil
	}
	if err := fp.engine.Feed(pcm, len(pcm)/2); err != nil {
		return wrapEngine(err)
	}
	return nil
}

// Finish signals end-of-stream to the engine and returns the encoded
// fingerprint in its text form. After a successful Finish the only remaining
// operation is Close; a failed Finish leaves the fingerprinter started, so
// the call can be retried.
func (fp *Fingerprinter) Finish() ([]byte, error) {
	if fp.state != started {
		return nil, fmt.Errorf("%w: finish in state %s", ErrInvalidState, fp.state)
	}
	if err := fp.engine.Finish(); err != nil {
		return nil, wrapEngine(err)
	}
	result, err := fp.engine.Fingerprint()
	if err != nil {
		return nil, wrapEngine(err)
	}
	fp.state = finished
	return []byte(result), nil
}

// Close releases the underlying engine. It can be called in any state;
// subsequent calls are no-ops.
func (fp *Fingerprinter) Close() error {
	if fp.state == closed {
		return nil
	}
	fp.state = closed
	runtime.SetFinalizer(fp, nil)
	if err := fp.engine.Close(); err != nil {
		return wrapEngine(err)
	}
	return nil
}
