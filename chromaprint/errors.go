package chromaprint

import (
	"errors"
	"fmt"
)

// Every failure reported by this package wraps one of the following
// sentinels, so that callers can branch on the error class with errors.Is.
var (
	// ErrInvalidArgument indicates malformed caller input, e.g. an
	// odd-length PCM chunk or a non-positive audio parameter.
	ErrInvalidArgument = errors.New("chromaprint: invalid argument")

	// ErrInvalidState indicates an operation which is not permitted in the
	// current lifecycle state of the Fingerprinter.
	ErrInvalidState = errors.New("chromaprint: invalid state")

	// ErrEngine indicates that the underlying fingerprinting engine
	// reported a failure.
	ErrEngine = errors.New("chromaprint: engine error")

	// ErrDecode indicates a malformed, truncated or otherwise
	// unparseable encoded fingerprint.
	ErrDecode = errors.New("chromaprint: decode error")

	// ErrEncode indicates a raw fingerprint which can not be represented
	// in the encoded form.
	ErrEncode = errors.New("chromaprint: encode error")
)

// wrapEngine makes sure an error crossing the engine boundary carries the
// ErrEngine kind. Errors from the bundled engines are already classified;
// injected engines may return anything.
func wrapEngine(err error) error {
	if errors.Is(err, ErrEngine) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrEngine, err)
}
