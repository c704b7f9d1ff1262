//go:build !libchromaprint

package chromaprint

import "fmt"

// NativeAvailable reports whether the libchromaprint backend is compiled in.
func NativeAvailable() bool { return false }

func newNativeEngine(algorithm Algorithm) (Engine, error) {
	return nil, fmt.Errorf("%w: compiled without the libchromaprint build tag", ErrEngine)
}
