//go:build libchromaprint

package chromaprint

/*
#cgo LDFLAGS: -lchromaprint
#include <chromaprint.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// NativeAvailable reports whether the libchromaprint backend is compiled in.
func NativeAvailable() bool { return true }

// nativeEngine wraps a libchromaprint context. The context handle is owned
// exclusively and released in Close.
type nativeEngine struct {
	ctx *C.ChromaprintContext
}

func newNativeEngine(algorithm Algorithm) (Engine, error) {
	ctx := C.chromaprint_new(C.int(algorithm))
	if ctx == nil {
		return nil, fmt.Errorf("%w: unable to allocate a chromaprint context", ErrEngine)
	}
	return &nativeEngine{ctx: ctx}, nil
}

func (e *nativeEngine) Start(samplerate, channels int) error {
	if C.chromaprint_start(e.ctx, C.int(samplerate), C.int(channels)) != 1 {
		return fmt.Errorf("%w: start(%d, %d) rejected", ErrEngine, samplerate, channels)
	}
	return nil
}

func (e *nativeEngine) Feed(pcm []byte, samples int) error {
	if samples == 0 {
		return nil
	}
	res := C.chromaprint_feed(e.ctx,
		(*C.int16_t)(unsafe.Pointer(&pcm[0])), C.int(samples))
	if res != 1 {
		return fmt.Errorf("%w: feed of %d samples failed", ErrEngine, samples)
	}
	return nil
}

func (e *nativeEngine) Finish() error {
	if C.chromaprint_finish(e.ctx) != 1 {
		return fmt.Errorf("%w: finish failed", ErrEngine)
	}
	return nil
}

func (e *nativeEngine) Fingerprint() (string, error) {
	var fp *C.char
	if C.chromaprint_get_fingerprint(e.ctx, &fp) != 1 {
		return "", fmt.Errorf("%w: fingerprint retrieval failed", ErrEngine)
	}
	result := C.GoString(fp)
	C.chromaprint_dealloc(unsafe.Pointer(fp))
	return result, nil
}

func (e *nativeEngine) Close() error {
	if e.ctx != nil {
		C.chromaprint_free(e.ctx)
		e.ctx = nil
	}
	return nil
}
