package chromaprint

import (
	"fmt"
	"strings"
)

// Algorithm selects the fingerprinting variant of the engine. The id is
// carried in the first byte of every encoded fingerprint, so the producer
// and the consumer of a fingerprint don't have to agree on it out of band.
type Algorithm int

const (
	AlgorithmTest1 Algorithm = iota
	AlgorithmTest2
	AlgorithmTest3

	// AlgorithmDefault is used whenever no variant has been selected
	// explicitly.
	AlgorithmDefault = AlgorithmTest2
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmTest1:
		return "test1"
	case AlgorithmTest2:
		return "test2"
	case AlgorithmTest3:
		return "test3"
	}
	return fmt.Sprintf("unknown(%d)", int(a))
}

func (a Algorithm) valid() bool {
	return a >= AlgorithmTest1 && a <= AlgorithmTest3
}

// AlgorithmByName maps the textual name of a fingerprinting variant
// (e.g. "test2") back to its id.
func AlgorithmByName(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "test1":
		return AlgorithmTest1, nil
	case "test2":
		return AlgorithmTest2, nil
	case "test3":
		return AlgorithmTest3, nil
	}
	return 0, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, name)
}
