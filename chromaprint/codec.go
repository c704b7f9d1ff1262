package chromaprint

import (
	"encoding/base64"
	"fmt"
)

// fingerprintBase64 is the text form of encoded fingerprints: URL-safe
// base64 without padding, the alphabet used by libchromaprint.
var fingerprintBase64 = base64.RawURLEncoding

// DecodeFingerprint parses an encoded fingerprint into its raw form and
// returns the algorithm it was produced with. isText selects between the
// portable text form and the raw binary encoded form; the caller has to
// know which one it stored. No engine or Fingerprinter is required.
func DecodeFingerprint(data []byte, isText bool) ([]int32, Algorithm, error) {
	raw := data
	if isText {
		buf := make([]byte, fingerprintBase64.DecodedLen(len(data)))
		n, err := fingerprintBase64.Decode(buf, data)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		raw = buf[:n]
	}
	return decompress(raw)
}

// EncodeFingerprint serializes a raw fingerprint tagged with its algorithm.
// isText selects the portable text form instead of the raw binary encoded
// form. Encoding and decoding round-trip exactly in both forms.
func EncodeFingerprint(fp []int32, algorithm Algorithm, isText bool) ([]byte, error) {
	if !algorithm.valid() {
		return nil, fmt.Errorf("%w: algorithm %s", ErrEncode, algorithm)
	}
	if len(fp) > maxEncodedValues {
		return nil, fmt.Errorf("%w: %d subfingerprints exceed the 24 bit length field",
			ErrEncode, len(fp))
	}
	raw := compress(fp, algorithm)
	if !isText {
		return raw, nil
	}
	out := make([]byte, fingerprintBase64.EncodedLen(len(raw)))
	fingerprintBase64.Encode(out, raw)
	return out, nil
}
