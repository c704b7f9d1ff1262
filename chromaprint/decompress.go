package chromaprint

import "fmt"

// bitReader unpacks integer fields of up to 8 bits each, LSB first. It
// mirrors bitWriter.
type bitReader struct {
	data     []byte
	pos      int
	buffer   uint32
	buffered uint
}

// read returns the next field of the given width, or false when the data is
// exhausted.
func (r *bitReader) read(bits uint) (uint32, bool) {
	for r.buffered < bits {
		if r.pos >= len(r.data) {
			return 0, false
		}
		r.buffer |= uint32(r.data[r.pos]) << r.buffered
		r.pos++
		r.buffered += 8
	}
	v := r.buffer & (1<<bits - 1)
	r.buffer >>= bits
	r.buffered -= bits
	return v, true
}

// decompress parses the binary encoded fingerprint form produced by
// compress and reconstructs the raw subfingerprint values.
func decompress(data []byte) ([]int32, Algorithm, error) {
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("%w: fingerprint shorter than the 4 byte header", ErrDecode)
	}

	algorithm := Algorithm(data[0])
	if !algorithm.valid() {
		return nil, 0, fmt.Errorf("%w: unrecognized algorithm tag %d", ErrDecode, data[0])
	}
	numValues := int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	body := data[4:]

	// collect 3 bit deltas until every subfingerprint is terminated
	normal := bitReader{data: body}
	var deltas []byte
	found, slots := 0, 0
	for found < numValues {
		d, ok := normal.read(normalBits)
		if !ok {
			return nil, 0, fmt.Errorf("%w: fingerprint truncated after %d of %d subfingerprints",
				ErrDecode, found, numValues)
		}
		slots++
		deltas = append(deltas, byte(d))
		if d == 0 {
			found++
		}
	}

	// the exception section starts at the byte boundary after the consumed
	// part of the normal section
	excOffset := (slots*normalBits + 7) / 8
	exceptions := bitReader{data: body[excOffset:]}
	for i, d := range deltas {
		if d == maxNormal {
			e, ok := exceptions.read(exceptionBits)
			if !ok {
				return nil, 0, fmt.Errorf("%w: fingerprint truncated in the exception section", ErrDecode)
			}
			deltas[i] = byte(maxNormal + e)
		}
	}

	// rebuild the XOR chain
	out := make([]int32, 0, numValues)
	var word, prev uint32
	lastBit := 0
	for _, d := range deltas {
		if d == 0 {
			value := word ^ prev
			out = append(out, int32(value))
			prev = value
			word = 0
			lastBit = 0
			continue
		}
		lastBit += int(d)
		if lastBit > 32 {
			return nil, 0, fmt.Errorf("%w: bit position %d beyond a 32bit subfingerprint",
				ErrDecode, lastBit)
		}
		word |= 1 << uint(lastBit-1)
	}

	return out, algorithm, nil
}
