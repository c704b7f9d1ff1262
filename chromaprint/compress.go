package chromaprint

const (
	// deltas below maxNormal fit into the 3 bit normal section as-is;
	// larger ones are stored as maxNormal plus a 5 bit exception value
	maxNormal     = 7
	normalBits    = 3
	exceptionBits = 5

	// the value count in the header is a 24 bit field
	maxEncodedValues = 1<<24 - 1
)

// bitWriter packs integer fields of up to 8 bits each, LSB first. This is
// the packing used by libchromaprint's compressed fingerprint format.
type bitWriter struct {
	out      []byte
	buffer   uint32
	buffered uint
}

func (w *bitWriter) write(value uint32, bits uint) {
	w.buffer |= value << w.buffered
	w.buffered += bits
	for w.buffered >= 8 {
		w.out = append(w.out, byte(w.buffer))
		w.buffer >>= 8
		w.buffered -= 8
	}
}

// flush pads the current byte with zero bits.
func (w *bitWriter) flush() {
	if w.buffered > 0 {
		w.out = append(w.out, byte(w.buffer))
		w.buffer = 0
		w.buffered = 0
	}
}

// compress serializes a raw fingerprint into the binary encoded form: a
// 4 byte header (algorithm id, 24 bit big endian value count) followed by
// the delta coded set-bit positions of each subfingerprint XORed with its
// predecessor. Deltas are written as 3 bit values with a 0 terminator per
// subfingerprint; deltas of 7 and above spill into a 5 bit exception
// section. Both sections are flushed to a byte boundary.
func compress(fp []int32, algorithm Algorithm) []byte {

	var deltas []byte
	var prev uint32

	for _, v := range fp {
		word := uint32(v) ^ prev
		prev = uint32(v)

		bit, lastBit := 1, 0
		for x := word; x != 0; x >>= 1 {
			if x&1 != 0 {
				deltas = append(deltas, byte(bit-lastBit))
				lastBit = bit
			}
			bit++
		}
		deltas = append(deltas, 0) // terminates the subfingerprint
	}

	header := make([]byte, 4, 4+len(deltas))
	header[0] = byte(algorithm)
	header[1] = byte(len(fp) >> 16)
	header[2] = byte(len(fp) >> 8)
	header[3] = byte(len(fp))

	normal := bitWriter{out: header}
	for _, d := range deltas {
		if d >= maxNormal {
			normal.write(maxNormal, normalBits)
		} else {
			normal.write(uint32(d), normalBits)
		}
	}
	normal.flush()

	exceptions := bitWriter{out: normal.out}
	for _, d := range deltas {
		if d >= maxNormal {
			exceptions.write(uint32(d-maxNormal), exceptionBits)
		}
	}
	exceptions.flush()

	return exceptions.out
}
