package audio

// OnDataCb is the callback through which audio sources and nodes provide
// their buffers.
type OnDataCb func(Msg)

// Source is the interface which is implemented by an audio source. This
// could be a local file or a local audio device (e.g. a microphone).
// Sources deliver their buffers strictly in stream order, since the
// fingerprint accumulator downstream is order sensitive.
type Source interface {
	Start() error
	Stop() error
	Close() error
	SetCb(OnDataCb)
}

// Node is the interface which is implemented by an audio processing node
// sitting between a source and the final consumer.
type Node interface {
	Write(Msg) error
	SetCb(OnDataCb)
	Close() error
}

// Msg contains an audio buffer with its metadata.
type Msg struct {
	Data       []float32 // interleaved samples in the range [-1, 1]
	Samplerate float64
	Channels   int
	Frames     int // number of frames in the buffer
	EOF        bool
}
