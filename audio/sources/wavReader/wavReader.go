package wavReader

import (
	"fmt"
	"os"
	"sync"
	"time"

	ga "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dh1tw/gochromaprint/audio"
)

// WavReader reads PCM data from a wav file and provides it through
// a callback in chunks of FramesPerBuffer audio frames.
type WavReader struct {
	sync.RWMutex
	options Options
	file    *os.File
	decoder *wav.Decoder
	cb      audio.OnDataCb
	stop    chan struct{}
}

// NewWavReader opens the wav file at path and returns a WavReader
// initialized for its format.
func NewWavReader(path string, opts ...Option) (*WavReader, error) {

	r := &WavReader{
		options: Options{
			FramesPerBuffer: DefaultFramesPerBuffer,
		},
		stop: make(chan struct{}),
	}

	for _, option := range opts {
		option(&r.options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}

	r.file = f
	r.decoder = d

	return r, nil
}

// Samplerate returns the sampling rate of the wav file.
func (r *WavReader) Samplerate() float64 {
	return float64(r.decoder.SampleRate)
}

// Channels returns the amount of audio channels of the wav file.
func (r *WavReader) Channels() int {
	return int(r.decoder.NumChans)
}

// Duration returns the playback duration of the wav file.
func (r *WavReader) Duration() (time.Duration, error) {
	return r.decoder.Duration()
}

// SetCb sets the callback which will be executed for each chunk of
// audio read from the file.
func (r *WavReader) SetCb(cb audio.OnDataCb) {
	r.Lock()
	defer r.Unlock()
	r.cb = cb
}

// Start reads the wav file from the beginning to the end, executing the
// callback for each chunk. The last message is flagged with EOF. Start
// blocks until the file has been read entirely or Stop has been called.
func (r *WavReader) Start() error {
	r.RLock()
	cb := r.cb
	r.RUnlock()

	if cb == nil {
		return fmt.Errorf("no callback set")
	}

	channels := r.Channels()
	samplerate := r.Samplerate()
	scale := float32(int(1) << uint(r.decoder.BitDepth-1))

	buf := &ga.IntBuffer{
		Format: &ga.Format{
			NumChannels: channels,
			SampleRate:  int(samplerate),
		},
		Data: make([]int, r.options.FramesPerBuffer*channels),
	}

	for {
		select {
		case <-r.stop:
			return nil
		default:
		}

		n, err := r.decoder.PCMBuffer(buf)
		if err != nil {
			return err
		}

		data := make([]float32, n)
		for i := 0; i < n; i++ {
			data[i] = float32(buf.Data[i]) / scale
		}

		msg := audio.Msg{
			Data:       data,
			Samplerate: samplerate,
			Channels:   channels,
			Frames:     n / channels,
			EOF:        n < len(buf.Data),
		}

		cb(msg)

		if msg.EOF {
			return nil
		}
	}
}

// Stop cancels a running Start loop.
func (r *WavReader) Stop() error {
	r.Lock()
	defer r.Unlock()
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	return nil
}

// Close closes the underlying wav file.
func (r *WavReader) Close() error {
	return r.file.Close()
}
