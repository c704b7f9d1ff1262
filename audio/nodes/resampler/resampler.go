package resampler

import (
	"fmt"
	"sync"

	"github.com/dh1tw/gosamplerate"

	"github.com/dh1tw/gochromaprint/audio"
)

// Resampler implements the audio.Node interface. It converts incoming
// audio buffers to a fixed output sampling rate and forwards them
// through a callback.
type Resampler struct {
	sync.Mutex
	options Options
	cb      audio.OnDataCb
	src     src
	closed  bool
}

// src contains a samplerate converter and its needed variables
type src struct {
	gosamplerate.Src
	samplerate float64
	ratio      float64
}

// NewResampler returns a resampler which will convert all audio
// written to it to the specified output sampling rate.
func NewResampler(opts ...Option) (*Resampler, error) {

	r := &Resampler{
		options: Options{
			Samplerate: 48000,
			Channels:   1,
			Quality:    gosamplerate.SRC_SINC_FASTEST,
		},
	}

	for _, option := range opts {
		option(&r.options)
	}

	srConv, err := gosamplerate.New(r.options.Quality, r.options.Channels, 65536)
	if err != nil {
		return nil, fmt.Errorf("resampler: %v", err)
	}

	r.src = src{
		Src:        srConv,
		samplerate: r.options.Samplerate,
		ratio:      1,
	}

	return r, nil
}

// SetCb sets the callback which will be executed with the resampled
// audio buffers.
func (r *Resampler) SetCb(cb audio.OnDataCb) {
	r.Lock()
	defer r.Unlock()
	r.cb = cb
}

// Write converts the audio contained in the message to the output
// sampling rate and executes the callback. Messages which already
// match the output rate are forwarded unmodified. On an EOF flagged
// message the converter is flushed so that no samples are lost.
func (r *Resampler) Write(msg audio.Msg) error {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return fmt.Errorf("resampler: already closed")
	}

	if msg.Channels != r.options.Channels {
		return fmt.Errorf("resampler: expected %d channels, got %d",
			r.options.Channels, msg.Channels)
	}

	data := msg.Data

	if msg.Samplerate != r.options.Samplerate {
		if r.src.samplerate != msg.Samplerate {
			r.src.Reset()
			r.src.samplerate = msg.Samplerate
			r.src.ratio = r.options.Samplerate / msg.Samplerate
		}
		var err error
		data, err = r.src.Process(data, r.src.ratio, msg.EOF)
		if err != nil {
			return err
		}
	}

	if r.cb == nil {
		return nil
	}

	r.cb(audio.Msg{
		Data:       data,
		Samplerate: r.options.Samplerate,
		Channels:   r.options.Channels,
		Frames:     len(data) / r.options.Channels,
		EOF:        msg.EOF,
	})

	return nil
}

// Close deallocates the underlying samplerate converter.
func (r *Resampler) Close() error {
	r.Lock()
	defer r.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return gosamplerate.Delete(r.src.Src)
}
