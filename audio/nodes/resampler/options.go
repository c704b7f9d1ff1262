package resampler

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a resampler.
type Options struct {
	Samplerate float64
	Channels   int
	Quality    int
}

// Samplerate is a functional option to set the output sampling rate
// of the resampler.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// Channels is a functional option to set the amount of audio channels
// the resampler expects in the incoming audio buffers.
func Channels(chs int) Option {
	return func(args *Options) {
		args.Channels = chs
	}
}

// Quality is a functional option to select the converter type of the
// underlying libsamplerate instance (e.g. gosamplerate.SRC_SINC_FASTEST).
func Quality(q int) Option {
	return func(args *Options) {
		args.Quality = q
	}
}
