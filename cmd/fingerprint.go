// Copyright © 2016 Tobias Wellnitz, DH1TW <Tobias.Wellnitz@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dh1tw/gochromaprint/audio"
	"github.com/dh1tw/gochromaprint/audio/nodes/resampler"
	"github.com/dh1tw/gochromaprint/audio/sources/wavReader"
	"github.com/dh1tw/gochromaprint/chromaprint"
)

// fingerprintCmd represents the fingerprint command
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint [wav file]",
	Short: "Calculate the acoustic fingerprint of a wav file",
	Long: `Calculate the acoustic fingerprint of a wav file

The file is read, optionally resampled to the requested sampling rate and
fed into the fingerprinting engine. The resulting fingerprint is printed
in the compressed, URL safe base64 encoded chromaprint format.
`,
	Args: cobra.ExactArgs(1),
	Run:  fingerprintWavFile,
}

func init() {
	RootCmd.AddCommand(fingerprintCmd)
	fingerprintCmd.Flags().StringP("algorithm", "a", "test2", "fingerprint algorithm (test1, test2, test3)")
	fingerprintCmd.Flags().Bool("raw", false, "print the raw, uncompressed fingerprint values")
	fingerprintCmd.Flags().IntP("rate", "r", 0, "resample the audio to this rate before fingerprinting (0 = keep file rate)")
	fingerprintCmd.Flags().IntP("max-length", "l", 120, "restrict the amount of audio being fingerprinted (seconds, 0 = entire file)")
	fingerprintCmd.Flags().Int("frames-per-buffer", 4096, "amount of audio frames read from the file per buffer")
}

func fingerprintWavFile(cmd *cobra.Command, args []string) {

	// Try to read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	} else {
		if strings.Contains(err.Error(), "Not Found in") {
			// no config file found; defaults and pflags apply
		} else {
			fmt.Fprintf(os.Stderr, "Error parsing config file %v: %v\n",
				viper.ConfigFileUsed(), err)
			os.Exit(1)
		}
	}

	// bind the pflags to viper settings
	viper.BindPFlag("fingerprint.algorithm", cmd.Flags().Lookup("algorithm"))
	viper.BindPFlag("fingerprint.raw", cmd.Flags().Lookup("raw"))
	viper.BindPFlag("fingerprint.rate", cmd.Flags().Lookup("rate"))
	viper.BindPFlag("fingerprint.max-length", cmd.Flags().Lookup("max-length"))
	viper.BindPFlag("fingerprint.frames-per-buffer", cmd.Flags().Lookup("frames-per-buffer"))

	algorithmName := viper.GetString("fingerprint.algorithm")
	raw := viper.GetBool("fingerprint.raw")
	rate := viper.GetInt("fingerprint.rate")
	maxLength := viper.GetInt("fingerprint.max-length")
	framesPerBuffer := viper.GetInt("fingerprint.frames-per-buffer")

	algorithm, err := chromaprint.AlgorithmByName(algorithmName)
	if err != nil {
		log.Fatal(err)
	}

	r, err := wavReader.NewWavReader(args[0],
		wavReader.FramesPerBuffer(framesPerBuffer))
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	channels := r.Channels()
	fileRate := r.Samplerate()

	targetRate := fileRate
	if rate > 0 {
		targetRate = float64(rate)
	}

	duration, err := r.Duration()
	if err != nil {
		log.Fatal(err)
	}

	fp, err := chromaprint.New(chromaprint.WithAlgorithm(algorithm))
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()

	if err := fp.Start(int(targetRate), channels); err != nil {
		log.Fatal(err)
	}

	// feed passes the audio buffers into the fingerprinting engine. EOF
	// flagged messages can still carry data (e.g. the flushed tail of
	// the samplerate converter) and must not be skipped.
	feed := func(msg audio.Msg) {
		if len(msg.Data) == 0 {
			return
		}
		if err := fp.Feed(audio.Float32ToInt16LE(msg.Data)); err != nil {
			log.Fatal(err)
		}
	}

	sink := feed

	if targetRate != fileRate {
		rs, err := resampler.NewResampler(
			resampler.Samplerate(targetRate),
			resampler.Channels(channels))
		if err != nil {
			log.Fatal(err)
		}
		defer rs.Close()
		rs.SetCb(feed)
		sink = func(msg audio.Msg) {
			if err := rs.Write(msg); err != nil {
				log.Fatal(err)
			}
		}
	}

	// truncate the stream after max-length seconds of audio, counted at
	// the file's native rate
	maxSamples := maxLength * int(fileRate) * channels
	fedSamples := 0

	r.SetCb(func(msg audio.Msg) {
		if maxSamples > 0 && fedSamples+len(msg.Data) >= maxSamples {
			msg.Data = msg.Data[:maxSamples-fedSamples]
			msg.Frames = len(msg.Data) / msg.Channels
			msg.EOF = true
			r.Stop()
		}
		fedSamples += len(msg.Data)
		sink(msg)
	})

	if err := r.Start(); err != nil {
		log.Fatal(err)
	}

	fingerprint, err := fp.Finish()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("DURATION=%.2f\n", duration.Seconds())

	if raw {
		values, _, err := chromaprint.DecodeFingerprint(fingerprint, true)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("FINGERPRINT=%s\n", joinInt32(values))
		return
	}

	fmt.Printf("FINGERPRINT=%s\n", fingerprint)
}
