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
	"sync"
	"time"

	ringBuffer "github.com/dh1tw/golang-ring"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dh1tw/gochromaprint/audio"
	"github.com/dh1tw/gochromaprint/audio/sources/scReader"
	"github.com/dh1tw/gochromaprint/chromaprint"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Calculate an acoustic fingerprint from a local audio device",
	Long: `Calculate an acoustic fingerprint from a local audio device

Audio is recorded from the specified input device (e.g. a microphone) for
the given duration and fed into the fingerprinting engine.

In order to find the supported audio devices and audio host APIs
for your platform run:

$ gochromaprint(.exe) enumerate
`,
	Run: listenAndFingerprint,
}

func init() {
	RootCmd.AddCommand(listenCmd)
	listenCmd.Flags().StringP("host-api", "H", "default", "audio host API")
	listenCmd.Flags().StringP("device-name", "d", "default", "input device name")
	listenCmd.Flags().Float64P("samplerate", "s", 48000, "sampling rate of the input device")
	listenCmd.Flags().IntP("channels", "c", 1, "amount of channels of the input device")
	listenCmd.Flags().Int("frames-per-buffer", 480, "amount of audio frames requested from the device per buffer")
	listenCmd.Flags().IntP("duration", "t", 10, "recording duration in seconds")
	listenCmd.Flags().StringP("algorithm", "a", "test2", "fingerprint algorithm (test1, test2, test3)")
}

func listenAndFingerprint(cmd *cobra.Command, args []string) {

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
	viper.BindPFlag("input-device.host-api", cmd.Flags().Lookup("host-api"))
	viper.BindPFlag("input-device.device-name", cmd.Flags().Lookup("device-name"))
	viper.BindPFlag("input-device.samplerate", cmd.Flags().Lookup("samplerate"))
	viper.BindPFlag("input-device.channels", cmd.Flags().Lookup("channels"))
	viper.BindPFlag("input-device.frames-per-buffer", cmd.Flags().Lookup("frames-per-buffer"))
	viper.BindPFlag("listen.duration", cmd.Flags().Lookup("duration"))
	viper.BindPFlag("listen.algorithm", cmd.Flags().Lookup("algorithm"))

	hostAPI := viper.GetString("input-device.host-api")
	deviceName := viper.GetString("input-device.device-name")
	samplerate := viper.GetFloat64("input-device.samplerate")
	channels := viper.GetInt("input-device.channels")
	framesPerBuffer := viper.GetInt("input-device.frames-per-buffer")
	duration := viper.GetInt("listen.duration")
	algorithmName := viper.GetString("listen.algorithm")

	algorithm, err := chromaprint.AlgorithmByName(algorithmName)
	if err != nil {
		log.Fatal(err)
	}

	portaudio.Initialize()
	defer portaudio.Terminate()

	// the portaudio callback hands the audio buffers over to a ring
	// buffer from which they are drained in this goroutine
	ring := ringBuffer.Ring{}
	ring.SetCapacity(64)
	ringMutex := sync.Mutex{}
	newData := make(chan struct{}, 1)

	rec, err := scReader.NewScReader(
		scReader.HostAPI(hostAPI),
		scReader.DeviceName(deviceName),
		scReader.Samplerate(samplerate),
		scReader.Channels(channels),
		scReader.FramesPerBuffer(framesPerBuffer),
		scReader.Callback(func(msg audio.Msg) {
			ringMutex.Lock()
			ring.Enqueue(msg)
			ringMutex.Unlock()
			select {
			case newData <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rec.Close()

	fp, err := chromaprint.New(chromaprint.WithAlgorithm(algorithm))
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()

	if err := fp.Start(int(samplerate), channels); err != nil {
		log.Fatal(err)
	}

	// drain dequeues all buffered audio and feeds it into the
	// fingerprinting engine. It returns the amount of frames fed.
	drain := func() int {
		frames := 0
		for {
			ringMutex.Lock()
			item := ring.Dequeue()
			ringMutex.Unlock()
			if item == nil {
				return frames
			}
			msg := item.(audio.Msg)
			if err := fp.Feed(audio.Float32ToInt16LE(msg.Data)); err != nil {
				log.Fatal(err)
			}
			frames += msg.Frames
		}
	}

	if err := rec.Start(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("recording %d seconds from %s\n", duration, deviceName)

	targetFrames := duration * int(samplerate)
	capturedFrames := 0

	// allow some grace time on top of the recording duration in case
	// the device delivers the buffers slower than realtime
	deadline := time.NewTimer(time.Duration(duration)*time.Second + 2*time.Second)
	defer deadline.Stop()

capture:
	for capturedFrames < targetFrames {
		select {
		case <-newData:
			capturedFrames += drain()
		case <-deadline.C:
			break capture
		}
	}

	if err := rec.Stop(); err != nil {
		log.Fatal(err)
	}

	// pick up buffers which arrived while stopping
	drain()

	fingerprint, err := fp.Finish()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("DURATION=%.2f\n", float64(capturedFrames)/samplerate)
	fmt.Printf("FINGERPRINT=%s\n", fingerprint)
}
