package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// audioEngine queues signed 16-bit PCM samples straight from the APU's
// host-facing output buffer onto an SDL audio device opened for mono
// playback at the emulator's configured sample rate.
type audioEngine struct {
	deviceID sdl.AudioDeviceID
	muted    bool
}

func newAudioEngine(sampleRate float64, mute bool) (*audioEngine, error) {
	if mute {
		return &audioEngine{muted: true}, nil
	}

	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  2048,
	}

	deviceID, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("newAudioEngine: unable to open audio device: %s", err)
	}

	return &audioEngine{deviceID: deviceID}, nil
}

func (a *audioEngine) play() {
	if a.muted {
		return
	}
	sdl.PauseAudioDevice(a.deviceID, false)
}

func (a *audioEngine) pause() {
	if a.muted {
		return
	}
	sdl.PauseAudioDevice(a.deviceID, true)
}

func (a *audioEngine) queue(samples []int16) {
	if a.muted || len(samples) == 0 {
		return
	}
	if err := sdl.QueueAudio(a.deviceID, int16SliceToBytes(samples)); err != nil {
		return
	}
}

func (a *audioEngine) close() {
	if a.muted {
		return
	}
	sdl.CloseAudioDevice(a.deviceID)
}

func int16SliceToBytes(s []int16) []byte {
	b := make([]byte, len(s)*2)
	for i, v := range s {
		b[i*2] = byte(v)
		b[i*2+1] = byte(v >> 8)
	}
	return b
}
