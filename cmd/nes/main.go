// Command nes runs an iNES ROM in an SDL2 window, with audio queued from
// the emulator's APU output buffer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/flga/nes/nes"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	romPath := flag.String("rom", "", "path to an iNES (.nes) ROM file")
	sampleRate := flag.Float64("sample-rate", 44100, "audio output sample rate, in Hz")
	mute := flag.Bool("mute", false, "disable audio output")
	scale := flag.Int("scale", 3, "integer window scale factor")
	flag.Parse()

	if err := run(*romPath, *sampleRate, *mute, *scale); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(romPath string, sampleRate float64, mute bool, scale int) error {
	if romPath == "" {
		return fmt.Errorf("nes: -rom is required")
	}

	logger := slog.Default()

	f, err := os.Open(romPath)
	if err != nil {
		return fmt.Errorf("nes: unable to open rom: %s", err)
	}
	defer f.Close()

	rom, err := nes.ParseROM(f)
	if err != nil {
		return fmt.Errorf("nes: unable to parse rom: %s", err)
	}

	sys := nes.NewSystem(nes.WithLogger(logger), nes.WithSampleRate(sampleRate))
	if err := sys.LoadROM(rom); err != nil {
		return fmt.Errorf("nes: unable to load rom: %s", err)
	}

	if err := sdl.Init(sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK | sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("nes: unable to init sdl: %s", err)
	}
	defer sdl.Quit()

	e, err := newEngine(sys, scaleOrDefault(scale), sampleRate, mute)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigchan
		cancel()
	}()

	return e.run(ctx)
}

func scaleOrDefault(scale int) int {
	if scale <= 0 {
		return 1
	}
	return scale
}
