package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flga/nes/cmd/internal/meter"
	"github.com/flga/nes/nes"
	"github.com/veandco/go-sdl2/sdl"
)

var errQuit = errors.New("quit requested")

var keyboardMapping = map[sdl.Keycode]nes.Button{
	sdl.K_a:      nes.A,
	sdl.K_z:      nes.B,
	sdl.K_RETURN: nes.Start,
	sdl.K_RSHIFT: nes.Select,
	sdl.K_UP:     nes.Up,
	sdl.K_DOWN:   nes.Down,
	sdl.K_LEFT:   nes.Left,
	sdl.K_RIGHT:  nes.Right,
}

var controllerMapping = map[uint8]nes.Button{
	sdl.CONTROLLER_BUTTON_A:          nes.A,
	sdl.CONTROLLER_BUTTON_B:          nes.B,
	sdl.CONTROLLER_BUTTON_START:      nes.Start,
	sdl.CONTROLLER_BUTTON_BACK:       nes.Select,
	sdl.CONTROLLER_BUTTON_DPAD_UP:    nes.Up,
	sdl.CONTROLLER_BUTTON_DPAD_DOWN:  nes.Down,
	sdl.CONTROLLER_BUTTON_DPAD_LEFT:  nes.Left,
	sdl.CONTROLLER_BUTTON_DPAD_RIGHT: nes.Right,
}

// engine owns the game window, the optional debug windows, and the audio
// device, and drives the emulator one frame per display refresh.
type engine struct {
	sys *nes.System

	game      *gameWindow
	pattern   *patternWindow
	nametable *nametableWindow

	audio *audioEngine
	hud   *hud

	paused      bool
	controllers []*sdl.GameController

	fpsMeter *meter.Meter
}

func newEngine(sys *nes.System, scale int, sampleRate float64, mute bool) (*engine, error) {
	game, err := newGameWindow(scale)
	if err != nil {
		return nil, fmt.Errorf("newEngine: %s", err)
	}

	pattern, err := newPatternWindow(scale)
	if err != nil {
		return nil, fmt.Errorf("newEngine: %s", err)
	}

	nametable, err := newNametableWindow(scale)
	if err != nil {
		return nil, fmt.Errorf("newEngine: %s", err)
	}

	audio, err := newAudioEngine(sampleRate, mute)
	if err != nil {
		return nil, fmt.Errorf("newEngine: %s", err)
	}

	return &engine{
		sys:       sys,
		game:      game,
		pattern:   pattern,
		nametable: nametable,
		audio:     audio,
		hud:       newHUD(),
		fpsMeter:  meter.New(30),
	}, nil
}

func (e *engine) close() {
	e.game.close()
	e.pattern.close()
	e.nametable.close()
	e.audio.close()
	e.hud.close()
	for _, c := range e.controllers {
		c.Close()
	}
}

func (e *engine) run(ctx context.Context) error {
	e.audio.play()
	defer e.audio.pause()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := e.poll(); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}

		if !e.paused {
			e.sys.RunFrame()
			e.sys.ClearFrameReady()
			e.audio.queue(e.sys.OutputBuffer())
			e.sys.ClearOutputBuffer()
		}

		if err := e.game.draw(e.sys, e.hud, e.fps()); err != nil {
			return err
		}
		if e.pattern.visible {
			if err := e.pattern.draw(e.sys); err != nil {
				return err
			}
		}
		if e.nametable.visible {
			if err := e.nametable.draw(e.sys); err != nil {
				return err
			}
		}

		e.fpsMeter.Record(time.Since(start))
		start = time.Now()
	}
}

func (e *engine) fps() int { return e.fpsMeter.Tps() }

func (e *engine) poll() error {
	for evt := sdl.PollEvent(); evt != nil; evt = sdl.PollEvent() {
		switch evt := evt.(type) {
		case *sdl.QuitEvent:
			return errQuit

		case *sdl.ControllerDeviceEvent:
			e.refreshControllers()

		case *sdl.KeyboardEvent:
			if evt.Keysym.Sym == sdl.K_SPACE && evt.Type == sdl.KEYDOWN && evt.Repeat == 0 {
				e.paused = !e.paused
				continue
			}
			if evt.Keysym.Sym == sdl.K_F1 && evt.Type == sdl.KEYUP {
				e.pattern.visible = !e.pattern.visible
				continue
			}
			if evt.Keysym.Sym == sdl.K_F2 && evt.Type == sdl.KEYUP {
				e.nametable.visible = !e.nametable.visible
				continue
			}
			if button, ok := keyboardMapping[evt.Keysym.Sym]; ok {
				e.sys.Joypad(1).SetButtonState(button, evt.Type == sdl.KEYDOWN)
			}

		case *sdl.ControllerButtonEvent:
			if button, ok := controllerMapping[evt.Button]; ok {
				e.sys.Joypad(1).SetButtonState(button, evt.Type == sdl.CONTROLLERBUTTONDOWN)
			}
		}
	}

	return nil
}

func (e *engine) refreshControllers() {
	for _, c := range e.controllers {
		c.Close()
	}
	e.controllers = e.controllers[:0]

	for i := 0; i < sdl.NumJoysticks(); i++ {
		if c := sdl.GameControllerOpen(i); c != nil {
			e.controllers = append(e.controllers, c)
		}
	}
}
