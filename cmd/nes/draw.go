package main

import (
	"fmt"

	"github.com/flga/nes/nes"
	"github.com/veandco/go-sdl2/sdl"
)

// pixelWindow is a single SDL window backed by one streaming RGB24
// texture, sized for whatever the host wants to show (the game frame, or
// one of the PPU debug surfaces).
type pixelWindow struct {
	visible  bool
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	buf      []byte
}

func newPixelWindow(title string, w, h, scale int, shown bool) (*pixelWindow, error) {
	flags := uint32(sdl.WINDOW_RESIZABLE)
	if shown {
		flags |= sdl.WINDOW_SHOWN
	} else {
		flags |= sdl.WINDOW_HIDDEN
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(w*scale), int32(h*scale), flags)
	if err != nil {
		return nil, fmt.Errorf("unable to create window %q: %s", title, err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("unable to create renderer %q: %s", title, err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("unable to create texture %q: %s", title, err)
	}

	return &pixelWindow{
		visible:  shown,
		window:   window,
		renderer: renderer,
		texture:  texture,
		buf:      make([]byte, w*h*3),
	}, nil
}

func (p *pixelWindow) present(overlay func(*sdl.Renderer)) error {
	pixels, _, err := p.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("unable to lock texture: %s", err)
	}
	copy(pixels, p.buf)
	p.texture.Unlock()

	if err := p.renderer.Clear(); err != nil {
		return fmt.Errorf("unable to clear renderer: %s", err)
	}
	if err := p.renderer.Copy(p.texture, nil, nil); err != nil {
		return fmt.Errorf("unable to copy texture: %s", err)
	}
	if overlay != nil {
		overlay(p.renderer)
	}
	p.renderer.Present()
	return nil
}

func (p *pixelWindow) close() {
	p.texture.Destroy()
	p.renderer.Destroy()
	p.window.Destroy()
}

type gameWindow struct{ *pixelWindow }

func newGameWindow(scale int) (*gameWindow, error) {
	w, err := newPixelWindow("nes", 256, 240, scale, true)
	if err != nil {
		return nil, err
	}
	return &gameWindow{w}, nil
}

func (g *gameWindow) draw(sys *nes.System, h *hud, fps int) error {
	pixels := sys.Pixels()
	i := 0
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			g.buf[i] = pixels[y][x][0]
			g.buf[i+1] = pixels[y][x][1]
			g.buf[i+2] = pixels[y][x][2]
			i += 3
		}
	}
	return g.present(func(r *sdl.Renderer) { h.draw(r, fps) })
}

type patternWindow struct{ *pixelWindow }

func newPatternWindow(scale int) (*patternWindow, error) {
	w, err := newPixelWindow("nes - pattern tables", 256, 128, scale, false)
	if err != nil {
		return nil, err
	}
	return &patternWindow{w}, nil
}

func (p *patternWindow) draw(sys *nes.System) error {
	sys.DrawPatternTables(p.buf, 0)
	return p.present(nil)
}

type nametableWindow struct{ *pixelWindow }

func newNametableWindow(scale int) (*nametableWindow, error) {
	w, err := newPixelWindow("nes - nametables", 512, 480, scale, false)
	if err != nil {
		return nil, err
	}
	return &nametableWindow{w}, nil
}

func (n *nametableWindow) draw(sys *nes.System) error {
	sys.DrawNameTables(n.buf)
	return n.present(nil)
}
