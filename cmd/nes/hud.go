package main

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

// commonFontPaths lists default system font locations to try, in order,
// since no font is bundled with the module. The HUD is cosmetic; if none
// of these exist the game still runs, just without an FPS readout.
var commonFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
	"/System/Library/Fonts/Menlo.ttc",
}

// hud draws a small FPS readout over the game window using SDL_ttf. It is
// best-effort: construction never fails the whole program, it just leaves
// the HUD disabled.
type hud struct {
	font *ttf.Font
}

func newHUD() *hud {
	if err := ttf.Init(); err != nil {
		return &hud{}
	}

	for _, path := range commonFontPaths {
		if font, err := ttf.OpenFont(path, 14); err == nil {
			return &hud{font: font}
		}
	}

	return &hud{}
}

func (h *hud) draw(renderer *sdl.Renderer, fps int) {
	if h.font == nil {
		return
	}

	surface, err := h.font.RenderUTF8Blended(fpsLabel(fps), sdl.Color{R: 0, G: 255, B: 0, A: 255})
	if err != nil {
		return
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return
	}
	defer texture.Destroy()

	renderer.Copy(texture, nil, &sdl.Rect{X: 2, Y: 2, W: surface.W, H: surface.H})
}

func fpsLabel(fps int) string {
	digits := [10]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	if fps <= 0 {
		return "fps: 0"
	}

	var rev []byte
	for fps > 0 {
		rev = append(rev, digits[fps%10])
		fps /= 10
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return "fps: " + string(rev)
}

func (h *hud) close() {
	if h.font != nil {
		h.font.Close()
	}
}
