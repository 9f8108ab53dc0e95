package nes

import (
	"fmt"
	"image"
	"log/slog"
)

// LoadError wraps a LoadROM failure with the sentinel error that caused
// it (ErrUnsupportedMapper, the only one LoadROM produces; ParseROM
// returns ErrInvalidHeader, ErrTrainerUnsupported and ErrIO directly), so
// callers can use errors.Is against the sentinel while still getting a
// readable message.
type LoadError struct {
	err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("nes: load ROM: %s", e.err) }
func (e *LoadError) Unwrap() error { return e.err }

// Option configures a System at construction time.
type Option func(*System)

// WithLogger sets the structured logger the System uses for load failures
// and unimplemented-opcode notices. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.logger = l }
}

// WithSampleRate sets the initial APU host-facing sample rate, in Hz.
func WithSampleRate(hz float64) Option {
	return func(s *System) { s.sampleRate = hz }
}

// System wires a CPU, PPU, APU, two joypads and a Cartridge together on a
// Bus, and drives them one frame at a time. It's the single entry point a
// host program needs: LoadROM, RunFrame, Pixels, OutputBuffer, Joypad.
type System struct {
	bus *Bus

	cpu *CPU
	ppu *PPU
	apu *APU
	ram *RAM

	joypad1 *Joypad
	joypad2 *Joypad

	cart   *Cartridge
	loaded bool

	sampleRate float64
	logger     *slog.Logger
}

// NewSystem builds an unloaded System. Call LoadROM before RunFrame; until
// a ROM is loaded, RunFrame is a no-op.
func NewSystem(opts ...Option) *System {
	s := &System{
		ram:        NewRAM(),
		ppu:        &PPU{},
		joypad1:    &Joypad{},
		joypad2:    &Joypad{},
		sampleRate: 44100,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.ppu.Init()
	s.apu = NewAPU(8192, float32(s.sampleRate), nil)
	s.cpu = NewCPU(nil, s.ppu, s.apu)

	s.bus = &Bus{
		RAM:     s.ram,
		CPU:     s.cpu,
		APU:     s.apu,
		PPU:     s.ppu,
		Joypad1: s.joypad1,
		Joypad2: s.joypad2,
	}

	s.apu.SetMemReader(s.bus.read)

	return s
}

// LoadROM installs rom's Cartridge and resets the console. On failure it
// returns a *LoadError wrapping ErrUnsupportedMapper (the only error
// NewCartridge itself can return; ParseROM-time errors are the caller's
// concern before LoadROM is ever called) and leaves the System unloaded,
// so RunFrame becomes a no-op rather than dereferencing a nil cartridge.
func (s *System) LoadROM(rom *ROM) error {
	cart, err := NewCartridge(rom)
	if err != nil {
		s.loaded = false
		s.logger.Error("load rom failed", "err", err)
		return &LoadError{err: err}
	}

	s.cart = cart
	s.bus.Cartridge = cart
	s.ppu.Cartridge = cart

	s.cpu = NewCPU(nil, s.ppu, s.apu)
	s.bus.CPU = s.cpu
	s.cpu.init(s.bus)

	s.loaded = true
	return nil
}

// RunFrame steps the CPU, which in turn clocks the PPU and APU, until the
// PPU has rendered a full frame or the CPU has hit an opcode it cannot
// execute. It is a no-op until a ROM has been loaded.
func (s *System) RunFrame() {
	if !s.loaded {
		return
	}

	for !s.ppu.FrameReady() {
		s.cpu.Step(s.bus)
		if s.cpu.Done() {
			s.logger.Warn("cpu halted on unimplemented opcode")
			return
		}
	}
}

// Pixels returns the most recently rendered frame as raw RGB rows, top to
// bottom, left to right.
func (s *System) Pixels() *[240][256][3]byte {
	var out [240][256][3]byte
	img := s.ppu.Buffer()
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out[y][x][0] = byte(r >> 8)
			out[y][x][1] = byte(g >> 8)
			out[y][x][2] = byte(b >> 8)
		}
	}
	return &out
}

// FrameReady reports whether RunFrame produced a new frame since the last
// ClearFrameReady.
func (s *System) FrameReady() bool { return s.ppu.FrameReady() }

// ClearFrameReady acknowledges the current frame.
func (s *System) ClearFrameReady() { s.ppu.ClearFrameReady() }

// Joypad returns controller port 1 or 2. Any other port panics, since it
// would indicate a programming error in the host, not a runtime failure.
func (s *System) Joypad(port int) *Joypad {
	switch port {
	case 1:
		return s.joypad1
	case 2:
		return s.joypad2
	default:
		panic(fmt.Sprintf("nes: invalid joypad port %d", port))
	}
}

// OutputBuffer, SampleCount, ClearOutputBuffer and SetSampleRate pass
// straight through to the APU; System just saves the host a field access.
func (s *System) OutputBuffer() []int16 { return s.apu.OutputBuffer() }
func (s *System) SampleCount() int      { return s.apu.SampleCount() }
func (s *System) ClearOutputBuffer()    { s.apu.ClearOutputBuffer() }
func (s *System) SetSampleRate(hz float64) {
	s.sampleRate = hz
	s.apu.SetSampleRate(hz)
}

func (s *System) StartRecording() error { return s.apu.StartRecording() }
func (s *System) PauseRecording()       { s.apu.PauseRecording() }
func (s *System) UnpauseRecording()     { s.apu.UnpauseRecording() }
func (s *System) StopRecording() error  { return s.apu.StopRecording() }

// DrawNameTables renders the four logical nametables into a 512x480 RGB
// buffer (2x2 grid), row-major, 3 bytes per pixel.
func (s *System) DrawNameTables(buf []byte) {
	img := image.NewRGBA(image.Rect(0, 0, 512, 480))
	s.ppu.DrawNametables(img)
	copyRGBAtoRGB(img, buf)
}

// DrawPatternTables renders the two 128x128 CHR pattern tables side by
// side into a 256x128 RGB buffer, using palette as the 4-color group to
// resolve each 2-bit pixel against.
func (s *System) DrawPatternTables(buf []byte, palette byte) {
	img := image.NewRGBA(image.Rect(0, 0, 256, 128))
	s.ppu.DrawPatternTables(img, palette)
	copyRGBAtoRGB(img, buf)
}

func copyRGBAtoRGB(img *image.RGBA, buf []byte) {
	b := img.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			buf[i] = byte(r >> 8)
			buf[i+1] = byte(g >> 8)
			buf[i+2] = byte(bl >> 8)
			i += 3
		}
	}
}
