package nes

import (
	"errors"
	"testing"
)

func TestSystem_LoadROMRejectsUnsupportedMapper(t *testing.T) {
	sys := NewSystem()

	err := sys.LoadROM(testROM(255))
	if err == nil {
		t.Fatalf("expected error loading unsupported mapper")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error = %v, want *LoadError", err)
	}
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Fatalf("error chain does not contain ErrUnsupportedMapper")
	}

	// RunFrame must remain a no-op since the load failed.
	sys.RunFrame()
}

func TestSystem_RunFrameProducesAFrame(t *testing.T) {
	sys := NewSystem()
	if err := sys.LoadROM(testROM(0)); err != nil {
		t.Fatalf("LoadROM() error = %v", err)
	}

	sys.RunFrame()

	if !sys.FrameReady() {
		t.Fatalf("expected FrameReady() after RunFrame()")
	}

	sys.ClearFrameReady()
	if sys.FrameReady() {
		t.Fatalf("FrameReady() still true after ClearFrameReady()")
	}

	px := sys.Pixels()
	if len(px) != 240 || len(px[0]) != 256 {
		t.Fatalf("Pixels() shape = %dx%d, want 240x256", len(px), len(px[0]))
	}
}

func TestSystem_JoypadPortSelection(t *testing.T) {
	sys := NewSystem()

	if sys.Joypad(1) == nil || sys.Joypad(2) == nil {
		t.Fatalf("Joypad(1)/Joypad(2) must not be nil")
	}
	if sys.Joypad(1) == sys.Joypad(2) {
		t.Fatalf("Joypad(1) and Joypad(2) must be distinct controllers")
	}
}

func TestSystem_JoypadInvalidPortPanics(t *testing.T) {
	sys := NewSystem()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid joypad port")
		}
	}()
	sys.Joypad(3)
}

func TestSystem_OutputBufferPassthrough(t *testing.T) {
	sys := NewSystem()
	if err := sys.LoadROM(testROM(0)); err != nil {
		t.Fatalf("LoadROM() error = %v", err)
	}

	sys.RunFrame()
	buf := sys.OutputBuffer()
	if sys.SampleCount() != len(buf) {
		t.Fatalf("SampleCount() = %d, want len(OutputBuffer()) = %d", sys.SampleCount(), len(buf))
	}

	sys.ClearOutputBuffer()
	if sys.SampleCount() != 0 {
		t.Fatalf("SampleCount() after ClearOutputBuffer() = %d, want 0", sys.SampleCount())
	}
}

func TestSystem_DrawNameTablesAndPatternTables(t *testing.T) {
	sys := NewSystem()
	if err := sys.LoadROM(testROM(0)); err != nil {
		t.Fatalf("LoadROM() error = %v", err)
	}

	nt := make([]byte, 512*480*3)
	sys.DrawNameTables(nt)

	pt := make([]byte, 256*128*3)
	sys.DrawPatternTables(pt, 0)
}
