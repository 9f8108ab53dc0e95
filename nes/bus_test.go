package nes

import "testing"

func newTestBus(t *testing.T) *Bus {
	t.Helper()

	cart, err := NewCartridge(testROM(0))
	if err != nil {
		t.Fatalf("NewCartridge() error = %v", err)
	}

	ppu := &PPU{Cartridge: cart}
	ppu.Init()

	return &Bus{
		Cartridge: cart,
		RAM:       NewRAM(),
		PPU:       ppu,
		APU:       NewAPU(256, 44100, nil),
		Joypad1:   &Joypad{},
		Joypad2:   &Joypad{},
	}
}

func TestBus_RAMMirroring(t *testing.T) {
	bus := newTestBus(t)

	bus.write(0x0000, 0x42)
	for _, addr := range []uint16{0x0000, 0x0800, 0x1000, 0x1800} {
		if got := bus.read(addr); got != 0x42 {
			t.Errorf("read(%#x) = %#x, want 0x42", addr, got)
		}
	}
}

func TestBus_JoypadStrobe(t *testing.T) {
	bus := newTestBus(t)

	bus.Joypad1.SetButtonState(A, true)
	bus.Joypad2.SetButtonState(B, true)

	// Writing $4016 strobes both controllers simultaneously.
	bus.write(0x4016, 1)
	bus.write(0x4016, 0)

	if got := bus.read(0x4016); got != 1 {
		t.Fatalf("joypad1 first read = %d, want 1 (A pressed)", got)
	}
	if got := bus.read(0x4017); got != 0 {
		t.Fatalf("joypad2 first read = %d, want 0 (A not pressed)", got)
	}
	if got := bus.read(0x4017); got != 1 {
		t.Fatalf("joypad2 second read = %d, want 1 (B pressed)", got)
	}
}

func TestBus_PRGRAMRoundtrip(t *testing.T) {
	bus := newTestBus(t)

	bus.write(0x6000, 0x99)
	if got := bus.read(0x6000); got != 0x99 {
		t.Fatalf("PRG-RAM readback = %#x, want 0x99", got)
	}
}

func TestBus_UnmappedIOReadsOpenBus(t *testing.T) {
	bus := newTestBus(t)

	if got := bus.read(0x4018); got != 0xFF {
		t.Fatalf("read(0x4018) = %#x, want 0xFF", got)
	}
}

func TestBus_ReadWriteAddress(t *testing.T) {
	bus := newTestBus(t)

	bus.WriteAddress(0x0010, 0xBEEF)
	addr, hi, lo := bus.ReadAddress(0x0010)

	if addr != 0xBEEF {
		t.Fatalf("ReadAddress = %#x, want 0xBEEF", addr)
	}
	if hi != 0xBE || lo != 0xEF {
		t.Fatalf("hi/lo = %#x/%#x, want 0xBE/0xEF", hi, lo)
	}
}
