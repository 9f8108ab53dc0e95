package nes

import "testing"

func testROM(mapper byte) *ROM {
	return &ROM{
		PRGBanks:   1,
		CHRBanks:   1,
		Mapper:     mapper,
		MirrorMode: MirrorHorizontal,
		PRG:        make([]byte, prgBankLen),
		CHR:        make([]byte, chrBankLen),
	}
}

func TestNewCartridge_MapperDispatch(t *testing.T) {
	tests := []struct {
		mapper byte
		ok     bool
	}{
		{0, true},
		{1, true},
		{2, true},
		{3, true},
		{4, true},
		{5, false},
		{255, false},
	}

	for _, tt := range tests {
		_, err := NewCartridge(testROM(tt.mapper))
		if tt.ok && err != nil {
			t.Errorf("NewCartridge(mapper %d) unexpected error: %v", tt.mapper, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("NewCartridge(mapper %d) expected error, got nil", tt.mapper)
		}
	}
}

func TestCartridge_PRGRAM(t *testing.T) {
	c, err := NewCartridge(testROM(0))
	if err != nil {
		t.Fatalf("NewCartridge() error = %v", err)
	}
	c.Write(0x6000, 0x42)
	if got := c.Read(0x6000); got != 0x42 {
		t.Fatalf("PRG-RAM readback = %#x, want %#x", got, 0x42)
	}
}

func TestCartridge_CHRWriteProtection(t *testing.T) {
	rom := testROM(0)
	c, err := NewCartridge(rom)
	if err != nil {
		t.Fatalf("NewCartridge() error = %v", err)
	}
	c.Write(0x0000, 0x42)
	if got := c.Read(0x0000); got == 0x42 {
		t.Fatalf("CHR-ROM write was not ignored, read back %#x", got)
	}

	ramROM := testROM(0)
	ramROM.CHRBanks = 0
	ramROM.CHR = make([]byte, chrBankLen)
	c, err = NewCartridge(ramROM)
	if err != nil {
		t.Fatalf("NewCartridge() error = %v", err)
	}
	c.Write(0x0000, 0x42)
	if got := c.Read(0x0000); got != 0x42 {
		t.Fatalf("CHR-RAM write not applied, read back %#x, want 0x42", got)
	}
}

func TestCartridge_CiramIndex(t *testing.T) {
	c, err := NewCartridge(testROM(0))
	if err != nil {
		t.Fatalf("NewCartridge() error = %v", err)
	}

	c.WriteNametable(0x2000, 1)
	c.WriteNametable(0x2800, 2)

	if got := c.ReadNametable(0x2400); got != 1 {
		t.Fatalf("horizontal mirror: ReadNametable(0x2400) = %d, want 1", got)
	}
	if got := c.ReadNametable(0x2C00); got != 2 {
		t.Fatalf("horizontal mirror: ReadNametable(0x2C00) = %d, want 2", got)
	}
}
