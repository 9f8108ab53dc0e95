package nes

import (
	"bytes"
	"errors"
	"testing"
)

func validHeader() []byte {
	return []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
}

func TestParseROM_BadMagic(t *testing.T) {
	h := validHeader()
	h[0] = 'X'
	_, err := ParseROM(bytes.NewReader(append(h, make([]byte, prgBankLen+chrBankLen)...)))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("ParseROM() error = %v, want %v", err, ErrInvalidHeader)
	}
}

func TestParseROM_TooShort(t *testing.T) {
	_, err := ParseROM(bytes.NewReader([]byte{'N', 'E', 'S', 0x1A}))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("ParseROM() error = %v, want %v", err, ErrInvalidHeader)
	}
}

func TestParseROM_TruncatedPRG(t *testing.T) {
	h := validHeader()
	_, err := ParseROM(bytes.NewReader(append(h, make([]byte, 100)...)))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("ParseROM() error = %v, want %v", err, ErrIO)
	}
}

func TestParseROM_Trainer(t *testing.T) {
	h := validHeader()
	h[6] |= flags6Trainer
	body := append(make([]byte, trainerLen), make([]byte, prgBankLen+chrBankLen)...)
	_, err := ParseROM(bytes.NewReader(append(h, body...)))
	if !errors.Is(err, ErrTrainerUnsupported) {
		t.Fatalf("ParseROM() error = %v, want %v", err, ErrTrainerUnsupported)
	}
}

func TestParseROM_MirrorMode(t *testing.T) {
	tests := []struct {
		name   string
		flags6 byte
		want   MirrorMode
	}{
		{"horizontal", 0, MirrorHorizontal},
		{"vertical", flags6MirrorVertical, MirrorVertical},
		{"four screen overrides", flags6MirrorVertical | flags6FourScreen, MirrorFourScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHeader()
			h[6] = tt.flags6
			rom, err := ParseROM(bytes.NewReader(append(h, make([]byte, prgBankLen+chrBankLen)...)))
			if err != nil {
				t.Fatalf("ParseROM() error = %v", err)
			}
			if rom.MirrorMode != tt.want {
				t.Fatalf("MirrorMode = %v, want %v", rom.MirrorMode, tt.want)
			}
		})
	}
}

func TestParseROM_CHRRAMFallback(t *testing.T) {
	h := validHeader()
	h[5] = 0 // zero CHR banks -> CHR-RAM
	rom, err := ParseROM(bytes.NewReader(append(h, make([]byte, prgBankLen)...)))
	if err != nil {
		t.Fatalf("ParseROM() error = %v", err)
	}
	if len(rom.CHR) != chrBankLen {
		t.Fatalf("len(CHR) = %d, want %d", len(rom.CHR), chrBankLen)
	}
}

func TestParseROM_MapperNumber(t *testing.T) {
	h := validHeader()
	h[6] = 0x40 // low nibble of mapper number
	h[7] = 0x10 // high nibble of mapper number
	rom, err := ParseROM(bytes.NewReader(append(h, make([]byte, prgBankLen+chrBankLen)...)))
	if err != nil {
		t.Fatalf("ParseROM() error = %v", err)
	}
	if rom.Mapper != 0x14 {
		t.Fatalf("Mapper = %#x, want %#x", rom.Mapper, 0x14)
	}
}
