package nes

// Cartridge owns the loaded ROM's PRG/CHR images and the active Mapper,
// and translates PPU nametable addresses through the cartridge's mirroring
// mode. The Bus and PPU hold a *Cartridge each; neither needs to know which
// mapper variant is loaded.
type Cartridge struct {
	mapper Mapper

	// ciram is the console's 2 KiB of nametable RAM. Four-screen boards
	// bypass it entirely and use vram instead.
	ciram [2 * 1024]byte
	vram  [4 * 1024]byte // cartridge-resident VRAM, four-screen boards only
}

// NewCartridge builds the Cartridge for a parsed ROM, selecting a Mapper
// implementation by rom.Mapper. Mapper numbers outside {0,1,2,3,4} are
// rejected with ErrUnsupportedMapper.
func NewCartridge(rom *ROM) (*Cartridge, error) {
	// CHRBanks == 0 means the board has no CHR-ROM chip and rom.CHR is the
	// 8 KiB of CHR-RAM allocated in place of it (see rom.go); only then is
	// a PPU write to pattern-table space meaningful.
	chrRAM := rom.CHRBanks == 0

	var m Mapper
	switch rom.Mapper {
	case 0:
		m = newMapperNROM(rom.PRG, rom.CHR, rom.MirrorMode, chrRAM)
	case 1:
		m = newMapperMMC1(rom.PRG, rom.CHR, rom.MirrorMode == MirrorFourScreen, chrRAM)
	case 2:
		m = newMapperUxROM(rom.PRG, rom.CHR, rom.MirrorMode, chrRAM)
	case 3:
		m = newMapperCNROM(rom.PRG, rom.CHR, rom.MirrorMode, chrRAM)
	case 4:
		m = newMapperMMC3(rom.PRG, rom.CHR, rom.MirrorMode, chrRAM)
	default:
		return nil, ErrUnsupportedMapper
	}
	return &Cartridge{mapper: m}, nil
}

func (c *Cartridge) Read(address uint16) byte {
	switch {
	case address < 0x2000:
		return c.mapper.ReadCHR(address)
	case address >= 0x8000:
		return c.mapper.ReadPRG(address)
	case address >= 0x6000:
		return c.mapper.ReadPRGRAM(address)
	}
	return 0
}

func (c *Cartridge) Write(address uint16, value byte) {
	switch {
	case address < 0x2000:
		c.mapper.WriteCHR(address, value)
	case address >= 0x8000:
		c.mapper.WritePRG(address, value)
	case address >= 0x6000:
		c.mapper.WritePRGRAM(address, value)
	}
}

func (c *Cartridge) SignalScanline() { c.mapper.SignalScanline() }
func (c *Cartridge) IRQPending() bool { return c.mapper.IRQPending() }

// ReadNametable and WriteNametable fold a $2000-$2FFF PPU address through
// the cartridge's mirroring mode onto either onboard CIRAM or, for
// four-screen boards, the cartridge's own VRAM.
func (c *Cartridge) ReadNametable(address uint16) byte {
	if c.mapper.MirrorMode() == MirrorFourScreen {
		return c.vram[address&0x0FFF]
	}
	return c.ciram[c.ciramIndex(address)]
}

func (c *Cartridge) WriteNametable(address uint16, value byte) {
	if c.mapper.MirrorMode() == MirrorFourScreen {
		c.vram[address&0x0FFF] = value
		return
	}
	c.ciram[c.ciramIndex(address)] = value
}

func (c *Cartridge) ciramIndex(address uint16) uint16 {
	table := (address / 0x400) % 4 // which of the 4 logical nametables
	offset := address % 0x400

	var physical uint16
	switch c.mapper.MirrorMode() {
	case MirrorHorizontal:
		physical = table / 2 // {0,1}->0, {2,3}->1
	case MirrorVertical:
		physical = table % 2 // {0,2}->0, {1,3}->1
	case MirrorSingleLower:
		physical = 0
	case MirrorSingleUpper:
		physical = 1
	default:
		physical = table % 2
	}
	return physical*0x400 + offset
}
