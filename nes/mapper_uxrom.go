package nes

// mapperUxROM is board 2: a single 16 KiB PRG bank register at $8000-$FFFF
// selects the bank visible at $8000-$BFFF; $C000-$FFFF is fixed to the last
// PRG bank. CHR is unbanked (8 KiB), ROM or RAM depending on the cartridge.
type mapperUxROM struct {
	bankMap
	mirror MirrorMode
}

func newMapperUxROM(prg, chr []byte, mirror MirrorMode, chrRAM bool) *mapperUxROM {
	m := &mapperUxROM{bankMap: newBankMap(prg, chr, 8*1024, chrRAM), mirror: mirror}
	lastBank := len(prg)/prgSlotSize - 1
	m.setPRGMap(0, 0)
	m.setPRGMap(1, 1)
	m.setPRGMap(2, lastBank-1)
	m.setPRGMap(3, lastBank)
	for slot := 0; slot < chrSlots; slot++ {
		m.setCHRMap(slot, slot)
	}
	return m
}

func (m *mapperUxROM) ReadPRG(addr uint16) byte { return m.readPRG(addr) }

func (m *mapperUxROM) WritePRG(addr uint16, v byte) {
	bank := int(v) * 2 // 16 KiB PRG bank == two 8 KiB slots
	m.setPRGMap(0, bank)
	m.setPRGMap(1, bank+1)
}

func (m *mapperUxROM) ReadPRGRAM(addr uint16) byte     { return m.prgRAM[addr-0x6000] }
func (m *mapperUxROM) WritePRGRAM(addr uint16, v byte) { m.prgRAM[addr-0x6000] = v }
func (m *mapperUxROM) ReadCHR(addr uint16) byte        { return m.readCHR(addr) }
func (m *mapperUxROM) WriteCHR(addr uint16, v byte)    { m.writeCHR(addr, v) }
func (m *mapperUxROM) MirrorMode() MirrorMode          { return m.mirror }
func (m *mapperUxROM) SignalScanline()                 {}
func (m *mapperUxROM) IRQPending() bool                { return false }
