package nes

// mapperNROM is board 0: no registers, PRG fixed at load (16 KiB ROMs mirror
// into both halves of $8000-$FFFF), CHR fixed (ROM or RAM, never banked).
type mapperNROM struct {
	bankMap
	mirror MirrorMode
}

func newMapperNROM(prg, chr []byte, mirror MirrorMode, chrRAM bool) *mapperNROM {
	m := &mapperNROM{bankMap: newBankMap(prg, chr, 8*1024, chrRAM), mirror: mirror}
	prgBanks := len(prg) / prgSlotSize
	for slot := 0; slot < prgSlots; slot++ {
		m.setPRGMap(slot, slot%prgBanks)
	}
	for slot := 0; slot < chrSlots; slot++ {
		m.setCHRMap(slot, slot)
	}
	return m
}

func (m *mapperNROM) ReadPRG(addr uint16) byte        { return m.readPRG(addr) }
func (m *mapperNROM) WritePRG(addr uint16, v byte)     {}
func (m *mapperNROM) ReadPRGRAM(addr uint16) byte      { return m.prgRAM[addr-0x6000] }
func (m *mapperNROM) WritePRGRAM(addr uint16, v byte)  { m.prgRAM[addr-0x6000] = v }
func (m *mapperNROM) ReadCHR(addr uint16) byte         { return m.readCHR(addr) }
func (m *mapperNROM) WriteCHR(addr uint16, v byte)     { m.writeCHR(addr, v) }
func (m *mapperNROM) MirrorMode() MirrorMode           { return m.mirror }
func (m *mapperNROM) SignalScanline()                  {}
func (m *mapperNROM) IRQPending() bool                 { return false }
