package nes

import "testing"

// newCPUTestBus builds a Bus around a 16 KiB NROM cartridge whose PRG is
// addressable program memory; prg is written starting at CPU address
// 0x8000 and the reset vector is pointed at 0x8000.
func newCPUTestBus(t *testing.T, prg []byte) (*Bus, *CPU) {
	t.Helper()

	raw := make([]byte, prgBankLen)
	copy(raw, prg)

	// reset vector -> 0x8000
	raw[len(raw)-4] = 0x00
	raw[len(raw)-3] = 0x80
	// nmi vector -> 0x9000 (unused unless a test jumps there)
	raw[len(raw)-6] = 0x00
	raw[len(raw)-5] = 0x90
	// irq/brk vector -> 0x9100
	raw[len(raw)-2] = 0x00
	raw[len(raw)-1] = 0x91

	cart, err := NewCartridge(&ROM{
		PRGBanks:   1,
		CHRBanks:   1,
		Mapper:     0,
		MirrorMode: MirrorHorizontal,
		PRG:        raw,
		CHR:        make([]byte, chrBankLen),
	})
	if err != nil {
		t.Fatalf("NewCartridge() error = %v", err)
	}

	ppu := &PPU{Cartridge: cart}
	ppu.Init()
	apu := NewAPU(256, 44100, nil)
	cpu := NewCPU(nil, ppu, apu)

	bus := &Bus{
		Cartridge: cart,
		RAM:       NewRAM(),
		CPU:       cpu,
		APU:       apu,
		PPU:       ppu,
		Joypad1:   &Joypad{},
		Joypad2:   &Joypad{},
	}

	cpu.init(bus)

	return bus, cpu
}

func run(t *testing.T, prg []byte, steps int) (*Bus, *CPU) {
	t.Helper()
	bus, cpu := newCPUTestBus(t, prg)
	for i := 0; i < steps; i++ {
		cpu.Step(bus)
	}
	return bus, cpu
}

func TestCPU_LDA_STA_INX(t *testing.T) {
	prg := []byte{
		0xA9, 0x42, // LDA #$42
		0x85, 0x10, // STA $10
		0xA2, 0x00, // LDX #$00
		0xE8, // INX
	}

	bus, cpu := run(t, prg, 4)

	if cpu.a != 0x42 {
		t.Fatalf("A = %#x, want %#x", cpu.a, 0x42)
	}
	if got := bus.read(0x0010); got != 0x42 {
		t.Fatalf("RAM[0x10] = %#x, want %#x", got, 0x42)
	}
	if cpu.x != 1 {
		t.Fatalf("X = %d, want 1", cpu.x)
	}
}

func TestCPU_ZeroAndNegativeFlags(t *testing.T) {
	prg := []byte{
		0xA9, 0x00, // LDA #$00 -> Z set, N clear
	}
	_, cpu := run(t, prg, 1)

	if cpu.p&zero == 0 {
		t.Fatalf("zero flag not set for LDA #0")
	}
	if cpu.p&negative != 0 {
		t.Fatalf("negative flag unexpectedly set for LDA #0")
	}

	prg = []byte{
		0xA9, 0x80, // LDA #$80 -> N set, Z clear
	}
	_, cpu = run(t, prg, 1)

	if cpu.p&negative == 0 {
		t.Fatalf("negative flag not set for LDA #$80")
	}
	if cpu.p&zero != 0 {
		t.Fatalf("zero flag unexpectedly set for LDA #$80")
	}
}

func TestCPU_ADC_Carry(t *testing.T) {
	prg := []byte{
		0xA9, 0xFF, // LDA #$FF
		0x18,       // CLC
		0x69, 0x02, // ADC #$02 -> A=0x01, carry set
	}
	_, cpu := run(t, prg, 3)

	if cpu.a != 0x01 {
		t.Fatalf("A = %#x, want 0x01", cpu.a)
	}
	if cpu.p&carry == 0 {
		t.Fatalf("expected carry set after overflowing ADC")
	}
}

func TestCPU_StackWrap(t *testing.T) {
	prg := []byte{
		0xA9, 0x11, // LDA #$11
		0x48, // PHA
		0xA9, 0x00,
		0x68, // PLA
	}
	_, cpu := run(t, prg, 4)

	if cpu.a != 0x11 {
		t.Fatalf("A after PLA = %#x, want 0x11", cpu.a)
	}
	if cpu.s != 0xFD {
		t.Fatalf("S after push/pull pair = %#x, want 0xFD", cpu.s)
	}
}

func TestCPU_IRQMaskedByInterruptDisable(t *testing.T) {
	prg := []byte{
		0x78, // SEI
		0xEA, // NOP
		0xEA, // NOP
	}
	bus, cpu := newCPUTestBus(t, prg)

	cpu.Step(bus) // SEI
	cpu.SetIRQ(irqSourceFrameCounter, true)
	pc := cpu.pc
	cpu.Step(bus) // NOP, IRQ should not fire
	if cpu.pc != pc+1 {
		t.Fatalf("IRQ fired despite interruptDisable set")
	}
}

func TestCPU_IRQServicedWhenEnabled(t *testing.T) {
	prg := []byte{
		0xEA, // NOP
	}
	bus, cpu := newCPUTestBus(t, prg)

	// Power-on status has interruptDisable set; clear it so the IRQ is taken.
	cpu.p &^= interruptDisable
	cpu.SetIRQ(irqSourceMapper, true)
	cpu.Step(bus)

	if cpu.pc != 0x9100 {
		t.Fatalf("pc after serviced IRQ = %#x, want 0x9100", cpu.pc)
	}
	if cpu.p&interruptDisable == 0 {
		t.Fatalf("interruptDisable not set after entering IRQ handler")
	}
}

func TestCPU_DoneOnKIL(t *testing.T) {
	prg := []byte{
		0x02, // KIL
	}
	_, cpu := run(t, prg, 1)

	if !cpu.Done() {
		t.Fatalf("expected CPU.Done() after KIL")
	}
}
