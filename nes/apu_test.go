package nes

import "testing"

func TestAPU_LengthCounterLoadAndStatus(t *testing.T) {
	apu := NewAPU(256, 44100, nil)

	// Enable pulse0 channel, then load its length counter via $4003.
	apu.writePort(0x4015, 0x01)
	apu.writePort(0x4003, 0x08) // length index 1 -> nonzero

	if got := apu.readPort(0x4015); got&0x01 == 0 {
		t.Fatalf("$4015 = %#x, want pulse0 bit set", got)
	}

	// Disabling the channel via $4015 clears its length counter immediately.
	apu.writePort(0x4015, 0x00)
	if got := apu.readPort(0x4015); got&0x01 != 0 {
		t.Fatalf("$4015 = %#x, want pulse0 bit clear after disable", got)
	}
}

func TestAPU_FrameIRQMode0(t *testing.T) {
	apu := NewAPU(256, 44100, nil)
	apu.writePort(0x4017, 0x00) // 4-step mode, IRQ enabled

	cpu := &CPU{}
	for i := 0; i < 29829; i++ {
		apu.clockFC(cpu)
	}

	if !apu.IRQPending() {
		t.Fatalf("expected frame IRQ pending after 4-step sequence completes")
	}
}

func TestAPU_FrameIRQDisabledByMode1(t *testing.T) {
	apu := NewAPU(256, 44100, nil)
	apu.writePort(0x4017, 0x80) // 5-step mode; never asserts IRQ

	cpu := &CPU{}
	for i := 0; i < 40000; i++ {
		apu.clockFC(cpu)
	}

	if apu.IRQPending() {
		t.Fatalf("5-step mode must never assert the frame IRQ")
	}
}

func TestAPU_FrameIRQInhibitedBit(t *testing.T) {
	apu := NewAPU(256, 44100, nil)
	apu.writePort(0x4017, 0x40) // 4-step mode, IRQ inhibited

	cpu := &CPU{}
	for i := 0; i < 29829; i++ {
		apu.clockFC(cpu)
	}

	if apu.IRQPending() {
		t.Fatalf("IRQ inhibit bit (0x40) must prevent frame IRQ assertion")
	}
}

func TestAPU_StatusReadAcknowledgesIRQ(t *testing.T) {
	apu := NewAPU(256, 44100, nil)
	apu.writePort(0x4017, 0x00)

	cpu := &CPU{}
	for i := 0; i < 29829; i++ {
		apu.clockFC(cpu)
	}
	if !apu.IRQPending() {
		t.Fatalf("setup: expected frame IRQ pending")
	}

	apu.readPort(0x4015)
	if apu.IRQPending() {
		t.Fatalf("reading $4015 must acknowledge the frame IRQ")
	}
}

func TestAPU_OutputBufferQuantizesAndClears(t *testing.T) {
	apu := NewAPU(256, 44100, nil)
	// mixer.buf holds post-filter, DC-blocked samples, already bipolar and
	// centered on ~0, not the raw [0,1) pulseTable/tndTable range.
	apu.mixer.buf = append(apu.mixer.buf, 1.0, 0.0, -1.0)

	out := apu.OutputBuffer()
	if len(out) != 3 {
		t.Fatalf("OutputBuffer len = %d, want 3", len(out))
	}
	if out[0] != 32767 {
		t.Fatalf("quantize(1.0) = %d, want 32767", out[0])
	}
	if out[1] != 0 {
		t.Fatalf("quantize(0.0) = %d, want 0", out[1])
	}
	if out[2] != -32767 {
		t.Fatalf("quantize(-1.0) = %d, want -32767", out[2])
	}

	if apu.SampleCount() != 3 {
		t.Fatalf("SampleCount() = %d, want 3", apu.SampleCount())
	}

	apu.ClearOutputBuffer()
	if apu.SampleCount() != 0 {
		t.Fatalf("SampleCount() after clear = %d, want 0", apu.SampleCount())
	}
}

func TestAPU_SetSampleRateRecomputesDivider(t *testing.T) {
	apu := NewAPU(256, 44100, nil)
	apu.SetSampleRate(22050)

	want := uint64(81) // cpuFreq/22050 = 81.17..., truncated
	if apu.mixer.divider != want {
		t.Fatalf("mixer.divider = %d, want %d", apu.mixer.divider, want)
	}
}

func TestAPU_DMCSampleFetchStallsCPU(t *testing.T) {
	apu := NewAPU(256, 44100, nil)

	mem := []byte{0xAA}
	apu.SetMemReader(func(addr uint16) byte { return mem[0] })

	apu.writePort(0x4010, 0x00) // rate index 0, IRQ disabled, no loop
	apu.writePort(0x4012, 0x00) // sample address $C000
	apu.writePort(0x4013, 0x00) // sample length 1 byte
	apu.writePort(0x4015, 0x10) // enable DMC -> restarts sample

	cpu := &CPU{}
	apu.dmc.clock(cpu)

	if cpu.dmaStall != 4 {
		t.Fatalf("dmaStall after one DMC fetch = %d, want 4", cpu.dmaStall)
	}
	// With the timer and bit counter both at 0, the same clock hands the
	// fetched byte to the output unit, which shifts out its first bit.
	if apu.dmc.sampleBufferFilled || apu.dmc.shiftRegister != 0xAA>>1 {
		t.Fatalf("after fetch: sampleBufferFilled = %v, shiftRegister = %#x, want false, %#x", apu.dmc.sampleBufferFilled, apu.dmc.shiftRegister, 0xAA>>1)
	}
}

func TestAPU_DMCStatusBitAndSilentWhenDisabled(t *testing.T) {
	apu := NewAPU(256, 44100, nil)

	if apu.dmc.sample() != 0 {
		t.Fatalf("disabled DMC must output 0")
	}

	apu.SetMemReader(func(addr uint16) byte { return 0 })
	apu.writePort(0x4012, 0x00)
	apu.writePort(0x4013, 0x00)
	apu.writePort(0x4015, 0x10)

	if got := apu.readPort(0x4015); got&0x10 == 0 {
		t.Fatalf("$4015 = %#x, want DMC bytes-remaining bit set", got)
	}
}
