// Package apu implements the 2A03 Audio Processing Unit: four waveform
// channels, the delta modulation channel, and the frame counter.
package apu

// APU is clocked once per CPU cycle by the console. Audio samples
// accumulate in an internal buffer that the frontend drains with Samples.
type APU struct {
	pulse1   pulse
	pulse2   pulse
	triangle triangle
	noise    noise
	dmc      dmc

	cycles uint64

	// Frame counter
	frameCounter uint32
	fiveStep     bool
	irqInhibit   bool
	frameIRQ     bool

	// Sample generation
	sampleRate   int
	cpuFrequency float64
	accumulator  float64
	samples      []float32

	// CPU cycles stolen by DMC sample fetches since the last TakeStall
	stallCycles int

	// dmaRead fetches DMC sample bytes through the CPU bus
	dmaRead func(address uint16) uint8
}

const ntscCPUFrequency = 1789773.0

// New creates an APU.
func New() *APU {
	apu := &APU{
		sampleRate:   44100,
		cpuFrequency: ntscCPUFrequency,
		samples:      make([]float32, 0, 4096),
	}
	apu.noise.shift = 1
	apu.pulse1.onesComplement = true
	return apu
}

// Reset returns the APU to its power-on state.
func (apu *APU) Reset() {
	dmaRead := apu.dmaRead
	sampleRate := apu.sampleRate
	*apu = APU{
		sampleRate:   sampleRate,
		cpuFrequency: ntscCPUFrequency,
		samples:      apu.samples[:0],
		dmaRead:      dmaRead,
	}
	apu.noise.shift = 1
	apu.pulse1.onesComplement = true
}

// SetDMAReadCallback wires the CPU bus read the DMC uses to fetch sample
// bytes. Each fetch steals CPU cycles, surfaced through TakeStall.
func (apu *APU) SetDMAReadCallback(read func(address uint16) uint8) {
	apu.dmaRead = read
}

// TakeStall returns the CPU cycles stolen by DMC fetches since the last
// call and resets the count.
func (apu *APU) TakeStall() int {
	n := apu.stallCycles
	apu.stallCycles = 0
	return n
}

// IRQLine reports the level of the APU's IRQ output: frame counter IRQ or
// DMC completion IRQ.
func (apu *APU) IRQLine() bool {
	return apu.frameIRQ || apu.dmc.irq
}

// SetSampleRate sets the output sample rate.
func (apu *APU) SetSampleRate(rate int) {
	apu.sampleRate = rate
	apu.accumulator = 0
}

// SampleRate returns the output sample rate.
func (apu *APU) SampleRate() int {
	return apu.sampleRate
}

// Samples drains the accumulated audio samples.
func (apu *APU) Samples() []float32 {
	out := make([]float32, len(apu.samples))
	copy(out, apu.samples)
	apu.samples = apu.samples[:0]
	return out
}

// Step advances the APU by one CPU cycle.
func (apu *APU) Step() {
	apu.cycles++

	apu.stepFrameCounter()

	// Pulse, noise and DMC timers run at half the CPU rate; the triangle
	// timer runs at the full rate.
	if apu.cycles%2 == 0 {
		apu.pulse1.stepTimer()
		apu.pulse2.stepTimer()
		apu.noise.stepTimer()
		if apu.dmc.stepTimer(apu.dmaRead) {
			apu.stallCycles += 4
		}
	}
	apu.triangle.stepTimer()

	apu.generateSample()
}

// Frame counter step boundaries in CPU cycles (NTSC).
const (
	quarterFrame1 = 7457
	quarterFrame2 = 14913
	quarterFrame3 = 22371
	quarterFrame4 = 29829
	fourStepEnd   = 29830
	fiveStepEnd   = 37281
)

func (apu *APU) stepFrameCounter() {
	apu.frameCounter++

	if apu.fiveStep {
		switch apu.frameCounter {
		case quarterFrame1, quarterFrame3:
			apu.clockQuarterFrame()
		case quarterFrame2:
			apu.clockQuarterFrame()
			apu.clockHalfFrame()
		case fiveStepEnd:
			apu.clockQuarterFrame()
			apu.clockHalfFrame()
			apu.frameCounter = 0
		}
		return
	}

	switch apu.frameCounter {
	case quarterFrame1, quarterFrame3:
		apu.clockQuarterFrame()
	case quarterFrame2:
		apu.clockQuarterFrame()
		apu.clockHalfFrame()
	case quarterFrame4:
		apu.clockQuarterFrame()
		apu.clockHalfFrame()
	case fourStepEnd:
		if !apu.irqInhibit {
			apu.frameIRQ = true
		}
		apu.frameCounter = 0
	}
}

func (apu *APU) clockQuarterFrame() {
	apu.pulse1.envelope.clock()
	apu.pulse2.envelope.clock()
	apu.noise.envelope.clock()
	apu.triangle.clockLinearCounter()
}

func (apu *APU) clockHalfFrame() {
	apu.pulse1.clockLength()
	apu.pulse1.clockSweep()
	apu.pulse2.clockLength()
	apu.pulse2.clockSweep()
	apu.triangle.clockLength()
	apu.noise.clockLength()
}

// WriteRegister writes to an APU register ($4000-$4013, $4015, $4017).
func (apu *APU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x4000:
		apu.pulse1.writeControl(value)
	case 0x4001:
		apu.pulse1.writeSweep(value)
	case 0x4002:
		apu.pulse1.writeTimerLow(value)
	case 0x4003:
		apu.pulse1.writeTimerHigh(value)

	case 0x4004:
		apu.pulse2.writeControl(value)
	case 0x4005:
		apu.pulse2.writeSweep(value)
	case 0x4006:
		apu.pulse2.writeTimerLow(value)
	case 0x4007:
		apu.pulse2.writeTimerHigh(value)

	case 0x4008:
		apu.triangle.writeControl(value)
	case 0x400A:
		apu.triangle.writeTimerLow(value)
	case 0x400B:
		apu.triangle.writeTimerHigh(value)

	case 0x400C:
		apu.noise.writeControl(value)
	case 0x400E:
		apu.noise.writePeriod(value)
	case 0x400F:
		apu.noise.writeLength(value)

	case 0x4010:
		apu.dmc.writeControl(value)
	case 0x4011:
		apu.dmc.writeDirectLoad(value)
	case 0x4012:
		apu.dmc.writeSampleAddress(value)
	case 0x4013:
		apu.dmc.writeSampleLength(value)

	case 0x4015:
		apu.writeControl(value)

	case 0x4017:
		apu.writeFrameCounter(value)
	}
}

// ReadStatus reads $4015: channel activity, frame IRQ and DMC IRQ. The
// read clears the frame IRQ flag.
func (apu *APU) ReadStatus() uint8 {
	var status uint8
	if apu.pulse1.length > 0 {
		status |= 0x01
	}
	if apu.pulse2.length > 0 {
		status |= 0x02
	}
	if apu.triangle.length > 0 {
		status |= 0x04
	}
	if apu.noise.length > 0 {
		status |= 0x08
	}
	if apu.dmc.bytesRemaining > 0 {
		status |= 0x10
	}
	if apu.frameIRQ {
		status |= 0x40
	}
	if apu.dmc.irq {
		status |= 0x80
	}

	apu.frameIRQ = false
	return status
}

// writeControl handles $4015: channel enables. Disabling a channel zeroes
// its length counter; enabling the DMC restarts its sample if finished.
func (apu *APU) writeControl(value uint8) {
	apu.pulse1.setEnabled(value&0x01 != 0)
	apu.pulse2.setEnabled(value&0x02 != 0)
	apu.triangle.setEnabled(value&0x04 != 0)
	apu.noise.setEnabled(value&0x08 != 0)
	apu.dmc.setEnabled(value&0x10 != 0)

	apu.dmc.irq = false
}

// writeFrameCounter handles $4017: sequencer mode and IRQ inhibit. The
// sequence restarts, and 5-step mode clocks every unit immediately.
func (apu *APU) writeFrameCounter(value uint8) {
	apu.fiveStep = value&0x80 != 0
	apu.irqInhibit = value&0x40 != 0
	if apu.irqInhibit {
		apu.frameIRQ = false
	}

	apu.frameCounter = 0
	if apu.fiveStep {
		apu.clockQuarterFrame()
		apu.clockHalfFrame()
	}
}

func (apu *APU) generateSample() {
	apu.accumulator += float64(apu.sampleRate) / apu.cpuFrequency
	if apu.accumulator < 1.0 {
		return
	}
	apu.accumulator -= 1.0
	apu.samples = append(apu.samples, apu.mix())
}

// mix applies the non-linear NES mixer approximation.
func (apu *APU) mix() float32 {
	pulseSum := float64(apu.pulse1.output() + apu.pulse2.output())
	var pulseOut float64
	if pulseSum != 0 {
		pulseOut = 95.88 / (8128.0/pulseSum + 100.0)
	}

	tndSum := float64(apu.triangle.output())/8227.0 +
		float64(apu.noise.output())/12241.0 +
		float64(apu.dmc.output())/22638.0
	var tndOut float64
	if tndSum != 0 {
		tndOut = 159.79 / (1.0/tndSum + 100.0)
	}

	// pulseOut+tndOut sits in [0,1); center it around zero
	return float32(2.0*(pulseOut+tndOut) - 1.0)
}

// lengthTable maps the 5-bit length index from channel writes to the
// loaded length counter value.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 8, 48, 6, 96, 4,
	192, 2, 72, 16, 28, 32, 52, 2,
}

// envelope is the shared volume envelope unit of the pulse and noise
// channels.
type envelope struct {
	start    bool
	loop     bool
	constant bool
	volume   uint8
	divider  uint8
	decay    uint8
}

func (e *envelope) clock() {
	switch {
	case e.start:
		e.start = false
		e.decay = 15
		e.divider = e.volume
	case e.divider == 0:
		e.divider = e.volume
		if e.decay > 0 {
			e.decay--
		} else if e.loop {
			e.decay = 15
		}
	default:
		e.divider--
	}
}

func (e *envelope) level() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decay
}
