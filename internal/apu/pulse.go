package apu

// dutyTable holds the four 8-step pulse duty sequences.
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 75% (25% negated)
}

// pulse is one of the two square wave channels. Pulse 1 subtracts an
// extra 1 in sweep negate mode (one's complement adder).
type pulse struct {
	enabled        bool
	onesComplement bool

	duty     uint8
	sequence uint8

	timer        uint16
	timerCounter uint16

	length     uint8
	lengthHalt bool

	envelope envelope

	sweepEnabled bool
	sweepPeriod  uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepReload  bool
	sweepCounter uint8
}

func (p *pulse) setEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.length = 0
	}
}

func (p *pulse) writeControl(value uint8) {
	p.duty = value >> 6
	p.lengthHalt = value&0x20 != 0
	p.envelope.loop = p.lengthHalt
	p.envelope.constant = value&0x10 != 0
	p.envelope.volume = value & 0x0F
	p.envelope.start = true
}

func (p *pulse) writeSweep(value uint8) {
	p.sweepEnabled = value&0x80 != 0
	p.sweepPeriod = (value >> 4) & 0x07
	p.sweepNegate = value&0x08 != 0
	p.sweepShift = value & 0x07
	p.sweepReload = true
}

func (p *pulse) writeTimerLow(value uint8) {
	p.timer = (p.timer & 0xFF00) | uint16(value)
}

func (p *pulse) writeTimerHigh(value uint8) {
	p.timer = (p.timer & 0x00FF) | (uint16(value&0x07) << 8)
	if p.enabled {
		p.length = lengthTable[value>>3]
	}
	p.envelope.start = true
	p.sequence = 0
}

func (p *pulse) stepTimer() {
	if p.timerCounter == 0 {
		p.timerCounter = p.timer
		p.sequence = (p.sequence + 1) & 0x07
	} else {
		p.timerCounter--
	}
}

func (p *pulse) clockLength() {
	if !p.lengthHalt && p.length > 0 {
		p.length--
	}
}

func (p *pulse) clockSweep() {
	if p.sweepCounter == 0 && p.sweepEnabled && p.sweepShift > 0 {
		change := p.timer >> p.sweepShift
		if p.sweepNegate {
			p.timer -= change
			if p.onesComplement {
				p.timer--
			}
		} else {
			p.timer += change
		}
	}

	if p.sweepCounter == 0 || p.sweepReload {
		p.sweepCounter = p.sweepPeriod
		p.sweepReload = false
	} else {
		p.sweepCounter--
	}
}

func (p *pulse) output() uint8 {
	// Silent when stopped or when the timer leaves the sweep's valid range
	if p.length == 0 || p.timer < 8 || p.timer > 0x7FF {
		return 0
	}
	if dutyTable[p.duty][p.sequence] == 0 {
		return 0
	}
	return p.envelope.level()
}
