package apu

// noisePeriodTable maps the 4-bit period index to timer periods (NTSC).
var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160,
	202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// noise is the pseudo-random channel built around a 15-bit LFSR.
type noise struct {
	enabled bool

	mode   bool // short sequence: feedback taps bit 6 instead of bit 1
	period uint8

	timerCounter uint16

	length     uint8
	lengthHalt bool

	envelope envelope

	shift uint16
}

func (n *noise) setEnabled(enabled bool) {
	n.enabled = enabled
	if !enabled {
		n.length = 0
	}
}

func (n *noise) writeControl(value uint8) {
	n.lengthHalt = value&0x20 != 0
	n.envelope.loop = n.lengthHalt
	n.envelope.constant = value&0x10 != 0
	n.envelope.volume = value & 0x0F
	n.envelope.start = true
}

func (n *noise) writePeriod(value uint8) {
	n.mode = value&0x80 != 0
	n.period = value & 0x0F
}

func (n *noise) writeLength(value uint8) {
	if n.enabled {
		n.length = lengthTable[value>>3]
	}
	n.envelope.start = true
}

func (n *noise) stepTimer() {
	if n.timerCounter == 0 {
		n.timerCounter = noisePeriodTable[n.period]

		feedback := n.shift & 1
		if n.mode {
			feedback ^= (n.shift >> 6) & 1
		} else {
			feedback ^= (n.shift >> 1) & 1
		}
		n.shift = (n.shift >> 1) | (feedback << 14)
	} else {
		n.timerCounter--
	}
}

func (n *noise) clockLength() {
	if !n.lengthHalt && n.length > 0 {
		n.length--
	}
}

func (n *noise) output() uint8 {
	if n.length == 0 || n.shift&1 != 0 {
		return 0
	}
	return n.envelope.level()
}
