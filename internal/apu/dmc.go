package apu

// dmcRateTable maps the 4-bit rate index to timer periods in CPU cycles
// (NTSC), pre-halved because the DMC timer is clocked at the half rate.
var dmcRateTable = [16]uint16{
	214, 190, 170, 160, 143, 127, 113, 107,
	95, 80, 71, 64, 53, 42, 36, 27,
}

// dmc is the delta modulation channel. Sample bytes are fetched through
// the CPU bus; each fetch steals CPU cycles from the running instruction.
type dmc struct {
	enabled bool

	irqEnabled bool
	irq        bool
	loop       bool
	rate       uint8

	level uint8 // 7-bit output DAC

	sampleAddress uint16
	sampleLength  uint16

	currentAddress uint16
	bytesRemaining uint16

	timerCounter uint16

	shift       uint8
	bitsInShift uint8
	buffer      uint8
	bufferFull  bool
}

func (d *dmc) setEnabled(enabled bool) {
	d.enabled = enabled
	if !enabled {
		d.bytesRemaining = 0
	} else if d.bytesRemaining == 0 {
		d.restart()
	}
}

func (d *dmc) restart() {
	d.currentAddress = d.sampleAddress
	d.bytesRemaining = d.sampleLength
}

func (d *dmc) writeControl(value uint8) {
	d.irqEnabled = value&0x80 != 0
	d.loop = value&0x40 != 0
	d.rate = value & 0x0F
	if !d.irqEnabled {
		d.irq = false
	}
}

func (d *dmc) writeDirectLoad(value uint8) {
	d.level = value & 0x7F
}

func (d *dmc) writeSampleAddress(value uint8) {
	d.sampleAddress = 0xC000 | (uint16(value) << 6)
}

func (d *dmc) writeSampleLength(value uint8) {
	d.sampleLength = (uint16(value) << 4) | 1
}

// stepTimer advances the DMC by one half-rate clock and reports whether a
// sample byte was fetched through the bus.
func (d *dmc) stepTimer(read func(address uint16) uint8) bool {
	fetched := false
	if !d.bufferFull && d.bytesRemaining > 0 && read != nil {
		d.buffer = read(d.currentAddress)
		d.bufferFull = true
		fetched = true

		// The address wraps from $FFFF back into the sample area
		if d.currentAddress == 0xFFFF {
			d.currentAddress = 0x8000
		} else {
			d.currentAddress++
		}
		d.bytesRemaining--
		if d.bytesRemaining == 0 {
			if d.loop {
				d.restart()
			} else if d.irqEnabled {
				d.irq = true
			}
		}
	}

	if d.timerCounter > 0 {
		d.timerCounter--
		return fetched
	}
	d.timerCounter = dmcRateTable[d.rate]

	if d.bitsInShift == 0 {
		if !d.bufferFull {
			return fetched
		}
		d.shift = d.buffer
		d.bitsInShift = 8
		d.bufferFull = false
	}

	if d.shift&1 != 0 {
		if d.level <= 125 {
			d.level += 2
		}
	} else if d.level >= 2 {
		d.level -= 2
	}
	d.shift >>= 1
	d.bitsInShift--
	return fetched
}

func (d *dmc) output() uint8 {
	return d.level
}
