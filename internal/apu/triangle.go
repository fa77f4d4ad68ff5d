package apu

// triangleTable is the 32-step triangle output sequence.
var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// triangle is the triangle wave channel, gated by both its length counter
// and the linear counter.
type triangle struct {
	enabled bool

	timer        uint16
	timerCounter uint16

	length     uint8
	lengthHalt bool

	linearCounter uint8
	linearLoad    uint8
	linearReload  bool

	sequence uint8
}

func (t *triangle) setEnabled(enabled bool) {
	t.enabled = enabled
	if !enabled {
		t.length = 0
	}
}

func (t *triangle) writeControl(value uint8) {
	t.lengthHalt = value&0x80 != 0
	t.linearLoad = value & 0x7F
}

func (t *triangle) writeTimerLow(value uint8) {
	t.timer = (t.timer & 0xFF00) | uint16(value)
}

func (t *triangle) writeTimerHigh(value uint8) {
	t.timer = (t.timer & 0x00FF) | (uint16(value&0x07) << 8)
	if t.enabled {
		t.length = lengthTable[value>>3]
	}
	t.linearReload = true
}

func (t *triangle) stepTimer() {
	if t.timerCounter == 0 {
		t.timerCounter = t.timer
		if t.length > 0 && t.linearCounter > 0 {
			t.sequence = (t.sequence + 1) & 0x1F
		}
	} else {
		t.timerCounter--
	}
}

func (t *triangle) clockLinearCounter() {
	if t.linearReload {
		t.linearCounter = t.linearLoad
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}
	if !t.lengthHalt {
		t.linearReload = false
	}
}

func (t *triangle) clockLength() {
	if !t.lengthHalt && t.length > 0 {
		t.length--
	}
}

func (t *triangle) output() uint8 {
	// Very low periods produce ultrasonic output; mute them instead
	if t.length == 0 || t.linearCounter == 0 || t.timer < 2 {
		return 0
	}
	return triangleTable[t.sequence]
}
