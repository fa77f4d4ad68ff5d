// Package input implements the standard NES controller protocol.
package input

// Button represents one NES controller button as its bit in the shift
// register, in read order: A first.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models one standard controller: eight buttons latched into a
// shift register by the strobe and clocked out one bit per read.
type Controller struct {
	buttons uint8
	shift   uint8
	reads   uint8
	strobe  bool
}

// SetButton sets the live state of one button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
	if c.strobe {
		c.latch()
	}
}

func (c *Controller) latch() {
	c.shift = c.buttons
	c.reads = 0
}

func (c *Controller) write(value uint8) {
	strobe := value&1 != 0
	if strobe {
		c.latch()
	} else if c.strobe {
		// Falling edge re-latches so the next reads see a fresh snapshot
		c.latch()
	}
	c.strobe = strobe
}

func (c *Controller) read() uint8 {
	// While the strobe is high the register keeps reloading, so every
	// read reports button A.
	if c.strobe {
		return c.buttons & 1
	}
	// Official controllers return 1 once all eight bits are clocked out
	if c.reads >= 8 {
		return 1
	}
	bit := c.shift & 1
	c.shift >>= 1
	c.reads++
	return bit
}

// System is the pair of controller ports behind $4016/$4017.
type System struct {
	controllers [2]Controller
}

// NewSystem creates the controller ports.
func NewSystem() *System {
	return &System{}
}

// Controller returns the controller in the given port (0 or 1).
func (s *System) Controller(port int) *Controller {
	return &s.controllers[port&1]
}

// Read clocks one bit out of the addressed controller. Only D0 is driven;
// the bus merges the remaining bits with open bus.
func (s *System) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return s.controllers[0].read()
	case 0x4017:
		return s.controllers[1].read()
	default:
		return 0
	}
}

// Write drives the strobe line shared by both ports ($4016 bit 0).
func (s *System) Write(address uint16, value uint8) {
	if address != 0x4016 {
		return
	}
	s.controllers[0].write(value)
	s.controllers[1].write(value)
}
