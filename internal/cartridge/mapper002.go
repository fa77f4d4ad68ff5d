package cartridge

// Mapper002 implements UxROM: a switchable 16KB PRG bank at $8000-$BFFF
// and the last 16KB bank fixed at $C000-$FFFF. CHR is unbanked, usually RAM.
type Mapper002 struct {
	cart     *Cartridge
	prgBanks int
	prgBank  int // selected bank for the $8000 window
}

// NewMapper002 creates a UxROM mapper.
func NewMapper002(cart *Cartridge) *Mapper002 {
	return &Mapper002{
		cart:     cart,
		prgBanks: len(cart.prgROM) / 0x4000,
	}
}

func (m *Mapper002) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0xC000:
		offset := (m.prgBanks-1)*0x4000 + int(address-0xC000)
		return m.cart.prgROM[offset]
	case address >= 0x8000:
		offset := m.prgBank*0x4000 + int(address-0x8000)
		return m.cart.prgROM[offset]
	case address >= 0x6000:
		return m.cart.readSRAM(address)
	default:
		return 0
	}
}

func (m *Mapper002) WritePRG(address uint16, value uint8) {
	switch {
	case address >= 0x8000:
		m.prgBank = int(value) % m.prgBanks
	case address >= 0x6000:
		m.cart.writeSRAM(address, value)
	}
}

func (m *Mapper002) ReadCHR(address uint16) uint8 {
	return m.cart.chrMem[address&0x1FFF]
}

func (m *Mapper002) WriteCHR(address uint16, value uint8) {
	if m.cart.hasCHRRAM {
		m.cart.chrMem[address&0x1FFF] = value
	}
}

func (m *Mapper002) IRQPending() bool { return false }
