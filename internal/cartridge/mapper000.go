package cartridge

// Mapper000 implements NROM: no bank switching. 16KB PRG ROMs mirror into
// the upper half of the $8000-$FFFF window; CHR is a fixed 8KB bank.
type Mapper000 struct {
	cart    *Cartridge
	prgMask uint16 // folds the window onto a 16KB or 32KB ROM
}

// NewMapper000 creates an NROM mapper.
func NewMapper000(cart *Cartridge) *Mapper000 {
	mask := uint16(0x7FFF)
	if len(cart.prgROM) == 0x4000 {
		mask = 0x3FFF
	}
	return &Mapper000{cart: cart, prgMask: mask}
}

func (m *Mapper000) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		return m.cart.prgROM[(address-0x8000)&m.prgMask]
	case address >= 0x6000:
		return m.cart.readSRAM(address)
	default:
		return 0
	}
}

func (m *Mapper000) WritePRG(address uint16, value uint8) {
	if address >= 0x6000 && address < 0x8000 {
		m.cart.writeSRAM(address, value)
	}
	// ROM writes are ignored
}

func (m *Mapper000) ReadCHR(address uint16) uint8 {
	return m.cart.chrMem[address&0x1FFF]
}

func (m *Mapper000) WriteCHR(address uint16, value uint8) {
	if m.cart.hasCHRRAM {
		m.cart.chrMem[address&0x1FFF] = value
	}
}

func (m *Mapper000) IRQPending() bool { return false }
