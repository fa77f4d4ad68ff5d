package cartridge

// Mapper003 implements CNROM: fixed PRG (as NROM) with a switchable 8KB
// CHR ROM bank.
type Mapper003 struct {
	cart     *Cartridge
	prgMask  uint16
	chrBanks int
	chrBank  int
}

// NewMapper003 creates a CNROM mapper.
func NewMapper003(cart *Cartridge) *Mapper003 {
	mask := uint16(0x7FFF)
	if len(cart.prgROM) == 0x4000 {
		mask = 0x3FFF
	}
	return &Mapper003{
		cart:     cart,
		prgMask:  mask,
		chrBanks: len(cart.chrMem) / 0x2000,
	}
}

func (m *Mapper003) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		return m.cart.prgROM[(address-0x8000)&m.prgMask]
	case address >= 0x6000:
		return m.cart.readSRAM(address)
	default:
		return 0
	}
}

func (m *Mapper003) WritePRG(address uint16, value uint8) {
	switch {
	case address >= 0x8000:
		m.chrBank = int(value) % m.chrBanks
	case address >= 0x6000:
		m.cart.writeSRAM(address, value)
	}
}

func (m *Mapper003) ReadCHR(address uint16) uint8 {
	return m.cart.chrMem[m.chrBank*0x2000+int(address&0x1FFF)]
}

func (m *Mapper003) WriteCHR(address uint16, value uint8) {
	// CNROM carries CHR ROM; writes are ignored
}

func (m *Mapper003) IRQPending() bool { return false }
