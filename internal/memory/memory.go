// Package memory implements the CPU and PPU address spaces for the NES.
package memory

// Memory implements the CPU-visible 16-bit address space: 2KB of mirrored
// work RAM, the PPU register window, APU/controller registers and the
// cartridge. It is the Bus Capability the CPU performs every access through.
type Memory struct {
	// Internal RAM (2KB, mirrored through $1FFF)
	ram [0x800]uint8

	// PPU registers (mirrored every 8 bytes through $3FFF)
	ppuRegisters PPUInterface

	// APU and I/O registers
	apuRegisters APUInterface

	// Controllers
	inputSystem InputInterface

	// Cartridge
	cartridge CartridgeInterface

	// OAM DMA trigger ($4014); wired by the console coordinator so the
	// cycle-stealing stall is accounted where cycles are counted
	dmaCallback func(page uint8)

	// Last value driven on the bus, returned for unmapped reads
	openBusValue uint8
}

// PPUInterface defines the PPU register window.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface defines the APU register window.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface defines controller access at $4016/$4017.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface is the mapper capability as seen from the buses.
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// New creates the CPU address space.
func New(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *Memory {
	mem := &Memory{
		ppuRegisters: ppu,
		apuRegisters: apu,
		cartridge:    cart,
	}
	mem.initializePowerUpRAM()
	return mem
}

// SetInputSystem wires the controller ports.
func (m *Memory) SetInputSystem(input InputInterface) {
	m.inputSystem = input
}

// SetDMACallback wires the $4014 OAM DMA trigger.
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// initializePowerUpRAM fills work RAM with a semi-random power-up pattern.
// Real NES RAM does not come up zeroed, and some games and test ROMs
// observe that.
func (m *Memory) initializePowerUpRAM() {
	for i := range m.ram {
		switch i % 4 {
		case 0:
			m.ram[i] = 0x00
		case 1:
			m.ram[i] = 0xFF
		case 2:
			m.ram[i] = 0xAA
		case 3:
			m.ram[i] = 0x55
		}
	}
}

// Read reads a byte from the CPU address space.
func (m *Memory) Read(address uint16) uint8 {
	var value uint8

	switch {
	case address < 0x2000:
		value = m.ram[address&0x07FF]

	case address < 0x4000:
		value = m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))

	case address < 0x4020:
		switch {
		case address == 0x4015:
			value = m.apuRegisters.ReadStatus()
		case address == 0x4016 || address == 0x4017:
			if m.inputSystem != nil {
				// Controller reads only drive the low bits; the rest is
				// open bus.
				value = (m.openBusValue & 0xE0) | (m.inputSystem.Read(address) & 0x1F)
			} else {
				value = m.openBusValue
			}
		default:
			// Write-only APU/I/O registers read as open bus
			value = m.openBusValue
		}

	case address < 0x6000:
		// Cartridge expansion area, unmapped for the supported mappers
		value = m.openBusValue

	default:
		// PRG RAM ($6000-$7FFF) and PRG ROM ($8000-$FFFF)
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			value = m.openBusValue
		}
	}

	m.openBusValue = value
	return value
}

// Write writes a byte to the CPU address space.
func (m *Memory) Write(address uint16, value uint8) {
	m.openBusValue = value

	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)

	case address < 0x4020:
		switch {
		case address == 0x4014:
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			}
		case address == 0x4016:
			if m.inputSystem != nil {
				m.inputSystem.Write(address, value)
			}
		case address <= 0x4013 || address == 0x4015 || address == 0x4017:
			m.apuRegisters.WriteRegister(address, value)
		}
		// Test-mode registers ($4018-$401F) are ignored

	case address < 0x6000:
		// Unmapped expansion area, writes dropped

	default:
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}
	}
}
