package memory

// MirrorMode selects the nametable mirroring policy.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// PPUMemory implements the PPU's 14-bit address space: pattern tables
// routed to the cartridge CHR space, 2KB of console nametable RAM behind a
// mirroring policy (plus 2KB of cartridge RAM in four-screen mode), and
// 32 bytes of palette RAM with the backdrop mirroring rule.
type PPUMemory struct {
	vram       [0x800]uint8 // console nametable RAM
	extRAM     [0x800]uint8 // cartridge nametable RAM, four-screen only
	paletteRAM [32]uint8
	cartridge  CartridgeInterface
	mirroring  MirrorMode
}

// NewPPUMemory creates the PPU address space with the given mirroring
// policy, fixed at cartridge load for the supported mappers.
func NewPPUMemory(cart CartridgeInterface, mirroring MirrorMode) *PPUMemory {
	mem := &PPUMemory{
		cartridge: cart,
		mirroring: mirroring,
	}
	// Backdrop entries power up black
	for i := 0; i < 32; i += 4 {
		mem.paletteRAM[i] = 0x0F
	}
	return mem
}

// Read reads from PPU memory space ($0000-$3FFF).
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		return pm.cartridge.ReadCHR(address)
	case address < 0x3F00:
		return pm.readNametable(address)
	default:
		return pm.readPalette(address)
	}
}

// Write writes to PPU memory space ($0000-$3FFF).
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		pm.cartridge.WriteCHR(address, value)
	case address < 0x3F00:
		pm.writeNametable(address, value)
	default:
		pm.writePalette(address, value)
	}
}

func (pm *PPUMemory) readNametable(address uint16) uint8 {
	index := pm.nametableIndex(address)
	if index >= 0x800 {
		return pm.extRAM[index-0x800]
	}
	return pm.vram[index]
}

func (pm *PPUMemory) writeNametable(address uint16, value uint8) {
	index := pm.nametableIndex(address)
	if index >= 0x800 {
		pm.extRAM[index-0x800] = value
		return
	}
	pm.vram[index] = value
}

// nametableIndex maps a 12-bit nametable offset to a physical index under
// the active mirroring policy. $3000-$3EFF mirrors fold in via the mask.
func (pm *PPUMemory) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 3
	offset := address & 0x3FF

	switch pm.mirroring {
	case MirrorHorizontal:
		// $2000/$2400 share the first 1KB, $2800/$2C00 the second
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset

	case MirrorVertical:
		// $2000/$2800 share the first 1KB, $2400/$2C00 the second
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset

	case MirrorSingleScreen0:
		return offset

	case MirrorSingleScreen1:
		return 0x400 + offset

	case MirrorFourScreen:
		return nametable*0x400 + offset

	default:
		return offset
	}
}

// paletteIndex folds the four backdrop aliases: $3F10/$3F14/$3F18/$3F1C
// mirror $3F00/$3F04/$3F08/$3F0C.
func paletteIndex(address uint16) uint16 {
	index := address & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return index
}

func (pm *PPUMemory) readPalette(address uint16) uint8 {
	// Palette entries are 6 bits wide
	return pm.paletteRAM[paletteIndex(address)] & 0x3F
}

func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	pm.paletteRAM[paletteIndex(address)] = value & 0x3F
}
