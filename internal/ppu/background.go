package ppu

// Background fetch pipeline. Tile data for two tiles sits in tileData as
// packed 4-bit pixels (palette select in the high two bits, pattern in the
// low two); the shift in Step keeps the tile being drawn in the top 32 bits.

func (p *PPU) fetchNameTableByte() {
	address := 0x2000 | (p.v & 0x0FFF)
	p.nameTableByte = p.memory.Read(address)
}

func (p *PPU) fetchAttributeTableByte() {
	v := p.v
	address := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	shift := ((v >> 4) & 4) | (v & 2)
	p.attributeTableByte = ((p.memory.Read(address) >> shift) & 3) << 2
}

func (p *PPU) tileAddress() uint16 {
	fineY := (p.v >> 12) & 7
	table := uint16(0)
	if p.ppuCtrl&ctrlBackgroundTable != 0 {
		table = 0x1000
	}
	return table + uint16(p.nameTableByte)*16 + fineY
}

func (p *PPU) fetchLowTileByte() {
	p.lowTileByte = p.memory.Read(p.tileAddress())
}

func (p *PPU) fetchHighTileByte() {
	p.highTileByte = p.memory.Read(p.tileAddress() + 8)
}

// storeTileData packs the fetched tile into the low 32 bits of tileData.
func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		a := p.attributeTableByte
		p1 := (p.lowTileByte & 0x80) >> 7
		p2 := (p.highTileByte & 0x80) >> 6
		p.lowTileByte <<= 1
		p.highTileByte <<= 1
		data = data<<4 | uint32(a|p1|p2)
	}
	p.tileData |= uint64(data)
}

// backgroundPixel returns the 4-bit background pixel for the current dot,
// or 0 when the background layer is disabled.
func (p *PPU) backgroundPixel() uint8 {
	if p.ppuMask&maskShowBackground == 0 {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0F)
}

// incrementX advances coarse X in v, wrapping into the horizontally
// adjacent nametable.
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY advances fine Y in v, carrying into coarse Y. Coarse Y wraps
// from row 29 into the vertically adjacent nametable; rows 30 and 31 (the
// attribute area, reachable only by direct writes to v) wrap without
// switching nametables.
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v & ^uint16(0x03E0)) | (y << 5)
}

// copyX copies the horizontal bits of t into v at dot 257.
func (p *PPU) copyX() {
	p.v = (p.v & 0xFBE0) | (p.t & 0x041F)
}

// copyY copies the vertical bits of t into v during pre-render dots 280-304.
func (p *PPU) copyY() {
	p.v = (p.v & 0x841F) | (p.t & 0x7BE0)
}
