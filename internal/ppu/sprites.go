package ppu

// Sprite pipeline. Evaluation runs at dot 257 of each visible scanline and
// selects the sprites for the next line: OAM is scanned in index order, the
// first eight in range are copied to secondary OAM and their pattern rows
// pre-fetched, and a ninth in-range sprite sets the overflow flag.

func (p *PPU) spriteHeight() int {
	if p.ppuCtrl&ctrlSpriteSize16 != 0 {
		return 16
	}
	return 8
}

func (p *PPU) evaluateSprites() {
	height := p.spriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4+0]
		row := p.scanline - int(y)
		if row < 0 || row >= height {
			continue
		}
		if count < 8 {
			copy(p.secondaryOAM[count*4:], p.oam[i*4:i*4+4])
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = p.oam[i*4+3]
			p.spritePriorities[count] = (p.oam[i*4+2] >> 5) & 1
			p.spriteIndexes[count] = uint8(i)
		} else {
			p.spriteOverflow = true
			break
		}
		count++
	}
	p.spriteCount = count
}

// fetchSpritePattern reads one row of a sprite's pattern as 8 packed 4-bit
// pixels, with flips applied and the palette select folded in.
func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := p.oam[i*4+1]
	attributes := p.oam[i*4+2]

	var address uint16
	if p.ppuCtrl&ctrlSpriteSize16 == 0 {
		if attributes&0x80 != 0 {
			row = 7 - row
		}
		table := uint16(0)
		if p.ppuCtrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		address = table + uint16(tile)*16 + uint16(row)
	} else {
		// 8x16: bit 0 of the tile index selects the pattern table and the
		// flip spans both halves
		if attributes&0x80 != 0 {
			row = 15 - row
		}
		table := uint16(tile&1) * 0x1000
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = table + uint16(tile)*16 + uint16(row)
	}

	lowTileByte := p.memory.Read(address)
	highTileByte := p.memory.Read(address + 8)

	a := (attributes & 3) << 2
	var data uint32
	for j := 0; j < 8; j++ {
		var p1, p2 uint8
		if attributes&0x40 != 0 {
			p1 = (lowTileByte & 1) << 0
			p2 = (highTileByte & 1) << 1
			lowTileByte >>= 1
			highTileByte >>= 1
		} else {
			p1 = (lowTileByte & 0x80) >> 7
			p2 = (highTileByte & 0x80) >> 6
			lowTileByte <<= 1
			highTileByte <<= 1
		}
		data = data<<4 | uint32(a|p1|p2)
	}
	return data
}

// spritePixel returns the slot and 4-bit pixel of the first opaque sprite
// covering the current dot, or (0, 0) when none does.
func (p *PPU) spritePixel() (int, uint8) {
	if p.ppuMask&maskShowSprites == 0 {
		return 0, 0
	}
	x := p.dot - 1
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		color := uint8((p.spritePatterns[i] >> uint8((7-offset)*4)) & 0x0F)
		if color%4 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}

// renderPixel composes the background and sprite layers for the current dot
// and writes the resulting color to the frame buffer.
func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	background := p.backgroundPixel()
	slot, sprite := p.spritePixel()

	if x < 8 {
		if p.ppuMask&maskShowLeftBack == 0 {
			background = 0
		}
		if p.ppuMask&maskShowLeftSprite == 0 {
			sprite = 0
		}
	}

	b := background%4 != 0
	s := sprite%4 != 0

	var color uint8
	switch {
	case !b && !s:
		color = 0
	case !b && s:
		color = sprite | 0x10
	case b && !s:
		color = background
	default:
		// Sprite 0 hit requires both layers opaque; dot 256 (x=255) never
		// triggers it.
		if p.spriteIndexes[slot] == 0 && x < 255 {
			p.sprite0Hit = true
		}
		if p.spritePriorities[slot] == 0 {
			color = sprite | 0x10
		} else {
			color = background
		}
	}

	entry := p.memory.Read(0x3F00 + uint16(color))
	if p.ppuMask&maskGrayscale != 0 {
		entry &= 0x30
	}
	p.frameBuffer[y*256+x] = nesColorPalette[entry&0x3F]
}
