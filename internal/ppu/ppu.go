// Package ppu implements the 2C02 Picture Processing Unit for the NES.
//
// The PPU is a state machine advanced one dot at a time by Step. Timing is
// NTSC: 341 dots per scanline, 262 scanlines per frame, with the pre-render
// scanline one dot short on odd frames while rendering is enabled.
package ppu

import "nesgo/internal/memory"

// Scanline classes
const (
	postRenderScanline = 240
	vblankScanline     = 241
	preRenderScanline  = 261

	dotsPerScanline   = 341
	scanlinesPerFrame = 262
)

// PPUCTRL bits
const (
	ctrlNametable      = 0x03 // base nametable select
	ctrlIncrement32    = 0x04 // VRAM increment: 1 or 32
	ctrlSpriteTable    = 0x08 // sprite pattern table (8x8 only)
	ctrlBackgroundTable = 0x10
	ctrlSpriteSize16   = 0x20
	ctrlNMIEnable      = 0x80
)

// PPUMASK bits
const (
	maskGrayscale      = 0x01
	maskShowLeftBack   = 0x02
	maskShowLeftSprite = 0x04
	maskShowBackground = 0x08
	maskShowSprites    = 0x10
)

// PPU represents the NES Picture Processing Unit (2C02).
type PPU struct {
	// CPU-visible registers
	ppuCtrl uint8 // $2000
	ppuMask uint8 // $2001
	oamAddr uint8 // $2003

	// Internal scroll/address state ("loopy" registers)
	v uint16 // current VRAM address (15 bits)
	t uint16 // temporary VRAM address (15 bits)
	x uint8  // fine X scroll (3 bits)
	w bool   // shared write toggle for $2005/$2006

	// $2007 read buffer and open-bus latch
	readBuffer uint8
	openBus    uint8

	// PPU address space
	memory *memory.PPUMemory

	// Timing state
	dot      int // 0-340
	scanline int // 0-261, 261 is the pre-render line
	frame    uint64
	oddFrame bool

	// Status flags ($2002 bits 5-7)
	vblank         bool
	sprite0Hit     bool
	spriteOverflow bool

	// Set when $2002 is read on the dot before the VBlank flag would set;
	// the flag set (and its NMI) is suppressed for that frame.
	suppressVBlank bool

	// Background pipeline latches and shift register. tileData holds two
	// tiles of 4-bit pixels; the top 32 bits are the tile being drawn.
	nameTableByte      uint8
	attributeTableByte uint8
	lowTileByte        uint8
	highTileByte       uint8
	tileData           uint64

	// Sprite memory and the per-scanline pipeline output
	oam              [256]uint8
	secondaryOAM     [32]uint8
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	// Frame buffer, RGB, overwritten every frame
	frameBuffer [256 * 240]uint32

	frameCompleteCallback func()
}

// New creates a PPU. The timing counters start at scanline 0, dot 0; the
// console's reset sequence advances them to the conventional power-up
// position.
func New() *PPU {
	return &PPU{}
}

// Reset returns the PPU to its power-on state.
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.oamAddr = 0
	p.v = 0
	p.t = 0
	p.x = 0
	p.w = false
	p.readBuffer = 0
	p.openBus = 0

	p.dot = 0
	p.scanline = 0
	p.frame = 0
	p.oddFrame = false

	p.vblank = false
	p.sprite0Hit = false
	p.spriteOverflow = false
	p.suppressVBlank = false

	p.tileData = 0
	p.spriteCount = 0

	for i := range p.oam {
		p.oam[i] = 0
	}
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
}

// SetMemory attaches the PPU address space.
func (p *PPU) SetMemory(mem *memory.PPUMemory) {
	p.memory = mem
}

// SetFrameCompleteCallback registers the frame boundary hook.
func (p *PPU) SetFrameCompleteCallback(callback func()) {
	p.frameCompleteCallback = callback
}

// NMILine reports the level of the PPU's NMI output: the AND of the VBlank
// flag and the NMI enable bit. The CPU latches the rising edge.
func (p *PPU) NMILine() bool {
	return p.vblank && p.ppuCtrl&ctrlNMIEnable != 0
}

// Dot returns the current dot (0-340).
func (p *PPU) Dot() int { return p.dot }

// Scanline returns the current scanline (0-261).
func (p *PPU) Scanline() int { return p.scanline }

// FrameCount returns the number of completed frames.
func (p *PPU) FrameCount() uint64 { return p.frame }

// FrameBuffer returns the 256x240 RGB frame buffer. It is owned by the PPU
// and must be treated as read-only.
func (p *PPU) FrameBuffer() *[256 * 240]uint32 {
	return &p.frameBuffer
}

func (p *PPU) renderingEnabled() bool {
	return p.ppuMask&(maskShowBackground|maskShowSprites) != 0
}

// advance moves the timing counters one dot, applying the odd-frame skip:
// with rendering enabled, odd frames jump from pre-render dot 339 straight
// to (0,0), dropping one dot.
func (p *PPU) advance() {
	if p.renderingEnabled() && p.oddFrame &&
		p.scanline == preRenderScanline && p.dot == 339 {
		p.dot = 0
		p.scanline = 0
		p.frame++
		p.oddFrame = !p.oddFrame
		if p.frameCompleteCallback != nil {
			p.frameCompleteCallback()
		}
		return
	}

	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.frame++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback()
			}
		}
	}
}

// Step advances the PPU by exactly one dot.
func (p *PPU) Step() {
	p.advance()

	renderEnable := p.renderingEnabled()

	visibleLine := p.scanline < postRenderScanline
	preLine := p.scanline == preRenderScanline
	renderLine := visibleLine || preLine

	visibleDot := p.dot >= 1 && p.dot <= 256
	prefetchDot := p.dot >= 321 && p.dot <= 336
	fetchDot := visibleDot || prefetchDot

	if renderEnable {
		if visibleLine && visibleDot {
			p.renderPixel()
		}

		// Background fetch cadence: 8-dot cycle of nametable, attribute,
		// pattern low, pattern high, then reload the shift registers.
		if renderLine && fetchDot {
			p.tileData <<= 4
			switch p.dot % 8 {
			case 1:
				p.fetchNameTableByte()
			case 3:
				p.fetchAttributeTableByte()
			case 5:
				p.fetchLowTileByte()
			case 7:
				p.fetchHighTileByte()
			case 0:
				p.storeTileData()
			}
		}

		if renderLine {
			if fetchDot && p.dot%8 == 0 {
				p.incrementX()
			}
			if p.dot == 256 {
				p.incrementY()
			}
			if p.dot == 257 {
				p.copyX()
			}
		}

		if preLine && p.dot >= 280 && p.dot <= 304 {
			p.copyY()
		}

		// Sprite evaluation for the next scanline
		if p.dot == 257 {
			if visibleLine {
				p.evaluateSprites()
			} else {
				p.spriteCount = 0
			}
		}
	}

	// VBlank begins at (241,1) unless a $2002 read raced the set dot
	if p.scanline == vblankScanline && p.dot == 1 {
		if !p.suppressVBlank {
			p.vblank = true
		}
		p.suppressVBlank = false
	}

	// VBlank, sprite 0 hit and overflow all clear at (261,1)
	if preLine && p.dot == 1 {
		p.vblank = false
		p.sprite0Hit = false
		p.spriteOverflow = false
	}
}

// ReadRegister reads from a PPU register ($2000-$2007). Write-only
// registers return the open-bus latch.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002: // PPUSTATUS
		status := p.openBus & 0x1F
		if p.spriteOverflow {
			status |= 0x20
		}
		if p.sprite0Hit {
			status |= 0x40
		}
		if p.vblank {
			status |= 0x80
		}

		// Reading status clears the VBlank flag and the write toggle. A
		// read on the exact dot before the flag sets also suppresses the
		// upcoming set, reproducing the hardware race.
		p.vblank = false
		p.w = false
		if p.scanline == vblankScanline && p.dot == 0 {
			p.suppressVBlank = true
		}

		p.openBus = status
		return status

	case 0x2004: // OAMDATA
		value := p.oam[p.oamAddr]
		// Attribute bytes have three unimplemented bits
		if p.oamAddr%4 == 2 {
			value &= 0xE3
		}
		p.openBus = value
		return value

	case 0x2007: // PPUDATA
		value := p.readData()
		p.openBus = value
		return value

	default: // write-only registers
		return p.openBus
	}
}

// WriteRegister writes to a PPU register ($2000-$2007).
func (p *PPU) WriteRegister(address uint16, value uint8) {
	p.openBus = value

	switch address {
	case 0x2000: // PPUCTRL
		p.ppuCtrl = value
		// t: ...GH.. ........ <- value: ......GH
		p.t = (p.t & 0xF3FF) | ((uint16(value) & 0x03) << 10)

	case 0x2001: // PPUMASK
		p.ppuMask = value

	case 0x2003: // OAMADDR
		p.oamAddr = value

	case 0x2004: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++

	case 0x2005: // PPUSCROLL
		if !p.w {
			// t: ....... ...ABCDE <- value: ABCDE...; x <- value: .....FGH
			p.t = (p.t & 0xFFE0) | (uint16(value) >> 3)
			p.x = value & 0x07
		} else {
			// t: FGH..AB CDE..... <- value: ABCDEFGH
			p.t = (p.t & 0x8FFF) | ((uint16(value) & 0x07) << 12)
			p.t = (p.t & 0xFC1F) | ((uint16(value) & 0xF8) << 2)
		}
		p.w = !p.w

	case 0x2006: // PPUADDR
		if !p.w {
			// t: .CDEFGH ........ <- value: ..CDEFGH; bit 14 cleared
			p.t = (p.t & 0x80FF) | ((uint16(value) & 0x3F) << 8)
		} else {
			// t: ....... ABCDEFGH <- value: ABCDEFGH; then v <- t
			p.t = (p.t & 0xFF00) | uint16(value)
			p.v = p.t
		}
		p.w = !p.w

	case 0x2007: // PPUDATA
		p.memory.Write(p.v, value)
		p.v += p.addressIncrement()
	}
}

// WriteOAM writes one byte of OAM at the given offset; the DMA engine uses
// this to bypass the register interface.
func (p *PPU) WriteOAM(address uint8, value uint8) {
	p.oam[address] = value
}

// OAMAddr returns the OAM address latch; sprite DMA starts at this offset.
func (p *PPU) OAMAddr() uint8 {
	return p.oamAddr
}

func (p *PPU) addressIncrement() uint16 {
	if p.ppuCtrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// readData implements the $2007 buffered read: reads below the palette
// return the previous buffered byte; palette reads return immediately while
// the buffer refills from the nametable shadowed beneath the palette.
func (p *PPU) readData() uint8 {
	value := p.memory.Read(p.v)
	if p.v&0x3FFF < 0x3F00 {
		value, p.readBuffer = p.readBuffer, value
	} else {
		p.readBuffer = p.memory.Read(p.v - 0x1000)
		if p.ppuMask&maskGrayscale != 0 {
			value &= 0x30
		}
	}
	p.v += p.addressIncrement()
	return value
}
