package ppu

import (
	"testing"

	"nesgo/internal/memory"
)

type testCartridge struct {
	chr [0x2000]uint8
}

func (c *testCartridge) ReadPRG(address uint16) uint8         { return 0 }
func (c *testCartridge) WritePRG(address uint16, value uint8) {}
func (c *testCartridge) ReadCHR(address uint16) uint8         { return c.chr[address&0x1FFF] }
func (c *testCartridge) WriteCHR(address uint16, value uint8) { c.chr[address&0x1FFF] = value }

func newTestPPU() (*PPU, *testCartridge) {
	cart := &testCartridge{}
	p := New()
	p.SetMemory(memory.NewPPUMemory(cart, memory.MirrorHorizontal))
	return p, cart
}

// stepTo advances the PPU until it sits at the given scanline and dot.
func stepTo(t *testing.T, p *PPU, scanline, dot int) {
	t.Helper()
	for i := 0; i < 2*dotsPerScanline*scanlinesPerFrame; i++ {
		if p.Scanline() == scanline && p.Dot() == dot {
			return
		}
		p.Step()
	}
	t.Fatalf("never reached scanline %d dot %d", scanline, dot)
}

func TestVBlankTiming(t *testing.T) {
	p, _ := newTestPPU()

	stepTo(t, p, vblankScanline, 0)
	if p.vblank {
		t.Fatal("VBlank flag set before (241,1)")
	}
	p.Step()
	if !p.vblank {
		t.Fatal("VBlank flag not set at (241,1)")
	}

	stepTo(t, p, preRenderScanline, 1)
	if p.vblank {
		t.Fatal("VBlank flag not cleared at (261,1)")
	}
}

func TestStatusReadClearsVBlankAndToggle(t *testing.T) {
	p, _ := newTestPPU()
	stepTo(t, p, vblankScanline, 1)

	p.WriteRegister(0x2006, 0x21) // leave w toggled
	status := p.ReadRegister(0x2002)
	if status&0x80 == 0 {
		t.Error("VBlank bit clear on first status read")
	}
	if p.w {
		t.Error("write toggle not reset by status read")
	}
	if p.ReadRegister(0x2002)&0x80 != 0 {
		t.Error("VBlank bit still set on second status read")
	}
}

func TestStatusReadRaceSuppressesVBlank(t *testing.T) {
	p, _ := newTestPPU()
	stepTo(t, p, vblankScanline, 0)

	// Read one dot before the flag would set: it must not set this frame
	p.ReadRegister(0x2002)
	p.Step()
	if p.vblank {
		t.Error("VBlank flag set despite racing status read")
	}
	if p.NMILine() {
		t.Error("NMI line high despite suppressed VBlank")
	}

	// The suppression covers one frame only
	stepTo(t, p, preRenderScanline, 1)
	stepTo(t, p, vblankScanline, 1)
	if !p.vblank {
		t.Error("VBlank flag suppressed on the following frame")
	}
}

func TestNMILineFollowsEnableBit(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2000, 0x80)
	stepTo(t, p, vblankScanline, 1)
	if !p.NMILine() {
		t.Fatal("NMI line low with VBlank set and NMI enabled")
	}

	// Toggling the enable bit moves the line while the flag holds
	p.WriteRegister(0x2000, 0x00)
	if p.NMILine() {
		t.Error("NMI line high with NMI disabled")
	}
	p.WriteRegister(0x2000, 0x80)
	if !p.NMILine() {
		t.Error("NMI line low after re-enabling during VBlank")
	}

	// Reading status drops the line
	p.ReadRegister(0x2002)
	if p.NMILine() {
		t.Error("NMI line high after status read cleared VBlank")
	}
}

func TestOddFrameSkip(t *testing.T) {
	frameDots := func(render bool) (int, int) {
		p, _ := newTestPPU()
		if render {
			p.WriteRegister(0x2001, maskShowBackground)
		}

		var lengths []int
		dots := 0
		p.SetFrameCompleteCallback(func() {
			lengths = append(lengths, dots)
			dots = 0
		})
		for len(lengths) < 3 {
			p.Step()
			dots++
		}
		// lengths[1] covers an odd frame, lengths[2] an even one
		return lengths[1], lengths[2]
	}

	odd, even := frameDots(true)
	if odd != dotsPerScanline*scanlinesPerFrame-1 {
		t.Errorf("odd rendered frame = %d dots, want %d", odd, dotsPerScanline*scanlinesPerFrame-1)
	}
	if even != dotsPerScanline*scanlinesPerFrame {
		t.Errorf("even rendered frame = %d dots, want %d", even, dotsPerScanline*scanlinesPerFrame)
	}

	odd, even = frameDots(false)
	if odd != dotsPerScanline*scanlinesPerFrame || even != dotsPerScanline*scanlinesPerFrame {
		t.Errorf("blanked frames = %d/%d dots, want both %d", odd, even, dotsPerScanline*scanlinesPerFrame)
	}
}

func TestScrollRegisterWrites(t *testing.T) {
	p, _ := newTestPPU()

	// $2000 routes the nametable select into t
	p.WriteRegister(0x2000, 0x03)
	if p.t != 0x0C00 {
		t.Errorf("t = %04X after ctrl write, want 0C00", p.t)
	}

	// First $2005 write: coarse X and fine X
	p.WriteRegister(0x2005, 0x7D)
	if p.t&0x001F != 0x0F {
		t.Errorf("coarse X = %02X, want 0F", p.t&0x001F)
	}
	if p.x != 5 {
		t.Errorf("fine X = %d, want 5", p.x)
	}

	// Second $2005 write: coarse Y and fine Y
	p.WriteRegister(0x2005, 0x5E)
	if got := (p.t >> 12) & 7; got != 6 {
		t.Errorf("fine Y = %d, want 6", got)
	}
	if got := (p.t >> 5) & 0x1F; got != 0x0B {
		t.Errorf("coarse Y = %02X, want 0B", got)
	}

	// $2006 pair replaces t and copies it into v on the second write
	p.WriteRegister(0x2006, 0x3D)
	if p.v == p.t {
		t.Fatal("v updated on first address write")
	}
	p.WriteRegister(0x2006, 0xF0)
	if p.t != 0x3DF0 || p.v != 0x3DF0 {
		t.Errorf("t/v = %04X/%04X after address writes, want 3DF0/3DF0", p.t, p.v)
	}
}

func TestDataPortBufferedReads(t *testing.T) {
	p, _ := newTestPPU()

	setAddress := func(address uint16) {
		p.ReadRegister(0x2002)
		p.WriteRegister(0x2006, uint8(address>>8))
		p.WriteRegister(0x2006, uint8(address))
	}

	setAddress(0x2100)
	p.WriteRegister(0x2007, 0x11)
	p.WriteRegister(0x2007, 0x22)

	setAddress(0x2100)
	p.ReadRegister(0x2007) // primes the buffer
	if got := p.ReadRegister(0x2007); got != 0x11 {
		t.Errorf("first buffered read = %02X, want 11", got)
	}
	if got := p.ReadRegister(0x2007); got != 0x22 {
		t.Errorf("second buffered read = %02X, want 22", got)
	}
}

func TestDataPortPaletteBypass(t *testing.T) {
	p, _ := newTestPPU()

	setAddress := func(address uint16) {
		p.ReadRegister(0x2002)
		p.WriteRegister(0x2006, uint8(address>>8))
		p.WriteRegister(0x2006, uint8(address))
	}

	setAddress(0x3F01)
	p.WriteRegister(0x2007, 0xEA) // stored as 6-bit 2A

	setAddress(0x3F01)
	if got := p.ReadRegister(0x2007); got != 0x2A {
		t.Errorf("palette read = %02X, want 2A without buffer delay", got)
	}

	// Backdrop alias: $3F10 mirrors $3F00
	setAddress(0x3F10)
	p.WriteRegister(0x2007, 0x15)
	setAddress(0x3F00)
	if got := p.ReadRegister(0x2007); got != 0x15 {
		t.Errorf("backdrop alias read = %02X, want 15", got)
	}
}

func TestDataPortIncrement(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0xAB)
	if p.v != 0x2001 {
		t.Errorf("v = %04X after write with increment 1, want 2001", p.v)
	}

	p.WriteRegister(0x2000, ctrlIncrement32)
	p.WriteRegister(0x2007, 0xCD)
	if p.v != 0x2021 {
		t.Errorf("v = %04X after write with increment 32, want 2021", p.v)
	}
}

// solidTile fills both bit planes of a pattern table tile so every pixel is
// opaque color 3.
func solidTile(cart *testCartridge, table uint16, tile uint8) {
	base := table + uint16(tile)*16
	for i := uint16(0); i < 16; i++ {
		cart.chr[base+i] = 0xFF
	}
}

func TestSprite0Hit(t *testing.T) {
	p, cart := newTestPPU()
	solidTile(cart, 0x0000, 0) // background tile 0 (nametables power up zeroed)
	solidTile(cart, 0x0000, 1)

	p.oam[0] = 40 // sprite 0 top at scanline 41
	p.oam[1] = 1
	p.oam[2] = 0
	p.oam[3] = 100

	p.WriteRegister(0x2001, maskShowBackground|maskShowSprites|maskShowLeftBack|maskShowLeftSprite)

	stepTo(t, p, 40, 0)
	if p.sprite0Hit {
		t.Fatal("sprite 0 hit before the sprite's first scanline")
	}
	stepTo(t, p, 43, 0)
	if !p.sprite0Hit {
		t.Fatal("sprite 0 hit not flagged over opaque background")
	}

	// Flag holds until the pre-render line clears it
	stepTo(t, p, preRenderScanline, 1)
	if p.sprite0Hit {
		t.Error("sprite 0 hit not cleared at pre-render dot 1")
	}
}

func TestSprite0HitExcludesLastColumn(t *testing.T) {
	p, cart := newTestPPU()
	solidTile(cart, 0x0000, 0)
	solidTile(cart, 0x0000, 1)

	p.oam[0] = 40
	p.oam[1] = 1
	p.oam[2] = 0
	p.oam[3] = 255 // only visible pixel is x=255

	p.WriteRegister(0x2001, maskShowBackground|maskShowSprites|maskShowLeftBack|maskShowLeftSprite)

	stepTo(t, p, 60, 0)
	if p.sprite0Hit {
		t.Error("sprite 0 hit flagged at x=255")
	}
}

func TestSpriteOverflow(t *testing.T) {
	p, _ := newTestPPU()

	// Nine sprites sharing scanlines 51-58
	for i := 0; i < 9; i++ {
		p.oam[i*4+0] = 50
		p.oam[i*4+3] = uint8(i * 8)
	}
	p.WriteRegister(0x2001, maskShowBackground|maskShowSprites)

	stepTo(t, p, 50, 256)
	if p.spriteOverflow {
		t.Fatal("overflow flagged before evaluation")
	}
	p.Step()
	if !p.spriteOverflow {
		t.Fatal("overflow not flagged with nine sprites in range")
	}
	if p.spriteCount != 8 {
		t.Errorf("spriteCount = %d, want 8", p.spriteCount)
	}
}

func TestSpriteEvaluationRange(t *testing.T) {
	cases := []struct {
		name     string
		ctrl     uint8
		y        uint8
		scanline int
		inRange  bool
	}{
		{"8x8 top line", 0, 100, 100, true},
		{"8x8 bottom line", 0, 100, 107, true},
		{"8x8 below", 0, 100, 108, false},
		{"8x16 bottom line", ctrlSpriteSize16, 100, 115, true},
		{"8x16 below", ctrlSpriteSize16, 100, 116, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestPPU()
			p.WriteRegister(0x2000, tc.ctrl)
			p.WriteRegister(0x2001, maskShowSprites)
			p.oam[0] = tc.y

			stepTo(t, p, tc.scanline, 257)
			if got := p.spriteCount == 1; got != tc.inRange {
				t.Errorf("in range = %v, want %v", got, tc.inRange)
			}
		})
	}
}

func TestOAMDataReadMasksAttributeBits(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2003, 0x02)
	p.WriteRegister(0x2004, 0xFF)
	p.WriteRegister(0x2003, 0x02)
	if got := p.ReadRegister(0x2004); got != 0xE3 {
		t.Errorf("attribute byte read = %02X, want E3", got)
	}
	if p.oamAddr != 0x02 {
		t.Error("OAMDATA read advanced the OAM address")
	}
}

func TestWriteOnlyRegistersReadOpenBus(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2001, 0x00)
	p.WriteRegister(0x2000, 0x5A)
	if got := p.ReadRegister(0x2000); got != 0x5A {
		t.Errorf("write-only register read = %02X, want open bus 5A", got)
	}
}
