// Package cartridge implements iNES ROM loading and the cartridge mappers.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"nesgo/internal/memory"
)

// Sentinel errors for ROM loading. Callers can match them with errors.Is.
var (
	ErrInvalidROM        = errors.New("cartridge: invalid iNES image")
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")
)

// Cartridge represents a loaded NES cartridge: the ROM images, 8KB of PRG
// RAM, and the mapper that routes bus accesses into them.
type Cartridge struct {
	prgROM []uint8
	chrMem []uint8 // CHR ROM, or CHR RAM when the header declares none

	mapperID uint8
	mapper   Mapper

	mirror memory.MirrorMode

	hasBattery bool
	hasCHRRAM  bool
	sram       [0x2000]uint8
}

// Mapper routes cartridge-space bus accesses. IRQPending reports the
// mapper's IRQ line; none of the supported mappers drive one, but the
// console polls it so IRQ-capable mappers slot in without bus changes.
type Mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	IRQPending() bool
}

type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // in 16KB units
	CHRROMSize uint8 // in 8KB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// LoadFromFile loads a cartridge from an iNES file.
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads a cartridge from an iNES image. Loading is all or
// nothing: a short or malformed image returns an error and no cartridge.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidROM, err)
	}

	if string(header.Magic[:]) != "NES\x1A" {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidROM)
	}
	if header.PRGROMSize == 0 {
		return nil, fmt.Errorf("%w: zero PRG ROM banks", ErrInvalidROM)
	}

	cart := &Cartridge{
		mapperID:   (header.Flags6 >> 4) | (header.Flags7 & 0xF0),
		hasBattery: header.Flags6&0x02 != 0,
	}

	switch {
	case header.Flags6&0x08 != 0:
		cart.mirror = memory.MirrorFourScreen
	case header.Flags6&0x01 != 0:
		cart.mirror = memory.MirrorVertical
	default:
		cart.mirror = memory.MirrorHorizontal
	}

	// Trainer data is obsolete; skip it if present
	if header.Flags6&0x04 != 0 {
		if _, err := io.ReadFull(r, make([]uint8, 512)); err != nil {
			return nil, fmt.Errorf("%w: truncated trainer", ErrInvalidROM)
		}
	}

	cart.prgROM = make([]uint8, int(header.PRGROMSize)*16384)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, fmt.Errorf("%w: truncated PRG ROM", ErrInvalidROM)
	}

	if header.CHRROMSize > 0 {
		cart.chrMem = make([]uint8, int(header.CHRROMSize)*8192)
		if _, err := io.ReadFull(r, cart.chrMem); err != nil {
			return nil, fmt.Errorf("%w: truncated CHR ROM", ErrInvalidROM)
		}
	} else {
		// No CHR ROM means the board carries 8KB of CHR RAM
		cart.chrMem = make([]uint8, 8192)
		cart.hasCHRRAM = true
	}

	switch cart.mapperID {
	case 0:
		cart.mapper = NewMapper000(cart)
	case 2:
		cart.mapper = NewMapper002(cart)
	case 3:
		cart.mapper = NewMapper003(cart)
	default:
		return nil, fmt.Errorf("%w: mapper %d", ErrUnsupportedMapper, cart.mapperID)
	}

	return cart, nil
}

// ReadPRG reads from cartridge CPU space ($6000-$FFFF).
func (c *Cartridge) ReadPRG(address uint16) uint8 {
	return c.mapper.ReadPRG(address)
}

// WritePRG writes to cartridge CPU space ($6000-$FFFF).
func (c *Cartridge) WritePRG(address uint16, value uint8) {
	c.mapper.WritePRG(address, value)
}

// ReadCHR reads from cartridge PPU space ($0000-$1FFF).
func (c *Cartridge) ReadCHR(address uint16) uint8 {
	return c.mapper.ReadCHR(address)
}

// WriteCHR writes to cartridge PPU space ($0000-$1FFF).
func (c *Cartridge) WriteCHR(address uint16, value uint8) {
	c.mapper.WriteCHR(address, value)
}

// Mirroring returns the nametable mirroring the header declared.
func (c *Cartridge) Mirroring() memory.MirrorMode {
	return c.mirror
}

// MapperID returns the iNES mapper number.
func (c *Cartridge) MapperID() uint8 {
	return c.mapperID
}

// HasBattery reports whether the PRG RAM is battery-backed.
func (c *Cartridge) HasBattery() bool {
	return c.hasBattery
}

// IRQPending reports the mapper's IRQ line level.
func (c *Cartridge) IRQPending() bool {
	return c.mapper.IRQPending()
}

func (c *Cartridge) readSRAM(address uint16) uint8 {
	return c.sram[address-0x6000]
}

func (c *Cartridge) writeSRAM(address uint16, value uint8) {
	c.sram[address-0x6000] = value
}
