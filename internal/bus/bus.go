// Package bus wires the NES components into a console and drives their
// relative timing: 3 PPU dots and one APU clock per CPU cycle.
package bus

import (
	"fmt"
	"io"

	"nesgo/internal/apu"
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/input"
	"nesgo/internal/memory"
	"nesgo/internal/ppu"
)

// Console owns the chips and the master clock. The CPU is stepped one
// instruction at a time; the PPU and APU catch up after each instruction,
// including cycles stolen by OAM and DMC DMA.
type Console struct {
	cpu   *cpu.CPU
	ppu   *ppu.PPU
	apu   *apu.APU
	mem   *memory.Memory
	input *input.System
	cart  *cartridge.Cartridge

	// Cycles stolen by an OAM DMA triggered inside the current instruction
	dmaStall uint64

	frameReady  bool
	traceWriter io.Writer
}

// NewConsole assembles a console around a loaded cartridge and runs the
// power-on reset sequence.
func NewConsole(cart *cartridge.Cartridge) *Console {
	c := &Console{
		ppu:   ppu.New(),
		apu:   apu.New(),
		input: input.NewSystem(),
		cart:  cart,
	}

	c.ppu.SetMemory(memory.NewPPUMemory(cart, cart.Mirroring()))
	c.ppu.SetFrameCompleteCallback(func() { c.frameReady = true })

	c.mem = memory.New(c.ppu, c.apu, cart)
	c.mem.SetInputSystem(c.input)
	c.mem.SetDMACallback(c.oamDMA)

	c.apu.SetDMAReadCallback(c.mem.Read)

	c.cpu = cpu.New(c.mem)
	c.Reset()
	return c
}

// Reset drives the reset line: the CPU runs its 7-cycle reset sequence and
// the PPU and APU catch up to it.
func (c *Console) Reset() {
	c.ppu.Reset()
	c.apu.Reset()
	c.cpu.Reset()
	c.frameReady = false
	c.dmaStall = 0
	c.catchUp(7)
}

// CPU returns the console's CPU.
func (c *Console) CPU() *cpu.CPU { return c.cpu }

// PPU returns the console's PPU.
func (c *Console) PPU() *ppu.PPU { return c.ppu }

// APU returns the console's APU.
func (c *Console) APU() *apu.APU { return c.apu }

// Memory returns the CPU address space.
func (c *Console) Memory() *memory.Memory { return c.mem }

// Controller returns the controller in the given port.
func (c *Console) Controller(port int) *input.Controller {
	return c.input.Controller(port)
}

// FrameBuffer returns the PPU frame buffer.
func (c *Console) FrameBuffer() *[256 * 240]uint32 {
	return c.ppu.FrameBuffer()
}

// Samples drains the APU sample queue.
func (c *Console) Samples() []float32 {
	return c.apu.Samples()
}

// TraceLine renders the golden-log line for the next instruction.
func (c *Console) TraceLine() string {
	return c.cpu.Trace(c.ppu.Scanline(), c.ppu.Dot())
}

// catchUp advances the PPU and APU by the given number of CPU cycles,
// latching the PPU's NMI line into the CPU once per cycle.
func (c *Console) catchUp(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		c.ppu.Step()
		c.ppu.Step()
		c.ppu.Step()
		c.cpu.SetNMILine(c.ppu.NMILine())
		c.apu.Step()
	}
}

// SetTraceWriter enables golden-log tracing: one line per instruction is
// written before it executes. Pass nil to disable.
func (c *Console) SetTraceWriter(w io.Writer) {
	c.traceWriter = w
}

// Step executes one CPU instruction (or one interrupt sequence) and brings
// the rest of the console up to date. It returns the number of CPU cycles
// consumed, including DMA stalls. A jammed CPU returns cpu.ErrHalted.
func (c *Console) Step() (uint64, error) {
	if c.cpu.Halted() {
		return 0, cpu.ErrHalted
	}

	if c.traceWriter != nil {
		fmt.Fprintln(c.traceWriter, c.TraceLine())
	}

	cycles := c.cpu.Step()
	if c.cpu.Halted() {
		// The jam opcode itself still consumed its fetch cycles
		c.catchUp(cycles)
		return cycles, cpu.ErrHalted
	}

	// OAM DMA triggered by a $4014 write inside this instruction
	stolen := c.dmaStall
	c.dmaStall = 0

	c.catchUp(cycles + stolen)

	// DMC sample fetches during the catch-up steal further cycles
	for {
		stall := uint64(c.apu.TakeStall())
		if stall == 0 {
			break
		}
		stolen += stall
		c.catchUp(stall)
	}

	if stolen > 0 {
		c.cpu.SetCycles(c.cpu.Cycles() + stolen)
	}

	c.cpu.SetIRQLine(c.apu.IRQLine() || c.cart.IRQPending())

	return cycles + stolen, nil
}

// RunFrame steps the console until the PPU completes the current frame.
func (c *Console) RunFrame() error {
	for !c.frameReady {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	c.frameReady = false
	return nil
}

// oamDMA performs the $4014 sprite DMA: 256 bytes copied from CPU page
// (page << 8) into OAM starting at the current OAM address. The transfer
// halts the CPU for 513 cycles, 514 when it starts on an odd cycle.
func (c *Console) oamDMA(page uint8) {
	base := uint16(page) << 8
	start := c.ppu.OAMAddr()
	for i := 0; i < 256; i++ {
		c.ppu.WriteOAM(start+uint8(i), c.mem.Read(base+uint16(i)))
	}

	c.dmaStall += 513
	if c.cpu.Cycles()%2 == 1 {
		c.dmaStall++
	}
}
