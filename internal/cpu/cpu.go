// Package cpu implements the 2A03 (6502-derived) CPU emulation for the NES.
package cpu

import "errors"

// CPU constants
const (
	// Stack base address
	stackBase = 0x0100
	// Status register bit masks
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01
	// Zero page mask
	zeroPageMask = 0xFF
	// Page boundary mask
	pageMask = 0xFF00
	// Interrupt vectors
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// ErrHalted is reported after a jam opcode has stopped the CPU. The only
// way out of the halted state is a full Reset.
var ErrHalted = errors.New("cpu: halted by jam opcode")

// MemoryInterface is the bus the CPU performs all of its accesses through.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the 6502 core of the 2A03.
//
// The break flag is not part of the register file: on hardware it only
// exists in the copy of the status byte pushed to the stack, so it is
// composed at push time instead of stored.
type CPU struct {
	// Registers
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	SP uint8  // Stack pointer
	PC uint16 // Program counter

	// Status register flags
	C bool // Carry
	Z bool // Zero
	I bool // Interrupt disable
	D bool // Decimal mode (storable but inert on the 2A03)
	V bool // Overflow
	N bool // Negative

	memory MemoryInterface

	// Cycle counter (total cycles since power-on)
	cycles uint64

	// Instruction lookup table
	instructions [256]*Instruction

	// Interrupt state
	nmiPending bool // latched on the rising edge of the NMI line
	nmiLine    bool // current level of the NMI line
	irqLine    bool // level-triggered IRQ line
	irqGate    bool // I-flag value used by the IRQ poll; lags one instruction for CLI/SEI/PLP

	// Jam state
	halted bool
}

// New creates a CPU attached to the given bus. The register file holds the
// documented power-on values; the program counter is loaded by Reset.
func New(memory MemoryInterface) *CPU {
	cpu := &CPU{
		memory:  memory,
		SP:      0x00, // Reset decrements this to 0xFD
		I:       true,
		irqGate: true,
	}
	cpu.initInstructions()
	return cpu
}

// Reset performs the hardware reset sequence: the stack pointer drops by 3
// without any memory writes, the interrupt disable flag is set, and the
// program counter is loaded from the reset vector. Costs exactly 7 cycles.
func (cpu *CPU) Reset() {
	cpu.SP -= 3
	cpu.I = true
	cpu.irqGate = true

	low := uint16(cpu.memory.Read(resetVector))
	high := uint16(cpu.memory.Read(resetVector + 1))
	cpu.PC = (high << 8) | low

	cpu.halted = false
	cpu.nmiPending = false
	cpu.cycles += 7
}

// Halted reports whether a jam opcode has stopped the CPU.
func (cpu *CPU) Halted() bool {
	return cpu.halted
}

// Cycles returns the total cycle count since power-on.
func (cpu *CPU) Cycles() uint64 {
	return cpu.cycles
}

// SetCycles overrides the cycle counter. Used by the golden-log harness to
// align with a reference trace that starts at a non-zero count.
func (cpu *CPU) SetCycles(c uint64) {
	cpu.cycles = c
}

// Step executes a single instruction, or services a pending interrupt, and
// returns the exact number of hardware cycles consumed. A halted CPU
// consumes nothing and returns 0.
func (cpu *CPU) Step() uint64 {
	if cpu.halted {
		return 0
	}

	// Interrupts won the poll on the second-to-last cycle of the previous
	// instruction; they are serviced here, before the next opcode fetch.
	if cpu.nmiPending {
		cpu.nmiPending = false
		cpu.interrupt(nmiVector)
		return 7
	}
	if cpu.irqLine && !cpu.irqGate {
		cpu.interrupt(irqVector)
		return 7
	}

	iBefore := cpu.I

	opcode := cpu.memory.Read(cpu.PC)
	instruction := cpu.instructions[opcode]

	address, pageCrossed := cpu.operandAddress(instruction)
	extraCycles := cpu.execute(opcode, address, pageCrossed)

	// One extra cycle when an indexed read crosses a page. Writes and
	// read-modify-writes have already committed to the fixed-up address
	// and carry the cost in their base count.
	if pageCrossed && instruction.access == accessRead {
		extraCycles++
	}

	totalCycles := uint64(instruction.Cycles) + uint64(extraCycles)
	cpu.cycles += totalCycles

	// CLI, SEI and PLP change the I flag after the poll, so the IRQ
	// decision for the next instruction still sees the old value.
	switch opcode {
	case 0x58, 0x78, 0x28: // CLI, SEI, PLP
		cpu.irqGate = iBefore
	default:
		cpu.irqGate = cpu.I
	}

	return totalCycles
}

// interrupt runs the common NMI/IRQ sequence: push return state with the
// break bit clear, set I, fetch the vector. 7 cycles.
func (cpu *CPU) interrupt(vector uint16) {
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.GetStatusByte())
	cpu.I = true
	cpu.irqGate = true
	low := uint16(cpu.memory.Read(vector))
	high := uint16(cpu.memory.Read(vector + 1))
	cpu.PC = (high << 8) | low
	cpu.cycles += 7
}

// SetNMILine drives the NMI input. NMI is edge-triggered: only a low-to-high
// transition of (vblank AND nmi-enable), as computed by the PPU, latches a
// pending NMI.
func (cpu *CPU) SetNMILine(level bool) {
	if level && !cpu.nmiLine {
		cpu.nmiPending = true
	}
	cpu.nmiLine = level
}

// SetIRQLine drives the level-triggered IRQ input (APU frame counter, DMC,
// mapper). The line is polled before each instruction, gated by I.
func (cpu *CPU) SetIRQLine(level bool) {
	cpu.irqLine = level
}

// Stack operations
func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value & 0xFF))
}

func (cpu *CPU) popWord() uint16 {
	low := uint16(cpu.pop())
	high := uint16(cpu.pop())
	return (high << 8) | low
}

// setZN sets Zero and Negative flags based on value
func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = (value & nFlagMask) != 0
}

// GetStatusByte returns the status register as it reads during a hardware
// interrupt push: unused bit set, break bit clear.
func (cpu *CPU) GetStatusByte() uint8 {
	var status uint8 = unusedMask
	if cpu.N {
		status |= nFlagMask
	}
	if cpu.V {
		status |= vFlagMask
	}
	if cpu.D {
		status |= dFlagMask
	}
	if cpu.I {
		status |= iFlagMask
	}
	if cpu.Z {
		status |= zFlagMask
	}
	if cpu.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte sets the flags from a stack byte. The break and unused
// bits are not CPU state and are ignored.
func (cpu *CPU) SetStatusByte(status uint8) {
	cpu.N = (status & nFlagMask) != 0
	cpu.V = (status & vFlagMask) != 0
	cpu.D = (status & dFlagMask) != 0
	cpu.I = (status & iFlagMask) != 0
	cpu.Z = (status & zFlagMask) != 0
	cpu.C = (status & cFlagMask) != 0
}

// operandAddress resolves the addressing mode of the given instruction,
// advancing PC past the operand bytes. It reports the effective address
// and whether an indexed access crossed a page boundary.
//
// The resolver reproduces the dummy bus accesses hardware performs while
// forming an address: indexed absolute and (zp),Y accesses read the
// un-fixed address first whenever the high byte needs correction, and
// always for writes and read-modify-writes; zero-page indexing reads the
// un-indexed zero-page byte before adding the index.
func (cpu *CPU) operandAddress(in *Instruction) (uint16, bool) {
	switch in.Mode {
	case Implied, Accumulator:
		cpu.PC++
		return 0, false

	case Immediate:
		address := cpu.PC + 1
		cpu.PC += 2
		return address, false

	case ZeroPage:
		address := uint16(cpu.memory.Read(cpu.PC + 1))
		cpu.PC += 2
		return address, false

	case ZeroPageX:
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.memory.Read(uint16(base)) // dummy read at un-indexed address
		address := uint16((base + cpu.X) & zeroPageMask)
		cpu.PC += 2
		return address, false

	case ZeroPageY:
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.memory.Read(uint16(base)) // dummy read at un-indexed address
		address := uint16((base + cpu.Y) & zeroPageMask)
		cpu.PC += 2
		return address, false

	case Relative:
		offset := int8(cpu.memory.Read(cpu.PC + 1))
		oldPC := cpu.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		cpu.PC = oldPC // updated by the branch op if taken
		pageCrossed := (oldPC & pageMask) != (newPC & pageMask)
		return newPC, pageCrossed

	case Absolute:
		low := uint16(cpu.memory.Read(cpu.PC + 1))
		high := uint16(cpu.memory.Read(cpu.PC + 2))
		address := (high << 8) | low
		cpu.PC += 3
		return address, false

	case AbsoluteX:
		return cpu.indexedAbsolute(cpu.X, in.access)

	case AbsoluteY:
		return cpu.indexedAbsolute(cpu.Y, in.access)

	case Indirect: // JMP only
		lowPtr := uint16(cpu.memory.Read(cpu.PC + 1))
		highPtr := uint16(cpu.memory.Read(cpu.PC + 2))
		ptr := (highPtr << 8) | lowPtr

		// Hardware bug: the pointer high byte is fetched from the start
		// of the same page when the low byte is 0xFF.
		var address uint16
		if (ptr & zeroPageMask) == zeroPageMask {
			low := uint16(cpu.memory.Read(ptr))
			high := uint16(cpu.memory.Read(ptr & pageMask))
			address = (high << 8) | low
		} else {
			low := uint16(cpu.memory.Read(ptr))
			high := uint16(cpu.memory.Read(ptr + 1))
			address = (high << 8) | low
		}
		cpu.PC += 3
		return address, false

	case IndexedIndirect: // (zp,X)
		base := cpu.memory.Read(cpu.PC + 1)
		cpu.memory.Read(uint16(base)) // dummy read before indexing
		ptr := (base + cpu.X) & zeroPageMask
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16((ptr + 1) & zeroPageMask)))
		address := (high << 8) | low
		cpu.PC += 2
		return address, false

	case IndirectIndexed: // (zp),Y
		ptr := uint16(cpu.memory.Read(cpu.PC + 1))
		low := uint16(cpu.memory.Read(ptr))
		high := uint16(cpu.memory.Read((ptr + 1) & zeroPageMask))
		base := (high << 8) | low
		address := base + uint16(cpu.Y)
		cpu.PC += 2
		pageCrossed := (base & pageMask) != (address & pageMask)
		if pageCrossed || in.access == accessWrite || in.access == accessRMW {
			cpu.memory.Read((base & pageMask) | (address &^ pageMask))
		}
		return address, pageCrossed

	default:
		return 0, false
	}
}

// indexedAbsolute resolves abs,X / abs,Y with the dummy read of the
// un-fixed address that hardware performs on page crossings and on every
// write or read-modify-write access.
func (cpu *CPU) indexedAbsolute(index uint8, access accessClass) (uint16, bool) {
	low := uint16(cpu.memory.Read(cpu.PC + 1))
	high := uint16(cpu.memory.Read(cpu.PC + 2))
	base := (high << 8) | low
	address := base + uint16(index)
	cpu.PC += 3
	pageCrossed := (base & pageMask) != (address & pageMask)
	if pageCrossed || access == accessWrite || access == accessRMW {
		cpu.memory.Read((base & pageMask) | (address &^ pageMask))
	}
	return address, pageCrossed
}
