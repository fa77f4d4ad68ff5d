package cpu

// AddressingMode identifies how an instruction forms its operand address.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// accessClass describes the bus behavior of an instruction's data access.
// It drives both the dummy-read reproduction during address resolution and
// the page-crossing penalty rule: only reads re-check the page and pay the
// extra cycle; writes and read-modify-writes have committed to the indexed
// address and carry the cost in their base cycle count.
type accessClass int

const (
	accessNone accessClass = iota
	accessRead
	accessWrite
	accessRMW
)

// Instruction describes one opcode: mnemonic, encoded length, base cycle
// count, addressing mode and bus access class.
type Instruction struct {
	Name   string
	Opcode uint8
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
	access accessClass
}

// Instruction returns the table entry for an opcode. Every opcode byte has
// an entry; undocumented operations are modeled, not guessed around.
func (cpu *CPU) Instruction(opcode uint8) *Instruction {
	return cpu.instructions[opcode]
}

// execute runs the operation for the given opcode and returns extra cycles
// beyond the base count (branch penalties).
func (cpu *CPU) execute(opcode uint8, address uint16, pageCrossed bool) uint8 {
	switch opcode {
	// Load/Store
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1: // LDA
		return cpu.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE: // LDX
		return cpu.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC: // LDY
		return cpu.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91: // STA
		return cpu.sta(address)
	case 0x86, 0x96, 0x8E: // STX
		return cpu.stx(address)
	case 0x84, 0x94, 0x8C: // STY
		return cpu.sty(address)

	// Arithmetic
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71: // ADC
		cpu.addWithCarry(cpu.memory.Read(address))
		return 0
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1: // SBC (0xEB undocumented)
		cpu.subWithBorrow(cpu.memory.Read(address))
		return 0

	// Logical
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31: // AND
		cpu.A &= cpu.memory.Read(address)
		cpu.setZN(cpu.A)
		return 0
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11: // ORA
		cpu.A |= cpu.memory.Read(address)
		cpu.setZN(cpu.A)
		return 0
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51: // EOR
		cpu.A ^= cpu.memory.Read(address)
		cpu.setZN(cpu.A)
		return 0

	// Shifts and rotates
	case 0x0A: // ASL A
		cpu.A = cpu.aslValue(cpu.A)
		return 0
	case 0x06, 0x16, 0x0E, 0x1E: // ASL
		cpu.modify(address, cpu.aslValue)
		return 0
	case 0x4A: // LSR A
		cpu.A = cpu.lsrValue(cpu.A)
		return 0
	case 0x46, 0x56, 0x4E, 0x5E: // LSR
		cpu.modify(address, cpu.lsrValue)
		return 0
	case 0x2A: // ROL A
		cpu.A = cpu.rolValue(cpu.A)
		return 0
	case 0x26, 0x36, 0x2E, 0x3E: // ROL
		cpu.modify(address, cpu.rolValue)
		return 0
	case 0x6A: // ROR A
		cpu.A = cpu.rorValue(cpu.A)
		return 0
	case 0x66, 0x76, 0x6E, 0x7E: // ROR
		cpu.modify(address, cpu.rorValue)
		return 0

	// Comparisons
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1: // CMP
		cpu.compare(cpu.A, cpu.memory.Read(address))
		return 0
	case 0xE0, 0xE4, 0xEC: // CPX
		cpu.compare(cpu.X, cpu.memory.Read(address))
		return 0
	case 0xC0, 0xC4, 0xCC: // CPY
		cpu.compare(cpu.Y, cpu.memory.Read(address))
		return 0

	// Increment/Decrement
	case 0xE6, 0xF6, 0xEE, 0xFE: // INC
		cpu.modify(address, func(v uint8) uint8 { v++; cpu.setZN(v); return v })
		return 0
	case 0xC6, 0xD6, 0xCE, 0xDE: // DEC
		cpu.modify(address, func(v uint8) uint8 { v--; cpu.setZN(v); return v })
		return 0
	case 0xE8: // INX
		cpu.X++
		cpu.setZN(cpu.X)
		return 0
	case 0xCA: // DEX
		cpu.X--
		cpu.setZN(cpu.X)
		return 0
	case 0xC8: // INY
		cpu.Y++
		cpu.setZN(cpu.Y)
		return 0
	case 0x88: // DEY
		cpu.Y--
		cpu.setZN(cpu.Y)
		return 0

	// Transfers
	case 0xAA: // TAX
		cpu.X = cpu.A
		cpu.setZN(cpu.X)
		return 0
	case 0x8A: // TXA
		cpu.A = cpu.X
		cpu.setZN(cpu.A)
		return 0
	case 0xA8: // TAY
		cpu.Y = cpu.A
		cpu.setZN(cpu.Y)
		return 0
	case 0x98: // TYA
		cpu.A = cpu.Y
		cpu.setZN(cpu.A)
		return 0
	case 0xBA: // TSX
		cpu.X = cpu.SP
		cpu.setZN(cpu.X)
		return 0
	case 0x9A: // TXS
		cpu.SP = cpu.X
		return 0

	// Stack
	case 0x48: // PHA
		cpu.push(cpu.A)
		return 0
	case 0x68: // PLA
		cpu.A = cpu.pop()
		cpu.setZN(cpu.A)
		return 0
	case 0x08: // PHP pushes with the break bit set (software origin)
		cpu.push(cpu.GetStatusByte() | bFlagMask)
		return 0
	case 0x28: // PLP
		cpu.SetStatusByte(cpu.pop())
		return 0

	// Flags
	case 0x18: // CLC
		cpu.C = false
		return 0
	case 0x38: // SEC
		cpu.C = true
		return 0
	case 0x58: // CLI
		cpu.I = false
		return 0
	case 0x78: // SEI
		cpu.I = true
		return 0
	case 0xB8: // CLV
		cpu.V = false
		return 0
	case 0xD8: // CLD
		cpu.D = false
		return 0
	case 0xF8: // SED
		cpu.D = true
		return 0

	// Control flow
	case 0x4C, 0x6C: // JMP
		cpu.PC = address
		return 0
	case 0x20: // JSR pushes the address of its own last byte
		cpu.pushWord(cpu.PC - 1)
		cpu.PC = address
		return 0
	case 0x60: // RTS
		cpu.PC = cpu.popWord() + 1
		return 0
	case 0x40: // RTI
		cpu.SetStatusByte(cpu.pop())
		cpu.PC = cpu.popWord()
		// RTI restores I before the poll, no one-instruction delay
		cpu.irqGate = cpu.I
		return 0

	// Branches
	case 0x90: // BCC
		return cpu.branch(!cpu.C, address, pageCrossed)
	case 0xB0: // BCS
		return cpu.branch(cpu.C, address, pageCrossed)
	case 0xD0: // BNE
		return cpu.branch(!cpu.Z, address, pageCrossed)
	case 0xF0: // BEQ
		return cpu.branch(cpu.Z, address, pageCrossed)
	case 0x10: // BPL
		return cpu.branch(!cpu.N, address, pageCrossed)
	case 0x30: // BMI
		return cpu.branch(cpu.N, address, pageCrossed)
	case 0x50: // BVC
		return cpu.branch(!cpu.V, address, pageCrossed)
	case 0x70: // BVS
		return cpu.branch(cpu.V, address, pageCrossed)

	// Miscellaneous
	case 0x24, 0x2C: // BIT
		value := cpu.memory.Read(address)
		cpu.N = (value & nFlagMask) != 0
		cpu.V = (value & vFlagMask) != 0
		cpu.Z = (cpu.A & value) == 0
		return 0
	case 0x00: // BRK
		return cpu.brk()

	// Undocumented NOPs (with their real bus accesses)
	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA: // NOP implied
		return 0
	case 0x80, 0x82, 0x89, 0xC2, 0xE2, // NOP immediate
		0x04, 0x44, 0x64, // NOP zero page
		0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4, // NOP zero page,X
		0x0C,                               // NOP absolute
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC: // NOP absolute,X
		cpu.memory.Read(address)
		return 0

	// Undocumented combined operations
	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF: // LAX
		cpu.A = cpu.memory.Read(address)
		cpu.X = cpu.A
		cpu.setZN(cpu.A)
		return 0
	case 0x83, 0x87, 0x8F, 0x97: // SAX
		cpu.memory.Write(address, cpu.A&cpu.X)
		return 0
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB: // DCP = DEC + CMP
		value := cpu.modify(address, func(v uint8) uint8 { return v - 1 })
		cpu.compare(cpu.A, value)
		return 0
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB: // ISB = INC + SBC
		value := cpu.modify(address, func(v uint8) uint8 { return v + 1 })
		cpu.subWithBorrow(value)
		return 0
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B: // SLO = ASL + ORA
		value := cpu.modify(address, cpu.aslValue)
		cpu.A |= value
		cpu.setZN(cpu.A)
		return 0
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B: // RLA = ROL + AND
		value := cpu.modify(address, cpu.rolValue)
		cpu.A &= value
		cpu.setZN(cpu.A)
		return 0
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B: // SRE = LSR + EOR
		value := cpu.modify(address, cpu.lsrValue)
		cpu.A ^= value
		cpu.setZN(cpu.A)
		return 0
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B: // RRA = ROR + ADC
		value := cpu.modify(address, cpu.rorValue)
		cpu.addWithCarry(value)
		return 0

	// Undocumented immediate-mode operations
	case 0x0B, 0x2B: // ANC = AND + carry from bit 7
		cpu.A &= cpu.memory.Read(address)
		cpu.setZN(cpu.A)
		cpu.C = (cpu.A & 0x80) != 0
		return 0
	case 0x4B: // ALR = AND + LSR A
		cpu.A &= cpu.memory.Read(address)
		cpu.A = cpu.lsrValue(cpu.A)
		return 0
	case 0x6B: // ARR = AND + ROR A with special flag rules
		cpu.A &= cpu.memory.Read(address)
		oldCarry := cpu.C
		cpu.A >>= 1
		if oldCarry {
			cpu.A |= 0x80
		}
		cpu.setZN(cpu.A)
		cpu.C = (cpu.A & 0x40) != 0
		cpu.V = ((cpu.A >> 6) & 1) != ((cpu.A >> 5) & 1)
		return 0
	case 0x8B: // XAA, unstable: modeled as (A | magic) & X & imm
		cpu.A = (cpu.A | xaaMagic) & cpu.X & cpu.memory.Read(address)
		cpu.setZN(cpu.A)
		return 0
	case 0xAB: // LXA, unstable: modeled as (A | magic) & imm into A and X
		cpu.A = (cpu.A | xaaMagic) & cpu.memory.Read(address)
		cpu.X = cpu.A
		cpu.setZN(cpu.A)
		return 0
	case 0xCB: // AXS = (A & X) - imm into X
		value := cpu.memory.Read(address)
		result := cpu.A & cpu.X
		cpu.C = result >= value
		cpu.X = result - value
		cpu.setZN(cpu.X)
		return 0

	// Undocumented high-byte stores
	case 0x9F, 0x93: // AHX: store A & X & (addr high + 1)
		cpu.memory.Write(address, cpu.A&cpu.X&(uint8(address>>8)+1))
		return 0
	case 0x9C: // SHY: store Y & (addr high + 1)
		cpu.memory.Write(address, cpu.Y&(uint8(address>>8)+1))
		return 0
	case 0x9E: // SHX: store X & (addr high + 1)
		cpu.memory.Write(address, cpu.X&(uint8(address>>8)+1))
		return 0
	case 0x9B: // TAS: SP = A & X, then store SP & (addr high + 1)
		cpu.SP = cpu.A & cpu.X
		cpu.memory.Write(address, cpu.SP&(uint8(address>>8)+1))
		return 0
	case 0xBB: // LAS: A = X = SP = mem & SP
		value := cpu.memory.Read(address) & cpu.SP
		cpu.A = value
		cpu.X = value
		cpu.SP = value
		cpu.setZN(value)
		return 0

	// Jam opcodes: the CPU is wedged until reset
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		cpu.halted = true
		cpu.PC-- // stay on the jam opcode
		return 0
	}
	return 0
}

// xaaMagic is the bus-dependent constant in the XAA/LXA result model. $EE
// matches the value most hardware units settle on and the common test ROMs.
const xaaMagic = 0xEE

// addWithCarry implements the ADC core shared with RRA.
func (cpu *CPU) addWithCarry(value uint8) {
	carry := uint8(0)
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + uint16(carry)
	cpu.V = ((cpu.A^uint8(result))&0x80) != 0 && ((cpu.A^value)&0x80) == 0
	cpu.C = result > 0xFF
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
}

// subWithBorrow implements the SBC core shared with ISB (ADC of ^value).
func (cpu *CPU) subWithBorrow(value uint8) {
	cpu.addWithCarry(value ^ 0xFF)
}

func (cpu *CPU) compare(register, value uint8) {
	cpu.C = register >= value
	cpu.setZN(register - value)
}

// modify performs a read-modify-write access the way hardware does: the
// original value is written back before the modified value.
func (cpu *CPU) modify(address uint16, f func(uint8) uint8) uint8 {
	value := cpu.memory.Read(address)
	cpu.memory.Write(address, value)
	result := f(value)
	cpu.memory.Write(address, result)
	return result
}

func (cpu *CPU) aslValue(value uint8) uint8 {
	cpu.C = (value & 0x80) != 0
	value <<= 1
	cpu.setZN(value)
	return value
}

func (cpu *CPU) lsrValue(value uint8) uint8 {
	cpu.C = (value & 0x01) != 0
	value >>= 1
	cpu.setZN(value)
	return value
}

func (cpu *CPU) rolValue(value uint8) uint8 {
	oldCarry := cpu.C
	cpu.C = (value & 0x80) != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	cpu.setZN(value)
	return value
}

func (cpu *CPU) rorValue(value uint8) uint8 {
	oldCarry := cpu.C
	cpu.C = (value & 0x01) != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	cpu.setZN(value)
	return value
}

func (cpu *CPU) lda(address uint16) uint8 {
	cpu.A = cpu.memory.Read(address)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) ldx(address uint16) uint8 {
	cpu.X = cpu.memory.Read(address)
	cpu.setZN(cpu.X)
	return 0
}

func (cpu *CPU) ldy(address uint16) uint8 {
	cpu.Y = cpu.memory.Read(address)
	cpu.setZN(cpu.Y)
	return 0
}

func (cpu *CPU) sta(address uint16) uint8 {
	cpu.memory.Write(address, cpu.A)
	return 0
}

func (cpu *CPU) stx(address uint16) uint8 {
	cpu.memory.Write(address, cpu.X)
	return 0
}

func (cpu *CPU) sty(address uint16) uint8 {
	cpu.memory.Write(address, cpu.Y)
	return 0
}

// branch takes the branch when the condition holds: +1 cycle taken, +1 more
// when the target is on a different page.
func (cpu *CPU) branch(condition bool, address uint16, pageCrossed bool) uint8 {
	if !condition {
		return 0
	}
	cpu.PC = address
	if pageCrossed {
		return 2
	}
	return 1
}

// brk runs the software interrupt sequence. The status byte is pushed with
// the break bit set, marking its software origin. A pending NMI hijacks the
// vector fetch, which is why the pending check happens after the pushes.
func (cpu *CPU) brk() uint8 {
	cpu.PC++ // padding byte
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.GetStatusByte() | bFlagMask)
	cpu.I = true
	cpu.irqGate = true

	vector := uint16(irqVector)
	if cpu.nmiPending {
		cpu.nmiPending = false
		vector = nmiVector
	}
	low := uint16(cpu.memory.Read(vector))
	high := uint16(cpu.memory.Read(vector + 1))
	cpu.PC = (high << 8) | low
	return 0
}

// initInstructions populates the 256-entry dispatch table. Every opcode is
// defined; undocumented operations carry their measured cycle counts.
func (cpu *CPU) initInstructions() {
	set := func(op uint8, name string, bytes, cycles uint8, mode AddressingMode, access accessClass) {
		cpu.instructions[op] = &Instruction{name, op, bytes, cycles, mode, access}
	}

	// Load
	set(0xA9, "LDA", 2, 2, Immediate, accessRead)
	set(0xA5, "LDA", 2, 3, ZeroPage, accessRead)
	set(0xB5, "LDA", 2, 4, ZeroPageX, accessRead)
	set(0xAD, "LDA", 3, 4, Absolute, accessRead)
	set(0xBD, "LDA", 3, 4, AbsoluteX, accessRead)
	set(0xB9, "LDA", 3, 4, AbsoluteY, accessRead)
	set(0xA1, "LDA", 2, 6, IndexedIndirect, accessRead)
	set(0xB1, "LDA", 2, 5, IndirectIndexed, accessRead)

	set(0xA2, "LDX", 2, 2, Immediate, accessRead)
	set(0xA6, "LDX", 2, 3, ZeroPage, accessRead)
	set(0xB6, "LDX", 2, 4, ZeroPageY, accessRead)
	set(0xAE, "LDX", 3, 4, Absolute, accessRead)
	set(0xBE, "LDX", 3, 4, AbsoluteY, accessRead)

	set(0xA0, "LDY", 2, 2, Immediate, accessRead)
	set(0xA4, "LDY", 2, 3, ZeroPage, accessRead)
	set(0xB4, "LDY", 2, 4, ZeroPageX, accessRead)
	set(0xAC, "LDY", 3, 4, Absolute, accessRead)
	set(0xBC, "LDY", 3, 4, AbsoluteX, accessRead)

	// Store
	set(0x85, "STA", 2, 3, ZeroPage, accessWrite)
	set(0x95, "STA", 2, 4, ZeroPageX, accessWrite)
	set(0x8D, "STA", 3, 4, Absolute, accessWrite)
	set(0x9D, "STA", 3, 5, AbsoluteX, accessWrite)
	set(0x99, "STA", 3, 5, AbsoluteY, accessWrite)
	set(0x81, "STA", 2, 6, IndexedIndirect, accessWrite)
	set(0x91, "STA", 2, 6, IndirectIndexed, accessWrite)

	set(0x86, "STX", 2, 3, ZeroPage, accessWrite)
	set(0x96, "STX", 2, 4, ZeroPageY, accessWrite)
	set(0x8E, "STX", 3, 4, Absolute, accessWrite)

	set(0x84, "STY", 2, 3, ZeroPage, accessWrite)
	set(0x94, "STY", 2, 4, ZeroPageX, accessWrite)
	set(0x8C, "STY", 3, 4, Absolute, accessWrite)

	// Arithmetic
	set(0x69, "ADC", 2, 2, Immediate, accessRead)
	set(0x65, "ADC", 2, 3, ZeroPage, accessRead)
	set(0x75, "ADC", 2, 4, ZeroPageX, accessRead)
	set(0x6D, "ADC", 3, 4, Absolute, accessRead)
	set(0x7D, "ADC", 3, 4, AbsoluteX, accessRead)
	set(0x79, "ADC", 3, 4, AbsoluteY, accessRead)
	set(0x61, "ADC", 2, 6, IndexedIndirect, accessRead)
	set(0x71, "ADC", 2, 5, IndirectIndexed, accessRead)

	set(0xE9, "SBC", 2, 2, Immediate, accessRead)
	set(0xEB, "SBC", 2, 2, Immediate, accessRead) // undocumented alias
	set(0xE5, "SBC", 2, 3, ZeroPage, accessRead)
	set(0xF5, "SBC", 2, 4, ZeroPageX, accessRead)
	set(0xED, "SBC", 3, 4, Absolute, accessRead)
	set(0xFD, "SBC", 3, 4, AbsoluteX, accessRead)
	set(0xF9, "SBC", 3, 4, AbsoluteY, accessRead)
	set(0xE1, "SBC", 2, 6, IndexedIndirect, accessRead)
	set(0xF1, "SBC", 2, 5, IndirectIndexed, accessRead)

	// Logical
	set(0x29, "AND", 2, 2, Immediate, accessRead)
	set(0x25, "AND", 2, 3, ZeroPage, accessRead)
	set(0x35, "AND", 2, 4, ZeroPageX, accessRead)
	set(0x2D, "AND", 3, 4, Absolute, accessRead)
	set(0x3D, "AND", 3, 4, AbsoluteX, accessRead)
	set(0x39, "AND", 3, 4, AbsoluteY, accessRead)
	set(0x21, "AND", 2, 6, IndexedIndirect, accessRead)
	set(0x31, "AND", 2, 5, IndirectIndexed, accessRead)

	set(0x09, "ORA", 2, 2, Immediate, accessRead)
	set(0x05, "ORA", 2, 3, ZeroPage, accessRead)
	set(0x15, "ORA", 2, 4, ZeroPageX, accessRead)
	set(0x0D, "ORA", 3, 4, Absolute, accessRead)
	set(0x1D, "ORA", 3, 4, AbsoluteX, accessRead)
	set(0x19, "ORA", 3, 4, AbsoluteY, accessRead)
	set(0x01, "ORA", 2, 6, IndexedIndirect, accessRead)
	set(0x11, "ORA", 2, 5, IndirectIndexed, accessRead)

	set(0x49, "EOR", 2, 2, Immediate, accessRead)
	set(0x45, "EOR", 2, 3, ZeroPage, accessRead)
	set(0x55, "EOR", 2, 4, ZeroPageX, accessRead)
	set(0x4D, "EOR", 3, 4, Absolute, accessRead)
	set(0x5D, "EOR", 3, 4, AbsoluteX, accessRead)
	set(0x59, "EOR", 3, 4, AbsoluteY, accessRead)
	set(0x41, "EOR", 2, 6, IndexedIndirect, accessRead)
	set(0x51, "EOR", 2, 5, IndirectIndexed, accessRead)

	// Shifts and rotates
	set(0x0A, "ASL", 1, 2, Accumulator, accessNone)
	set(0x06, "ASL", 2, 5, ZeroPage, accessRMW)
	set(0x16, "ASL", 2, 6, ZeroPageX, accessRMW)
	set(0x0E, "ASL", 3, 6, Absolute, accessRMW)
	set(0x1E, "ASL", 3, 7, AbsoluteX, accessRMW)

	set(0x4A, "LSR", 1, 2, Accumulator, accessNone)
	set(0x46, "LSR", 2, 5, ZeroPage, accessRMW)
	set(0x56, "LSR", 2, 6, ZeroPageX, accessRMW)
	set(0x4E, "LSR", 3, 6, Absolute, accessRMW)
	set(0x5E, "LSR", 3, 7, AbsoluteX, accessRMW)

	set(0x2A, "ROL", 1, 2, Accumulator, accessNone)
	set(0x26, "ROL", 2, 5, ZeroPage, accessRMW)
	set(0x36, "ROL", 2, 6, ZeroPageX, accessRMW)
	set(0x2E, "ROL", 3, 6, Absolute, accessRMW)
	set(0x3E, "ROL", 3, 7, AbsoluteX, accessRMW)

	set(0x6A, "ROR", 1, 2, Accumulator, accessNone)
	set(0x66, "ROR", 2, 5, ZeroPage, accessRMW)
	set(0x76, "ROR", 2, 6, ZeroPageX, accessRMW)
	set(0x6E, "ROR", 3, 6, Absolute, accessRMW)
	set(0x7E, "ROR", 3, 7, AbsoluteX, accessRMW)

	// Comparisons
	set(0xC9, "CMP", 2, 2, Immediate, accessRead)
	set(0xC5, "CMP", 2, 3, ZeroPage, accessRead)
	set(0xD5, "CMP", 2, 4, ZeroPageX, accessRead)
	set(0xCD, "CMP", 3, 4, Absolute, accessRead)
	set(0xDD, "CMP", 3, 4, AbsoluteX, accessRead)
	set(0xD9, "CMP", 3, 4, AbsoluteY, accessRead)
	set(0xC1, "CMP", 2, 6, IndexedIndirect, accessRead)
	set(0xD1, "CMP", 2, 5, IndirectIndexed, accessRead)

	set(0xE0, "CPX", 2, 2, Immediate, accessRead)
	set(0xE4, "CPX", 2, 3, ZeroPage, accessRead)
	set(0xEC, "CPX", 3, 4, Absolute, accessRead)

	set(0xC0, "CPY", 2, 2, Immediate, accessRead)
	set(0xC4, "CPY", 2, 3, ZeroPage, accessRead)
	set(0xCC, "CPY", 3, 4, Absolute, accessRead)

	// Increment/Decrement
	set(0xE6, "INC", 2, 5, ZeroPage, accessRMW)
	set(0xF6, "INC", 2, 6, ZeroPageX, accessRMW)
	set(0xEE, "INC", 3, 6, Absolute, accessRMW)
	set(0xFE, "INC", 3, 7, AbsoluteX, accessRMW)

	set(0xC6, "DEC", 2, 5, ZeroPage, accessRMW)
	set(0xD6, "DEC", 2, 6, ZeroPageX, accessRMW)
	set(0xCE, "DEC", 3, 6, Absolute, accessRMW)
	set(0xDE, "DEC", 3, 7, AbsoluteX, accessRMW)

	set(0xE8, "INX", 1, 2, Implied, accessNone)
	set(0xCA, "DEX", 1, 2, Implied, accessNone)
	set(0xC8, "INY", 1, 2, Implied, accessNone)
	set(0x88, "DEY", 1, 2, Implied, accessNone)

	// Transfers
	set(0xAA, "TAX", 1, 2, Implied, accessNone)
	set(0x8A, "TXA", 1, 2, Implied, accessNone)
	set(0xA8, "TAY", 1, 2, Implied, accessNone)
	set(0x98, "TYA", 1, 2, Implied, accessNone)
	set(0xBA, "TSX", 1, 2, Implied, accessNone)
	set(0x9A, "TXS", 1, 2, Implied, accessNone)

	// Stack
	set(0x48, "PHA", 1, 3, Implied, accessNone)
	set(0x68, "PLA", 1, 4, Implied, accessNone)
	set(0x08, "PHP", 1, 3, Implied, accessNone)
	set(0x28, "PLP", 1, 4, Implied, accessNone)

	// Flags
	set(0x18, "CLC", 1, 2, Implied, accessNone)
	set(0x38, "SEC", 1, 2, Implied, accessNone)
	set(0x58, "CLI", 1, 2, Implied, accessNone)
	set(0x78, "SEI", 1, 2, Implied, accessNone)
	set(0xB8, "CLV", 1, 2, Implied, accessNone)
	set(0xD8, "CLD", 1, 2, Implied, accessNone)
	set(0xF8, "SED", 1, 2, Implied, accessNone)

	// Control flow
	set(0x4C, "JMP", 3, 3, Absolute, accessNone)
	set(0x6C, "JMP", 3, 5, Indirect, accessNone)
	set(0x20, "JSR", 3, 6, Absolute, accessNone)
	set(0x60, "RTS", 1, 6, Implied, accessNone)
	set(0x40, "RTI", 1, 6, Implied, accessNone)
	set(0x00, "BRK", 1, 7, Implied, accessNone)

	// Branches
	set(0x90, "BCC", 2, 2, Relative, accessNone)
	set(0xB0, "BCS", 2, 2, Relative, accessNone)
	set(0xD0, "BNE", 2, 2, Relative, accessNone)
	set(0xF0, "BEQ", 2, 2, Relative, accessNone)
	set(0x10, "BPL", 2, 2, Relative, accessNone)
	set(0x30, "BMI", 2, 2, Relative, accessNone)
	set(0x50, "BVC", 2, 2, Relative, accessNone)
	set(0x70, "BVS", 2, 2, Relative, accessNone)

	// BIT
	set(0x24, "BIT", 2, 3, ZeroPage, accessRead)
	set(0x2C, "BIT", 3, 4, Absolute, accessRead)

	// NOP and its undocumented variants
	set(0xEA, "NOP", 1, 2, Implied, accessNone)
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", 1, 2, Implied, accessNone)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", 2, 2, Immediate, accessRead)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", 2, 3, ZeroPage, accessRead)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", 2, 4, ZeroPageX, accessRead)
	}
	set(0x0C, "NOP", 3, 4, Absolute, accessRead)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", 3, 4, AbsoluteX, accessRead)
	}

	// LAX / SAX
	set(0xA3, "LAX", 2, 6, IndexedIndirect, accessRead)
	set(0xA7, "LAX", 2, 3, ZeroPage, accessRead)
	set(0xAF, "LAX", 3, 4, Absolute, accessRead)
	set(0xB3, "LAX", 2, 5, IndirectIndexed, accessRead)
	set(0xB7, "LAX", 2, 4, ZeroPageY, accessRead)
	set(0xBF, "LAX", 3, 4, AbsoluteY, accessRead)

	set(0x83, "SAX", 2, 6, IndexedIndirect, accessWrite)
	set(0x87, "SAX", 2, 3, ZeroPage, accessWrite)
	set(0x8F, "SAX", 3, 4, Absolute, accessWrite)
	set(0x97, "SAX", 2, 4, ZeroPageY, accessWrite)

	// RMW fusions
	rmwFusion := func(name string, zp, zpx, abs, absx, absy, indx, indy uint8) {
		set(zp, name, 2, 5, ZeroPage, accessRMW)
		set(zpx, name, 2, 6, ZeroPageX, accessRMW)
		set(abs, name, 3, 6, Absolute, accessRMW)
		set(absx, name, 3, 7, AbsoluteX, accessRMW)
		set(absy, name, 3, 7, AbsoluteY, accessRMW)
		set(indx, name, 2, 8, IndexedIndirect, accessRMW)
		set(indy, name, 2, 8, IndirectIndexed, accessRMW)
	}
	rmwFusion("SLO", 0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13)
	rmwFusion("RLA", 0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33)
	rmwFusion("SRE", 0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53)
	rmwFusion("RRA", 0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73)
	rmwFusion("DCP", 0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3)
	rmwFusion("ISB", 0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3)

	// Immediate-mode fusions and unstable operations
	set(0x0B, "ANC", 2, 2, Immediate, accessRead)
	set(0x2B, "ANC", 2, 2, Immediate, accessRead)
	set(0x4B, "ALR", 2, 2, Immediate, accessRead)
	set(0x6B, "ARR", 2, 2, Immediate, accessRead)
	set(0x8B, "XAA", 2, 2, Immediate, accessRead)
	set(0xAB, "LXA", 2, 2, Immediate, accessRead)
	set(0xCB, "AXS", 2, 2, Immediate, accessRead)

	// High-byte stores
	set(0x93, "AHX", 2, 6, IndirectIndexed, accessWrite)
	set(0x9F, "AHX", 3, 5, AbsoluteY, accessWrite)
	set(0x9B, "TAS", 3, 5, AbsoluteY, accessWrite)
	set(0x9C, "SHY", 3, 5, AbsoluteX, accessWrite)
	set(0x9E, "SHX", 3, 5, AbsoluteY, accessWrite)

	set(0xBB, "LAS", 3, 4, AbsoluteY, accessRead)

	// Jams
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		set(op, "JAM", 1, 2, Implied, accessNone)
	}
}
