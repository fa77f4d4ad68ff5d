package cpu

import (
	"fmt"
	"strings"
)

// Disassemble renders the instruction at the given address as mnemonic plus
// operand text, and returns its encoded length. Operand bytes are fetched
// through the bus, so callers should only point it at ROM/RAM.
func (cpu *CPU) Disassemble(pc uint16) (string, uint8) {
	opcode := cpu.memory.Read(pc)
	in := cpu.instructions[opcode]

	var op1, op2 uint8
	if in.Bytes > 1 {
		op1 = cpu.memory.Read(pc + 1)
	}
	if in.Bytes > 2 {
		op2 = cpu.memory.Read(pc + 2)
	}
	word := uint16(op2)<<8 | uint16(op1)

	var operand string
	switch in.Mode {
	case Implied:
		operand = ""
	case Accumulator:
		operand = "A"
	case Immediate:
		operand = fmt.Sprintf("#$%02X", op1)
	case ZeroPage:
		operand = fmt.Sprintf("$%02X", op1)
	case ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", op1)
	case ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", op1)
	case Relative:
		target := uint16(int32(pc) + 2 + int32(int8(op1)))
		operand = fmt.Sprintf("$%04X", target)
	case Absolute:
		operand = fmt.Sprintf("$%04X", word)
	case AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", word)
	case AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", word)
	case Indirect:
		operand = fmt.Sprintf("($%04X)", word)
	case IndexedIndirect:
		operand = fmt.Sprintf("($%02X,X)", op1)
	case IndirectIndexed:
		operand = fmt.Sprintf("($%02X),Y", op1)
	}

	if operand == "" {
		return in.Name, in.Bytes
	}
	return in.Name + " " + operand, in.Bytes
}

// Trace renders one golden-log line for the instruction the CPU is about to
// execute: program counter, raw opcode bytes, disassembly, and the current
// register/cycle snapshot (i.e. the state after the previously retired
// instruction). Emitting one line per retired instruction reproduces the
// canonical reference-log stream byte for byte.
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7
func (cpu *CPU) Trace(scanline, dot int) string {
	opcode := cpu.memory.Read(cpu.PC)
	in := cpu.instructions[opcode]

	raw := make([]string, 0, 3)
	for i := uint8(0); i < in.Bytes; i++ {
		raw = append(raw, fmt.Sprintf("%02X", cpu.memory.Read(cpu.PC+uint16(i))))
	}

	disasm, _ := cpu.Disassemble(cpu.PC)

	return fmt.Sprintf("%04X  %-8s  %-30s  A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		cpu.PC, strings.Join(raw, " "), disasm,
		cpu.A, cpu.X, cpu.Y, cpu.GetStatusByte(), cpu.SP,
		scanline, dot, cpu.cycles)
}
