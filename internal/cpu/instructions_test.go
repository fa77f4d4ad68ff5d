package cpu

import "testing"

func TestADCFlagMatrix(t *testing.T) {
	cases := []struct {
		a, m  uint8
		carry bool
		want  uint8
		c, v  bool
	}{
		{0x01, 0x01, false, 0x02, false, false},
		{0x01, 0xFF, false, 0x00, true, false},
		{0x7F, 0x01, false, 0x80, false, true},
		{0x80, 0xFF, false, 0x7F, true, true},
		{0xFF, 0xFF, true, 0xFF, true, false},
		{0x00, 0x00, true, 0x01, false, false},
	}

	for _, tc := range cases {
		cpu, _ := newTestCPU(0x69, tc.m) // ADC #imm
		cpu.A = tc.a
		cpu.C = tc.carry
		cpu.Step()
		if cpu.A != tc.want || cpu.C != tc.c || cpu.V != tc.v {
			t.Errorf("ADC %02X+%02X,C=%v: A=%02X C=%v V=%v, want A=%02X C=%v V=%v",
				tc.a, tc.m, tc.carry, cpu.A, cpu.C, cpu.V, tc.want, tc.c, tc.v)
		}
	}
}

func TestSBCFlagMatrix(t *testing.T) {
	cases := []struct {
		a, m  uint8
		carry bool
		want  uint8
		c, v  bool
	}{
		{0x05, 0x03, true, 0x02, true, false},
		{0x05, 0x06, true, 0xFF, false, false},
		{0x80, 0x01, true, 0x7F, true, true},
		{0x7F, 0xFF, true, 0x80, false, true},
		{0x05, 0x03, false, 0x01, true, false},
	}

	for _, tc := range cases {
		cpu, _ := newTestCPU(0xE9, tc.m) // SBC #imm
		cpu.A = tc.a
		cpu.C = tc.carry
		cpu.Step()
		if cpu.A != tc.want || cpu.C != tc.c || cpu.V != tc.v {
			t.Errorf("SBC %02X-%02X,C=%v: A=%02X C=%v V=%v, want A=%02X C=%v V=%v",
				tc.a, tc.m, tc.carry, cpu.A, cpu.C, cpu.V, tc.want, tc.c, tc.v)
		}
	}
}

func TestDecimalFlagHasNoEffect(t *testing.T) {
	// The 2A03 keeps the D flag but disconnects decimal mode
	cpu, _ := newTestCPU(0x69, 0x15) // ADC #$15
	cpu.A = 0x15
	cpu.D = true
	cpu.Step()
	if cpu.A != 0x2A {
		t.Errorf("A = %02X, want binary sum 2A", cpu.A)
	}
}

func TestCompareFlags(t *testing.T) {
	cases := []struct {
		a, m    uint8
		c, z, n bool
	}{
		{0x10, 0x10, true, true, false},
		{0x10, 0x0F, true, false, false},
		{0x10, 0x11, false, false, true},
		{0x80, 0x01, true, false, false},
	}

	for _, tc := range cases {
		cpu, _ := newTestCPU(0xC9, tc.m) // CMP #imm
		cpu.A = tc.a
		cpu.Step()
		if cpu.C != tc.c || cpu.Z != tc.z || cpu.N != tc.n {
			t.Errorf("CMP %02X,%02X: C=%v Z=%v N=%v, want C=%v Z=%v N=%v",
				tc.a, tc.m, cpu.C, cpu.Z, cpu.N, tc.c, tc.z, tc.n)
		}
	}
}

func TestBITFlags(t *testing.T) {
	cpu, bus := newTestCPU(0x24, 0x10) // BIT $10
	bus.data[0x10] = 0xC0
	cpu.A = 0x3F
	cpu.Step()
	if !cpu.Z {
		t.Error("Z clear; A&M is zero")
	}
	if !cpu.N || !cpu.V {
		t.Error("N/V not copied from memory bits 7/6")
	}
}

func TestShiftAndRotate(t *testing.T) {
	cases := []struct {
		name   string
		opcode uint8
		a      uint8
		carry  bool
		want   uint8
		c      bool
	}{
		{"ASL", 0x0A, 0x81, false, 0x02, true},
		{"LSR", 0x4A, 0x01, false, 0x00, true},
		{"ROL", 0x2A, 0x80, true, 0x01, true},
		{"ROR", 0x6A, 0x01, true, 0x80, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cpu, _ := newTestCPU(tc.opcode)
			cpu.A = tc.a
			cpu.C = tc.carry
			cpu.Step()
			if cpu.A != tc.want || cpu.C != tc.c {
				t.Errorf("A=%02X C=%v, want A=%02X C=%v", cpu.A, cpu.C, tc.want, tc.c)
			}
		})
	}
}

func TestStackOperations(t *testing.T) {
	cpu, bus := newTestCPU(0x48, 0x68) // PHA; PLA
	cpu.A = 0x37
	cpu.Step()
	if bus.data[0x01FD] != 0x37 {
		t.Errorf("PHA stored %02X at 01FD", bus.data[0x01FD])
	}
	cpu.A = 0x00
	cpu.Step()
	if cpu.A != 0x37 {
		t.Errorf("PLA restored %02X, want 37", cpu.A)
	}
	if cpu.SP != 0xFD {
		t.Errorf("SP = %02X, want FD", cpu.SP)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	cpu, bus := newTestCPU(0x20, 0x00, 0x90) // JSR $9000
	bus.data[0x9000] = 0x60                  // RTS
	cpu.Step()
	if cpu.PC != 0x9000 {
		t.Fatalf("PC = %04X after JSR", cpu.PC)
	}
	// JSR pushes the address of its own last byte
	ret := uint16(bus.data[0x01FD])<<8 | uint16(bus.data[0x01FC])
	if ret != 0x8002 {
		t.Errorf("pushed %04X, want 8002", ret)
	}
	cpu.Step()
	if cpu.PC != 0x8003 {
		t.Errorf("PC = %04X after RTS, want 8003", cpu.PC)
	}
}

func TestLAXLoadsBothRegisters(t *testing.T) {
	cpu, bus := newTestCPU(0xA7, 0x10) // LAX $10
	bus.data[0x10] = 0x8E
	cpu.Step()
	if cpu.A != 0x8E || cpu.X != 0x8E {
		t.Errorf("A=%02X X=%02X, want both 8E", cpu.A, cpu.X)
	}
	if !cpu.N {
		t.Error("N not set")
	}
}

func TestSAXStoresAAndX(t *testing.T) {
	cpu, bus := newTestCPU(0x87, 0x10) // SAX $10
	cpu.A = 0xF0
	cpu.X = 0x3C
	cpu.Step()
	if bus.data[0x10] != 0x30 {
		t.Errorf("stored %02X, want A&X = 30", bus.data[0x10])
	}
}

func TestDCPDecrementsAndCompares(t *testing.T) {
	cpu, bus := newTestCPU(0xC7, 0x10) // DCP $10
	bus.data[0x10] = 0x41
	cpu.A = 0x40
	cpu.Step()
	if bus.data[0x10] != 0x40 {
		t.Errorf("memory = %02X, want 40", bus.data[0x10])
	}
	if !cpu.Z || !cpu.C {
		t.Error("compare against decremented value failed")
	}
}

func TestISBIncrementsAndSubtracts(t *testing.T) {
	cpu, bus := newTestCPU(0xE7, 0x10) // ISB $10
	bus.data[0x10] = 0x01
	cpu.A = 0x05
	cpu.C = true
	cpu.Step()
	if bus.data[0x10] != 0x02 {
		t.Errorf("memory = %02X, want 02", bus.data[0x10])
	}
	if cpu.A != 0x03 {
		t.Errorf("A = %02X, want 03", cpu.A)
	}
}

func TestSLOShiftsAndORs(t *testing.T) {
	cpu, bus := newTestCPU(0x07, 0x10) // SLO $10
	bus.data[0x10] = 0x81
	cpu.A = 0x01
	cpu.Step()
	if bus.data[0x10] != 0x02 || cpu.A != 0x03 || !cpu.C {
		t.Errorf("mem=%02X A=%02X C=%v, want 02/03/true",
			bus.data[0x10], cpu.A, cpu.C)
	}
}

func TestRRARotatesAndAdds(t *testing.T) {
	cpu, bus := newTestCPU(0x67, 0x10) // RRA $10
	bus.data[0x10] = 0x02
	cpu.A = 0x10
	cpu.Step()
	// 0x02 ROR -> 0x01, carry 0; 0x10 + 0x01 = 0x11
	if bus.data[0x10] != 0x01 || cpu.A != 0x11 {
		t.Errorf("mem=%02X A=%02X, want 01/11", bus.data[0x10], cpu.A)
	}
}

func TestANCCopiesBit7ToCarry(t *testing.T) {
	cpu, _ := newTestCPU(0x0B, 0xFF) // ANC #$FF
	cpu.A = 0x80
	cpu.Step()
	if cpu.A != 0x80 || !cpu.C || !cpu.N {
		t.Errorf("A=%02X C=%v N=%v, want 80/true/true", cpu.A, cpu.C, cpu.N)
	}
}

func TestALRAndsThenShifts(t *testing.T) {
	cpu, _ := newTestCPU(0x4B, 0xFF) // ALR #$FF
	cpu.A = 0x03
	cpu.Step()
	if cpu.A != 0x01 || !cpu.C {
		t.Errorf("A=%02X C=%v, want 01/true", cpu.A, cpu.C)
	}
}

func TestARRSetsCarryAndOverflowFromResult(t *testing.T) {
	cpu, _ := newTestCPU(0x6B, 0xFF) // ARR #$FF
	cpu.A = 0x80
	cpu.C = true
	cpu.Step()
	// (80 & FF) ROR with carry in -> C0: C = bit6, V = bit6 ^ bit5
	if cpu.A != 0xC0 || !cpu.C || !cpu.V {
		t.Errorf("A=%02X C=%v V=%v, want C0/true/true", cpu.A, cpu.C, cpu.V)
	}
}

func TestXAAUsesMagicConstant(t *testing.T) {
	cpu, _ := newTestCPU(0x8B, 0xFF) // XAA #$FF
	cpu.A = 0x00
	cpu.X = 0x55
	cpu.Step()
	// (A | EE) & X & imm
	if cpu.A != 0x44 {
		t.Errorf("A = %02X, want 44", cpu.A)
	}
}

func TestAXSSubtractsWithoutBorrow(t *testing.T) {
	cpu, _ := newTestCPU(0xCB, 0x02) // AXS #$02
	cpu.A = 0x0F
	cpu.X = 0x07
	cpu.Step()
	// X = (A & X) - imm = 07 - 02
	if cpu.X != 0x05 || !cpu.C {
		t.Errorf("X=%02X C=%v, want 05/true", cpu.X, cpu.C)
	}
}

func TestSHYStoresYAndHighByte(t *testing.T) {
	cpu, bus := newTestCPU(0x9C, 0x00, 0x20) // SHY $2000,X
	cpu.Y = 0xFF
	cpu.X = 0x10
	cpu.Step()
	// Y & (high byte + 1)
	if bus.data[0x2010] != 0x21 {
		t.Errorf("stored %02X at 2010, want 21", bus.data[0x2010])
	}
}

func TestLASLoadsAXAndSP(t *testing.T) {
	cpu, bus := newTestCPU(0xBB, 0x00, 0x20) // LAS $2000,Y
	bus.data[0x2000] = 0x8F
	cpu.SP = 0xF3
	cpu.Step()
	want := uint8(0x8F & 0xF3)
	if cpu.A != want || cpu.X != want || cpu.SP != want {
		t.Errorf("A=%02X X=%02X SP=%02X, want all %02X", cpu.A, cpu.X, cpu.SP, want)
	}
}

func TestUndocumentedNOPReadsOperand(t *testing.T) {
	cpu, bus := newTestCPU(0x0C, 0x34, 0x12) // NOP $1234
	cpu.Step()
	sawRead := false
	for _, r := range bus.reads {
		if r == 0x1234 {
			sawRead = true
		}
	}
	if !sawRead {
		t.Error("absolute NOP skipped its bus read")
	}
}

func TestSBCAlias(t *testing.T) {
	cpu, _ := newTestCPU(0xEB, 0x01) // undocumented SBC #imm
	cpu.A = 0x03
	cpu.C = true
	cpu.Step()
	if cpu.A != 0x02 {
		t.Errorf("A = %02X, want 02", cpu.A)
	}
}
