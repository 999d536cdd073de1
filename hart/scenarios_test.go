/*
   hart: end-to-end fetch/decode/execute/trap scenarios.

   Copyright 2026, Lee Cannon

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.
*/

package hart

import "testing"

// The following mirror the literal end-to-end scenarios used to validate
// this core's fetch/decode/execute/trap loop against known-good encoded
// programs.

func TestScenarioSimpleAdd(t *testing.T) {
	h := newTestHart(0x00500093, 0x00A00113, 0x002081B3)
	for i := 0; i < 3; i++ {
		step(t, h)
	}
	if h.X[1] != 5 || h.X[2] != 10 || h.X[3] != 15 {
		t.Errorf("x1=%d x2=%d x3=%d, wanted x1=5 x2=10 x3=15", h.X[1], h.X[2], h.X[3])
	}
	if h.PC != 12 {
		t.Errorf("PC got: %d wanted: 12", h.PC)
	}
}

func TestScenarioBranchTaken(t *testing.T) {
	// addi x1,x0,5; beq x1,x1,+8; beq x1,x1,+8
	h := newTestHart(0x00500093, 0x00108463, 0x00108463)
	in, ok := Decode(0x00108463)
	if !ok || in.Op != OpBEQ {
		t.Fatalf("setup: expected the branch word to decode as BEQ, got %v ok=%v", in.Op, ok)
	}
	offset := int64(in.ImmB)

	step(t, h) // addi x1,x0,5 -> pc=4
	if h.PC != 4 {
		t.Fatalf("after addi, PC got: %d wanted: 4", h.PC)
	}
	step(t, h) // beq x1,x1,+offset, taken (x1==x1) -> pc = 4+offset
	want := uint64(4 + offset)
	if h.PC != want {
		t.Errorf("after first beq, PC got: %d wanted: %d (4 + decoded branch offset)", h.PC, want)
	}
}

func TestScenarioECALLFromMachineNoDelegation(t *testing.T) {
	h := newTestHart(0x00000073) // ecall
	h.Mtvec = 0x1000
	h.Medeleg = 0
	h.Mode = Machine
	step(t, h)

	if h.PC != 0x1000 {
		t.Errorf("PC got: %#x wanted: 0x1000", h.PC)
	}
	if h.Mcause != uint64(EnvironmentCallFromMMode) {
		t.Errorf("mcause got: %d wanted: %d", h.Mcause, EnvironmentCallFromMMode)
	}
	if h.Mepc != 0 {
		t.Errorf("mepc got: %#x wanted: 0", h.Mepc)
	}
	if h.Mode != Machine {
		t.Errorf("privilege got: %v wanted: Machine", h.Mode)
	}
	if h.mpp() != Machine {
		t.Errorf("mstatus.mpp got: %v wanted: Machine", h.mpp())
	}
}

func TestScenarioECALLFromUserWithDelegation(t *testing.T) {
	h := newTestHart(0x00000073) // ecall
	h.Medeleg = 1 << uint(EnvironmentCallFromUMode)
	h.Mode = User
	h.Stvec = 0x2000
	step(t, h)

	if h.PC != 0x2000 {
		t.Errorf("PC got: %#x wanted: 0x2000", h.PC)
	}
	if h.Scause != uint64(EnvironmentCallFromUMode) {
		t.Errorf("scause got: %d wanted: %d", h.Scause, EnvironmentCallFromUMode)
	}
	if h.Sepc != 0 {
		t.Errorf("sepc got: %#x wanted: 0", h.Sepc)
	}
	if h.Mode != Supervisor {
		t.Errorf("privilege got: %v wanted: Supervisor", h.Mode)
	}
	if h.spp() != User {
		t.Errorf("mstatus.spp got: %v wanted: User", h.spp())
	}
}

func TestScenarioCSRReadModifyRS1Zero(t *testing.T) {
	h := newTestHart(0x34102573) // csrrs x10, mepc, x0
	h.Mepc = 0xDEAD
	step(t, h)
	if h.X[10] != 0xDEAD {
		t.Errorf("x10 got: %#x wanted: 0xdead", h.X[10])
	}
	if h.Mepc != 0xDEAD {
		t.Errorf("mepc got: %#x wanted: unchanged 0xdead", h.Mepc)
	}
}

func TestScenarioDivideByZero(t *testing.T) {
	h := newTestHart(encodeR(opcodeOp, 0b101, 0b0000001, 5, 1, 0)) // divu x5, x1, x0
	h.X[1] = 42
	step(t, h)
	if h.X[5] != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("x5 got: %#x wanted: 0xffffffffffffffff", h.X[5])
	}
}
