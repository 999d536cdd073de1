/*
   hart: trap delivery and MRET test cases.

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

func TestDeliverTrapToMachineByDefault(t *testing.T) {
	h := newTestHart()
	h.PC = 0x1000
	h.Mtvec = 0x8000
	h.deliverTrap(IllegalInstruction, 0x1234)

	if h.Mode != Machine {
		t.Errorf("Mode got: %v wanted: Machine", h.Mode)
	}
	if h.Mcause != uint64(IllegalInstruction) {
		t.Errorf("Mcause got: %d wanted: %d", h.Mcause, IllegalInstruction)
	}
	if h.Mtval != 0x1234 {
		t.Errorf("Mtval got: %#x wanted: 0x1234", h.Mtval)
	}
	if h.Mepc != 0x1000 {
		t.Errorf("Mepc got: %#x wanted: 0x1000", h.Mepc)
	}
	if h.PC != 0x8000 {
		t.Errorf("PC got: %#x wanted: 0x8000", h.PC)
	}
}

func TestDeliverTrapDelegatedToSupervisor(t *testing.T) {
	h := newTestHart()
	h.Mode = Supervisor
	h.PC = 0x2000
	h.Stvec = 0x9000
	h.Medeleg = 1 << uint(Breakpoint)
	h.deliverTrap(Breakpoint, 0)

	if h.Mode != Supervisor {
		t.Errorf("Mode got: %v wanted: Supervisor (delegated)", h.Mode)
	}
	if h.Scause != uint64(Breakpoint) {
		t.Errorf("Scause got: %d wanted: %d", h.Scause, Breakpoint)
	}
	if h.Sepc != 0x2000 {
		t.Errorf("Sepc got: %#x wanted: 0x2000", h.Sepc)
	}
	if h.PC != 0x9000 {
		t.Errorf("PC got: %#x wanted: 0x9000", h.PC)
	}
}

func TestDeliverTrapNeverDelegatesWhenAtMachine(t *testing.T) {
	h := newTestHart() // starts at Machine
	h.Medeleg = 1 << uint(IllegalInstruction)
	h.PC = 0x3000
	h.deliverTrap(IllegalInstruction, 0)
	if h.Mode != Machine {
		t.Errorf("Mode got: %v wanted: Machine (medeleg ignored above S)", h.Mode)
	}
}

func TestMretRestoresModeAndPC(t *testing.T) {
	h := newTestHart()
	h.Mode = Machine
	h.setMPP(Supervisor)
	h.setMPIE(true)
	h.Mepc = 0x4000
	h.mret()

	if h.Mode != Supervisor {
		t.Errorf("Mode got: %v wanted: Supervisor", h.Mode)
	}
	if !h.mie() {
		t.Errorf("mie got: false wanted: true (restored from mpie)")
	}
	if h.mpp() != User {
		t.Errorf("mpp got: %v wanted: User (reset after mret)", h.mpp())
	}
	if !h.mpie() {
		t.Errorf("mpie got: false wanted: true (set after mret)")
	}
	if h.PC != 0x4000 {
		t.Errorf("PC got: %#x wanted: 0x4000", h.PC)
	}
}

func TestMretClearsMPRVWhenTargetNotMachine(t *testing.T) {
	h := newTestHart()
	h.setMPRV(true)
	h.setMPP(User)
	h.mret()
	if h.mprv() {
		t.Errorf("mprv got: true wanted: false (cleared, target privilege below Machine)")
	}
}
