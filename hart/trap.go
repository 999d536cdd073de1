/*
   hart: trap delivery and MRET.

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

// Exception entry and MRET, per spec.md §4.5. Delegation is a single bit
// test: if the current privilege is below Machine and medeleg bit e is
// set, delivery goes to Supervisor; otherwise Machine.

// deliverTrap performs spec.md §4.5's entry protocol for exception code
// code with trap value tval, observed while at the hart's current
// privilege level and pc. It always succeeds (trap entry cannot itself
// trap in this core).
func (h *Hart) deliverTrap(code ExcCode, tval uint64) {
	if h.Mode < Machine && h.Medeleg&(1<<uint(code)) != 0 {
		h.deliverToSupervisor(code, tval)
		return
	}
	h.deliverToMachine(code, tval)
}

func (h *Hart) deliverToSupervisor(code ExcCode, tval uint64) {
	h.Scause = uint64(code) // interrupt flag (bit 63) stays 0: synchronous only
	h.Stval = tval
	prev := h.Mode
	h.setSPP(prev)
	h.setSPIE(h.sie())
	h.setSIE(false)
	h.Sepc = h.PC
	h.PC = trapVecBase(h.Stvec)
	h.Mode = Supervisor
}

func (h *Hart) deliverToMachine(code ExcCode, tval uint64) {
	h.Mcause = uint64(code)
	h.Mtval = tval
	h.setMPP(h.Mode)
	h.setMPIE(h.mie())
	h.setMIE(false)
	h.Mepc = h.PC
	h.PC = trapVecBase(h.Mtvec)
	h.Mode = Machine
}

// mret implements spec.md §4.5's "Return" protocol for the MRET
// instruction. Called only when Mode == Machine; the caller (execute)
// raises IllegalInstruction otherwise, per spec.md.
func (h *Hart) mret() {
	mpp := h.mpp()
	if mpp != Machine {
		h.setMPRV(false)
	}
	h.setMIE(h.mpie())
	h.Mode = mpp
	h.setMPIE(true)
	h.setMPP(User)
	h.PC = h.Mepc
}
