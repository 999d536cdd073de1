/*
   hart: Hart construction, register file, and memory access.

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

// Package hart implements the fetch/decode/execute core of a single RV64IM
// + Zicsr RISC-V hart: the instruction interpreter, the CSR file with
// privilege-gated access, and the trap delivery mechanism (spec.md §1).
//
// The package owns no I/O, no ELF/loader logic, and no host-side logging;
// its only contract with the rest of a simulator is a contiguous mutable
// byte slice (supplied by the caller), an initial PC, and an optional
// Tracer. See cmd/rvsim for a minimal driver built on top of this package.
package hart

import "fmt"

// Options carries the four fatal/non-fatal toggles from spec.md §6 plus
// a tracing convenience flag. The zero value (all false) means every
// host-level failure is reflected into the guest as an architectural
// exception rather than aborting Run, and traces never print pc
// explicitly.
type Options struct {
	// UnrecognizedInstructionFatal: if false (default, zero value), an
	// unrecognized opcode is reflected into the guest as
	// IllegalInstruction. If true, it aborts Run with
	// ErrUnimplementedOpcode.
	UnrecognizedInstructionFatal bool

	// UnrecognizedCSRFatal mirrors UnrecognizedInstructionFatal for CSR
	// addresses outside the recognized set.
	UnrecognizedCSRFatal bool

	// EBreakFatal: if true, EBREAK aborts Run with ErrEBreak instead of
	// raising the Breakpoint exception (default, zero value: reflected).
	EBreakFatal bool

	// ExecutionOutOfBoundsFatal: if false (default, zero value), a
	// fetch, load, or store outside [0, len(memory)) is reflected as the
	// matching architectural access-fault exception. If true, it aborts
	// Run with ErrExecutionOutOfBounds.
	ExecutionOutOfBoundsFatal bool

	// AlwaysPrintPC includes pc in every trace line when a Tracer is
	// attached.
	AlwaysPrintPC bool
}

// Hart is the complete architectural state of one RV64IM + Zicsr hart
// (spec.md §3). The zero value is not useful; construct with NewHart.
//
// Hart borrows Memory from its caller: NewHart does not copy it, Step/Run
// mutate it in place, and the caller must not touch it concurrently with a
// Step/Run call in flight (spec.md §5).
type Hart struct {
	Memory []byte
	X      [32]uint64
	PC     uint64
	Mode   Privilege

	Mstatus uint64

	Mepc, Sepc     uint64
	Mcause, Scause uint64
	Mtval, Stval   uint64
	Mtvec, Stvec   uint64
	Mhartid        uint64
	Medeleg        uint64
	Mideleg        uint64
	Mie, Mip       uint64
	Satp           uint64

	opts Options
}

// NewHart constructs a Hart over memory (borrowed, not copied) with every
// register zero except the mstatus reset defaults spec.md §3 mandates.
func NewHart(memory []byte, opts Options) *Hart {
	return &Hart{
		Memory:  memory,
		Mode:    Machine,
		Mstatus: defaultMstatus(),
		opts:    opts,
	}
}

// reg reads general-purpose register i; x0 always reads 0.
func (h *Hart) reg(i uint32) uint64 {
	if i == 0 {
		return 0
	}
	return h.X[i]
}

// setReg writes general-purpose register i; writes to x0 are discarded
// (spec.md §3, "writes to it are silently discarded").
func (h *Hart) setReg(i uint32, v uint64) {
	if i == 0 {
		return
	}
	h.X[i] = v
}

// boundsFail reports an out-of-bounds access, either as a host error or an
// architectural exception, depending on Options.ExecutionOutOfBoundsFatal
// (reflected by default).
func (h *Hart) boundsFail(fatalCode ExcCode, addr uint64) error {
	if h.opts.ExecutionOutOfBoundsFatal {
		return hostError(ErrExecutionOutOfBounds, h.PC, fmt.Sprintf("address %#x", addr))
	}
	return exception(fatalCode, addr)
}

// readMem reads size bytes little-endian starting at addr. size is 1, 2,
// 4, or 8. The bounds check is addr+size > len(memory) (spec.md §9 fixes
// the source's off-by-one "addr+size >= len" check).
func (h *Hart) readMem(addr uint64, size uint64, faultCode ExcCode) (uint64, error) {
	if addr+size > uint64(len(h.Memory)) || addr+size < addr {
		return 0, h.boundsFail(faultCode, addr)
	}
	var v uint64
	for i := uint64(0); i < size; i++ {
		v |= uint64(h.Memory[addr+i]) << (8 * i)
	}
	return v, nil
}

// writeMem writes the low size bytes of value little-endian at addr.
func (h *Hart) writeMem(addr uint64, size uint64, value uint64, faultCode ExcCode) error {
	if addr+size > uint64(len(h.Memory)) || addr+size < addr {
		return h.boundsFail(faultCode, addr)
	}
	for i := uint64(0); i < size; i++ {
		h.Memory[addr+i] = byte(value >> (8 * i))
	}
	return nil
}

// fetch reads the 4-byte little-endian instruction word at pc. A pc that
// is not a multiple of 4 raises InstructionAddressMisaligned here, so a
// misaligned branch/jump target traps on the fetch that follows it. Per
// spec.md §4.1, out-of-bounds fetch is ExecutionOutOfBounds (fatal) or
// InstructionAccessFault (reflected).
func (h *Hart) fetch() (uint32, error) {
	if h.PC%4 != 0 {
		return 0, exception(InstructionAddressMisaligned, h.PC)
	}
	v, err := h.readMem(h.PC, 4, InstructionAccessFault)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
