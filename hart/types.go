/*
   hart: architectural enums and the Instruction type.

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

import "fmt"

// Privilege is one of the three privilege levels this core implements.
// Numeric values follow the RISC-V privileged architecture encoding so a
// CSR address's minimum-privilege field (bits [9:8]) can be compared
// directly against a Privilege value.
type Privilege uint8

const (
	User       Privilege = 0
	Supervisor Privilege = 1
	Machine    Privilege = 3
)

func (p Privilege) String() string {
	switch p {
	case User:
		return "U"
	case Supervisor:
		return "S"
	case Machine:
		return "M"
	default:
		return fmt.Sprintf("Privilege(%d)", uint8(p))
	}
}

// valid reports whether p is one of the three recognized levels.
func (p Privilege) valid() bool {
	return p == User || p == Supervisor || p == Machine
}

// TrapMode is the mode field of mtvec/stvec. Only Direct is actually
// implemented; Vectored is accepted and stored but trap delivery always
// computes the Direct-mode target (spec.md §9, "Vectored-mode traps").
type TrapMode uint8

const (
	Direct   TrapMode = 0
	Vectored TrapMode = 1
)

func (m TrapMode) valid() bool {
	return m == Direct || m == Vectored
}

// AddrMode is the translation mode field of satp. Bare is the only mode
// this core supports; any other value fails the satp write.
type AddrMode uint8

const (
	Bare AddrMode = 0
)

// FieldState is the two-bit encoding shared by mstatus.fs and mstatus.xs.
type FieldState uint8

const (
	Off     FieldState = 0
	Initial FieldState = 1
	Clean   FieldState = 2
	Dirty   FieldState = 3
)

func (f FieldState) valid() bool {
	return f <= Dirty
}

// ExcCode is a synchronous exception cause, numbered per the RISC-V
// privileged architecture (spec.md §4.5). The interrupt flag is a
// separate bit (always 0 here, since this core never delivers
// interrupts) and is not part of this type.
type ExcCode uint64

const (
	InstructionAddressMisaligned ExcCode = 0
	InstructionAccessFault       ExcCode = 1
	IllegalInstruction           ExcCode = 2
	Breakpoint                   ExcCode = 3
	LoadAddressMisaligned        ExcCode = 4
	LoadAccessFault              ExcCode = 5
	StoreAMOAddressMisaligned    ExcCode = 6
	StoreAMOAccessFault          ExcCode = 7
	EnvironmentCallFromUMode     ExcCode = 8
	EnvironmentCallFromSMode     ExcCode = 9
	EnvironmentCallFromMMode     ExcCode = 11
	InstructionPageFault         ExcCode = 12
	LoadPageFault                ExcCode = 13
	StoreAMOPageFault            ExcCode = 15
)

func (e ExcCode) String() string {
	switch e {
	case InstructionAddressMisaligned:
		return "instruction-address-misaligned"
	case InstructionAccessFault:
		return "instruction-access-fault"
	case IllegalInstruction:
		return "illegal-instruction"
	case Breakpoint:
		return "breakpoint"
	case LoadAddressMisaligned:
		return "load-address-misaligned"
	case LoadAccessFault:
		return "load-access-fault"
	case StoreAMOAddressMisaligned:
		return "store/amo-address-misaligned"
	case StoreAMOAccessFault:
		return "store/amo-access-fault"
	case EnvironmentCallFromUMode:
		return "ecall-from-u-mode"
	case EnvironmentCallFromSMode:
		return "ecall-from-s-mode"
	case EnvironmentCallFromMMode:
		return "ecall-from-m-mode"
	case InstructionPageFault:
		return "instruction-page-fault"
	case LoadPageFault:
		return "load-page-fault"
	case StoreAMOPageFault:
		return "store/amo-page-fault"
	default:
		return fmt.Sprintf("exception(%d)", uint64(e))
	}
}

// excSignal is returned internally by instruction handlers to indicate an
// architectural exception should be raised instead of falling through to
// "advance pc and continue". It carries the trap value (tval) along with
// the cause so Step can hand both to trap delivery.
type excSignal struct {
	code ExcCode
	tval uint64
}

func (e *excSignal) Error() string {
	return fmt.Sprintf("%s (tval=%#x)", e.code, e.tval)
}

func exception(code ExcCode, tval uint64) error {
	return &excSignal{code: code, tval: tval}
}

// asExcSignal unwraps err into an excSignal, if it is one.
func asExcSignal(err error) (*excSignal, bool) {
	e, ok := err.(*excSignal)
	return e, ok
}
