/*
   hart: per-instruction execution semantics.

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

import "math/bits"

// Per-instruction semantics (spec.md §4.3). execute runs exactly one
// decoded instruction against the current hart state and reports whether
// it changed pc itself ("branched": taken branches, jumps, and MRET) so the
// caller knows whether to apply the default pc += 4. An architectural
// exception is returned as an error instead; Step then delivers the trap.
//
// All arithmetic here is plain Go uint64/int64 math, which already wraps
// modulo 2^64 on overflow (spec.md §4.3, "All arithmetic ... wraps modulo
// 2^64"); no overflow checks are needed beyond that built-in behavior.
func (h *Hart) execute(in Instruction) (branched bool, err error) {
	switch in.Op {
	case OpLUI:
		h.setReg(in.Rd, in.ImmU)
	case OpAUIPC:
		h.setReg(in.Rd, h.PC+in.ImmU)
	case OpJAL:
		h.setReg(in.Rd, h.PC+4)
		h.PC += in.ImmJ
		branched = true
	case OpJALR:
		target := h.PC + 4
		newPC := (h.reg(in.Rs1) + in.ImmI) &^ 1
		h.setReg(in.Rd, target)
		h.PC = newPC
		branched = true

	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		if h.branchTaken(in) {
			h.PC += in.ImmB
			branched = true
		}

	case OpLB:
		err = h.load(in, 1, true)
	case OpLH:
		err = h.load(in, 2, true)
	case OpLW:
		err = h.load(in, 4, true)
	case OpLBU:
		err = h.load(in, 1, false)
	case OpLHU:
		err = h.load(in, 2, false)
	case OpLWU:
		err = h.load(in, 4, false)
	case OpLD:
		err = h.load(in, 8, false)

	case OpSB:
		err = h.store(in, 1)
	case OpSH:
		err = h.store(in, 2)
	case OpSW:
		err = h.store(in, 4)
	case OpSD:
		err = h.store(in, 8)

	case OpADDI:
		h.setReg(in.Rd, h.reg(in.Rs1)+in.ImmI)
	case OpSLTI:
		h.setReg(in.Rd, boolU64(int64(h.reg(in.Rs1)) < int64(in.ImmI)))
	case OpSLTIU:
		h.setReg(in.Rd, boolU64(h.reg(in.Rs1) < in.ImmI))
	case OpXORI:
		h.setReg(in.Rd, h.reg(in.Rs1)^in.ImmI)
	case OpORI:
		h.setReg(in.Rd, h.reg(in.Rs1)|in.ImmI)
	case OpANDI:
		h.setReg(in.Rd, h.reg(in.Rs1)&in.ImmI)
	case OpSLLI:
		h.setReg(in.Rd, h.reg(in.Rs1)<<in.Shamt6)
	case OpSRLI:
		h.setReg(in.Rd, h.reg(in.Rs1)>>in.Shamt6)
	case OpSRAI:
		h.setReg(in.Rd, uint64(int64(h.reg(in.Rs1))>>in.Shamt6))

	case OpADD:
		h.setReg(in.Rd, h.reg(in.Rs1)+h.reg(in.Rs2))
	case OpSUB:
		h.setReg(in.Rd, h.reg(in.Rs1)-h.reg(in.Rs2))
	case OpSLL:
		h.setReg(in.Rd, h.reg(in.Rs1)<<(h.reg(in.Rs2)&0x3F))
	case OpSLT:
		h.setReg(in.Rd, boolU64(int64(h.reg(in.Rs1)) < int64(h.reg(in.Rs2))))
	case OpSLTU:
		h.setReg(in.Rd, boolU64(h.reg(in.Rs1) < h.reg(in.Rs2)))
	case OpXOR:
		h.setReg(in.Rd, h.reg(in.Rs1)^h.reg(in.Rs2))
	case OpSRL:
		h.setReg(in.Rd, h.reg(in.Rs1)>>(h.reg(in.Rs2)&0x3F))
	case OpSRA:
		h.setReg(in.Rd, uint64(int64(h.reg(in.Rs1))>>(h.reg(in.Rs2)&0x3F)))
	case OpOR:
		h.setReg(in.Rd, h.reg(in.Rs1)|h.reg(in.Rs2))
	case OpAND:
		h.setReg(in.Rd, h.reg(in.Rs1)&h.reg(in.Rs2))

	case OpADDIW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))+uint32(in.ImmI)))
	case OpSLLIW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))<<in.Shamt5))
	case OpSRLIW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))>>in.Shamt5))
	case OpSRAIW:
		h.setReg(in.Rd, signExtend32(uint32(int32(uint32(h.reg(in.Rs1)))>>in.Shamt5)))

	case OpADDW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))+uint32(h.reg(in.Rs2))))
	case OpSUBW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))-uint32(h.reg(in.Rs2))))
	case OpSLLW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))<<(uint32(h.reg(in.Rs2))&0x1F)))
	case OpSRLW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))>>(uint32(h.reg(in.Rs2))&0x1F)))
	case OpSRAW:
		shamt := uint32(h.reg(in.Rs2)) & 0x1F
		h.setReg(in.Rd, signExtend32(uint32(int32(uint32(h.reg(in.Rs1)))>>shamt)))

	case OpFENCE:
		// no-op: this core is sequentially consistent by construction.

	case OpECALL:
		err = exception(ecallCode(h.Mode), 0)
	case OpEBREAK:
		if h.opts.EBreakFatal {
			err = hostError(ErrEBreak, h.PC, "")
		} else {
			err = exception(Breakpoint, 0)
		}

	case OpMRET:
		if h.Mode != Machine {
			err = exception(IllegalInstruction, uint64(in.Raw))
		} else {
			h.mret()
			branched = true
		}

	case OpCSRRW:
		err = h.csrAccess(in.Csr, in.Raw, in.Rd, true, true,
			func(uint64) uint64 { return h.reg(in.Rs1) })
	case OpCSRRS:
		err = h.csrAccess(in.Csr, in.Raw, in.Rd, in.Rd != 0, in.Rs1 != 0,
			func(old uint64) uint64 { return old | h.reg(in.Rs1) })
	case OpCSRRC:
		err = h.csrAccess(in.Csr, in.Raw, in.Rd, in.Rd != 0, in.Rs1 != 0,
			func(old uint64) uint64 { return old &^ h.reg(in.Rs1) })
	case OpCSRRWI:
		err = h.csrAccess(in.Csr, in.Raw, in.Rd, in.Rd != 0, true,
			func(uint64) uint64 { return in.Zimm })

	case OpMUL:
		lo, _ := bits.Mul64(h.reg(in.Rs1), h.reg(in.Rs2))
		h.setReg(in.Rd, lo)
	case OpMULH:
		h.setReg(in.Rd, uint64(mulHiSigned(int64(h.reg(in.Rs1)), int64(h.reg(in.Rs2)))))
	case OpMULHU:
		hi, _ := bits.Mul64(h.reg(in.Rs1), h.reg(in.Rs2))
		h.setReg(in.Rd, hi)
	case OpMULHSU:
		h.setReg(in.Rd, uint64(mulHiSignedUnsigned(int64(h.reg(in.Rs1)), h.reg(in.Rs2))))
	case OpDIV:
		h.setReg(in.Rd, uint64(divSigned(int64(h.reg(in.Rs1)), int64(h.reg(in.Rs2)))))
	case OpDIVU:
		h.setReg(in.Rd, divUnsigned(h.reg(in.Rs1), h.reg(in.Rs2)))
	case OpREM:
		h.setReg(in.Rd, uint64(remSigned(int64(h.reg(in.Rs1)), int64(h.reg(in.Rs2)))))
	case OpREMU:
		h.setReg(in.Rd, remUnsigned(h.reg(in.Rs1), h.reg(in.Rs2)))

	case OpMULW:
		h.setReg(in.Rd, signExtend32(uint32(h.reg(in.Rs1))*uint32(h.reg(in.Rs2))))
	case OpDIVW:
		a, b := int32(uint32(h.reg(in.Rs1))), int32(uint32(h.reg(in.Rs2)))
		h.setReg(in.Rd, signExtend32(uint32(divSigned32(a, b))))
	case OpDIVUW:
		a, b := uint32(h.reg(in.Rs1)), uint32(h.reg(in.Rs2))
		h.setReg(in.Rd, signExtend32(divUnsigned32(a, b)))
	case OpREMW:
		a, b := int32(uint32(h.reg(in.Rs1))), int32(uint32(h.reg(in.Rs2)))
		h.setReg(in.Rd, signExtend32(uint32(remSigned32(a, b))))
	case OpREMUW:
		a, b := uint32(h.reg(in.Rs1)), uint32(h.reg(in.Rs2))
		h.setReg(in.Rd, signExtend32(remUnsigned32(a, b)))

	default:
		err = hostError(ErrUnimplementedOpcode, h.PC, "decoded instruction with no execute case")
	}
	return branched, err
}

func boolU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func ecallCode(mode Privilege) ExcCode {
	switch mode {
	case User:
		return EnvironmentCallFromUMode
	case Supervisor:
		return EnvironmentCallFromSMode
	default:
		return EnvironmentCallFromMMode
	}
}

func (h *Hart) branchTaken(in Instruction) bool {
	a, b := h.reg(in.Rs1), h.reg(in.Rs2)
	switch in.Op {
	case OpBEQ:
		return a == b
	case OpBNE:
		return a != b
	case OpBLT:
		return int64(a) < int64(b)
	case OpBGE:
		return int64(a) >= int64(b)
	case OpBLTU:
		return a < b
	case OpBGEU:
		return a >= b
	default:
		return false
	}
}

func (h *Hart) load(in Instruction, size uint64, signed bool) error {
	addr := h.reg(in.Rs1) + in.ImmI
	v, err := h.readMem(addr, size, LoadAccessFault)
	if err != nil {
		return err
	}
	var result uint64
	if signed {
		switch size {
		case 1:
			result = signExtend8(uint8(v))
		case 2:
			result = signExtend16(uint16(v))
		case 4:
			result = signExtend32(uint32(v))
		}
	} else {
		result = v
	}
	h.setReg(in.Rd, result)
	return nil
}

func (h *Hart) store(in Instruction, size uint64) error {
	addr := h.reg(in.Rs1) + in.ImmS
	return h.writeMem(addr, size, h.reg(in.Rs2), StoreAMOAccessFault)
}

// csrAccess implements spec.md §4.4's Zicsr permission model and the
// read-old/write-new pair. doRead/doWrite gate only the *side effects* of
// the instruction (whether x[rd] receives the old value, whether the CSR
// is actually overwritten); the permission check itself always applies to
// a read (every Zicsr op conceptually reads the old value) and, when
// doWrite is set, also to a write.
func (h *Hart) csrAccess(addr uint32, raw uint32, rd uint32, doRead, doWrite bool, newValue func(old uint64) uint64) error {
	if !recognizedCSR(addr) {
		if h.opts.UnrecognizedCSRFatal {
			return hostError(ErrInvalidCSR, h.PC, "")
		}
		return exception(IllegalInstruction, uint64(raw))
	}
	if !canRead(addr, h.Mode) {
		return exception(IllegalInstruction, uint64(raw))
	}
	if doWrite && !canWrite(addr, h.Mode) {
		return exception(IllegalInstruction, uint64(raw))
	}
	old := h.readCSR(addr)
	if doRead {
		h.setReg(rd, old)
	}
	if doWrite {
		if err := h.writeCSR(addr, newValue(old)); err != nil {
			return err
		}
	}
	return nil
}

// mulHiSigned returns the high 64 bits of the signed 128-bit product a*b,
// via the standard unsigned-multiply-plus-sign-correction identity.
func mulHiSigned(a, b int64) int64 {
	hi, _ := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64(hi)
}

// mulHiSignedUnsigned returns the high 64 bits of signed(a) * unsigned(b).
func mulHiSignedUnsigned(a int64, b uint64) int64 {
	hi, _ := bits.Mul64(uint64(a), b)
	if a < 0 {
		hi -= b
	}
	return int64(hi)
}

// divSigned implements spec.md §4.3's division-by-zero and signed-overflow
// rules for 64-bit signed division.
func divSigned(a, b int64) int64 {
	if b == 0 {
		return -1
	}
	if a == minInt64 && b == -1 {
		return a
	}
	return a / b
}

func remSigned(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if a == minInt64 && b == -1 {
		return 0
	}
	return a % b
}

func divUnsigned(a, b uint64) uint64 {
	if b == 0 {
		return ^uint64(0)
	}
	return a / b
}

func remUnsigned(a, b uint64) uint64 {
	if b == 0 {
		return a
	}
	return a % b
}

const minInt64 = int64(-1) << 63
const minInt32 = int32(-1) << 31

func divSigned32(a, b int32) int32 {
	if b == 0 {
		return -1
	}
	if a == minInt32 && b == -1 {
		return a
	}
	return a / b
}

func remSigned32(a, b int32) int32 {
	if b == 0 {
		return a
	}
	if a == minInt32 && b == -1 {
		return 0
	}
	return a % b
}

func divUnsigned32(a, b uint32) uint32 {
	if b == 0 {
		return ^uint32(0)
	}
	return a / b
}

func remUnsigned32(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return a % b
}
