/*
   hart: instruction decode for RV64IM + Zicsr.

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

// Decoder for the 32-bit RISC-V instruction word. Instructions are
// partitioned first by the 7-bit opcode field, then (where the opcode is
// ambiguous on its own) by funct3, then by funct7 or the 6-bit shift-type
// field used by 64-bit immediate shifts, per spec.md §4.2.
//
// Field layouts (opcode bits [6:0], funct3 bits [14:12], funct7 bits
// [31:25], registers at [11:7]/[19:15]/[24:20]) are the standard RISC-V
// encoding; see _examples/other_examples/...LMMilewski-riscv-emu__decode.go.go
// for the reference bit positions this decoder was checked against.

// Op tags the decoded operation class. The zero value OpInvalid never
// appears in a successfully decoded Instruction.
type Op uint8

const (
	OpInvalid Op = iota

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpECALL
	OpEBREAK

	OpLWU
	OpLD
	OpSD
	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI

	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW

	OpMRET
)

// Instruction is the decoded form of one 32-bit word: an operation tag plus
// every operand field that operation might use. Decode extracts every
// field from the raw word whatever the Op; fields an Op does not use are
// simply ignored by execute.
type Instruction struct {
	Op     Op
	Raw    uint32
	Rd     uint32
	Rs1    uint32
	Rs2    uint32
	Csr    uint32
	ImmI   uint64 // sign-extended I-immediate
	ImmS   uint64 // sign-extended S-immediate
	ImmB   uint64 // sign-extended B-immediate
	ImmU   uint64 // sign-extended U-immediate (already shifted left 12)
	ImmJ   uint64 // sign-extended J-immediate
	Shamt6 uint32 // low 6 bits of [25:20], for 64-bit shifts
	Shamt5 uint32 // low 5 bits of [24:20], for 32-bit "W" shifts
	Zimm   uint64 // zero-extended 5-bit immediate (rs1 field) for CSRRWI
}

const (
	opcodeLoad    = 0b0000011
	opcodeMiscMem = 0b0001111
	opcodeOpImm   = 0b0010011
	opcodeAUIPC   = 0b0010111
	opcodeOpImm32 = 0b0011011
	opcodeStore   = 0b0100011
	opcodeOp      = 0b0110011
	opcodeLUI     = 0b0110111
	opcodeOp32    = 0b0111011
	opcodeBranch  = 0b1100011
	opcodeJALR    = 0b1100111
	opcodeJAL     = 0b1101111
	opcodeSystem  = 0b1110011
)

// decodeRd/Rs1/Rs2 extract the fixed 5-bit register-index fields.
func decodeRd(w uint32) uint32  { return bitRange(w, 11, 7) }
func decodeRs1(w uint32) uint32 { return bitRange(w, 19, 15) }
func decodeRs2(w uint32) uint32 { return bitRange(w, 24, 20) }
func decodeFunct3(w uint32) uint32 { return bitRange(w, 14, 12) }
func decodeFunct7(w uint32) uint32 { return bitRange(w, 31, 25) }
func decodeFunct6(w uint32) uint32 { return bitRange(w, 31, 26) }
func decodeOpcode(w uint32) uint32 { return bitRange(w, 6, 0) }
func decodeCsr(w uint32) uint32    { return bitRange(w, 31, 20) }

func decodeImmI(w uint32) uint64 {
	return signExtend(uint64(bitRange(w, 31, 20)), 12)
}

func decodeImmS(w uint32) uint64 {
	v := bitRange(w, 31, 25)<<5 | bitRange(w, 11, 7)
	return signExtend(uint64(v), 12)
}

func decodeImmB(w uint32) uint64 {
	v := bitRange(w, 31, 31)<<12 | bitRange(w, 7, 7)<<11 |
		bitRange(w, 30, 25)<<5 | bitRange(w, 11, 8)<<1
	return signExtend(uint64(v), 13)
}

func decodeImmU(w uint32) uint64 {
	v := bitRange(w, 31, 12) << 12
	return signExtend(uint64(v), 32)
}

func decodeImmJ(w uint32) uint64 {
	v := bitRange(w, 31, 31)<<20 | bitRange(w, 19, 12)<<12 |
		bitRange(w, 20, 20)<<11 | bitRange(w, 30, 21)<<1
	return signExtend(uint64(v), 21)
}

// mnemonic returns the textual opcode name used by String, matching the
// names used throughout spec.md §4.3's instruction tables.
func (op Op) mnemonic() string {
	switch op {
	case OpLUI:
		return "lui"
	case OpAUIPC:
		return "auipc"
	case OpJAL:
		return "jal"
	case OpJALR:
		return "jalr"
	case OpBEQ:
		return "beq"
	case OpBNE:
		return "bne"
	case OpBLT:
		return "blt"
	case OpBGE:
		return "bge"
	case OpBLTU:
		return "bltu"
	case OpBGEU:
		return "bgeu"
	case OpLB:
		return "lb"
	case OpLH:
		return "lh"
	case OpLW:
		return "lw"
	case OpLBU:
		return "lbu"
	case OpLHU:
		return "lhu"
	case OpLWU:
		return "lwu"
	case OpLD:
		return "ld"
	case OpSB:
		return "sb"
	case OpSH:
		return "sh"
	case OpSW:
		return "sw"
	case OpSD:
		return "sd"
	case OpADDI:
		return "addi"
	case OpSLTI:
		return "slti"
	case OpSLTIU:
		return "sltiu"
	case OpXORI:
		return "xori"
	case OpORI:
		return "ori"
	case OpANDI:
		return "andi"
	case OpSLLI:
		return "slli"
	case OpSRLI:
		return "srli"
	case OpSRAI:
		return "srai"
	case OpADD:
		return "add"
	case OpSUB:
		return "sub"
	case OpSLL:
		return "sll"
	case OpSLT:
		return "slt"
	case OpSLTU:
		return "sltu"
	case OpXOR:
		return "xor"
	case OpSRL:
		return "srl"
	case OpSRA:
		return "sra"
	case OpOR:
		return "or"
	case OpAND:
		return "and"
	case OpFENCE:
		return "fence"
	case OpECALL:
		return "ecall"
	case OpEBREAK:
		return "ebreak"
	case OpADDIW:
		return "addiw"
	case OpSLLIW:
		return "slliw"
	case OpSRLIW:
		return "srliw"
	case OpSRAIW:
		return "sraiw"
	case OpADDW:
		return "addw"
	case OpSUBW:
		return "subw"
	case OpSLLW:
		return "sllw"
	case OpSRLW:
		return "srlw"
	case OpSRAW:
		return "sraw"
	case OpCSRRW:
		return "csrrw"
	case OpCSRRS:
		return "csrrs"
	case OpCSRRC:
		return "csrrc"
	case OpCSRRWI:
		return "csrrwi"
	case OpMUL:
		return "mul"
	case OpMULH:
		return "mulh"
	case OpMULHSU:
		return "mulhsu"
	case OpMULHU:
		return "mulhu"
	case OpDIV:
		return "div"
	case OpDIVU:
		return "divu"
	case OpREM:
		return "rem"
	case OpREMU:
		return "remu"
	case OpMULW:
		return "mulw"
	case OpDIVW:
		return "divw"
	case OpDIVUW:
		return "divuw"
	case OpREMW:
		return "remw"
	case OpREMUW:
		return "remuw"
	case OpMRET:
		return "mret"
	default:
		return "?"
	}
}

// String renders in the way a disassembly listing would, operand shape
// following the instruction's format (spec.md §4.2): register-register,
// register-immediate, CSR, or bare.
func (in Instruction) String() string {
	switch in.Op {
	case OpLUI, OpAUIPC:
		return fmt.Sprintf("%-6s x%d, %#x", in.Op.mnemonic(), in.Rd, in.ImmU)
	case OpJAL:
		return fmt.Sprintf("%-6s x%d, %#x", in.Op.mnemonic(), in.Rd, in.ImmJ)
	case OpJALR:
		return fmt.Sprintf("%-6s x%d, %d(x%d)", in.Op.mnemonic(), in.Rd, int64(in.ImmI), in.Rs1)
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return fmt.Sprintf("%-6s x%d, x%d, %#x", in.Op.mnemonic(), in.Rs1, in.Rs2, in.ImmB)
	case OpLB, OpLH, OpLW, OpLBU, OpLHU, OpLWU, OpLD:
		return fmt.Sprintf("%-6s x%d, %d(x%d)", in.Op.mnemonic(), in.Rd, int64(in.ImmI), in.Rs1)
	case OpSB, OpSH, OpSW, OpSD:
		return fmt.Sprintf("%-6s x%d, %d(x%d)", in.Op.mnemonic(), in.Rs2, int64(in.ImmS), in.Rs1)
	case OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI, OpADDIW:
		return fmt.Sprintf("%-6s x%d, x%d, %d", in.Op.mnemonic(), in.Rd, in.Rs1, int64(in.ImmI))
	case OpSLLI, OpSRLI, OpSRAI:
		return fmt.Sprintf("%-6s x%d, x%d, %d", in.Op.mnemonic(), in.Rd, in.Rs1, in.Shamt6)
	case OpSLLIW, OpSRLIW, OpSRAIW:
		return fmt.Sprintf("%-6s x%d, x%d, %d", in.Op.mnemonic(), in.Rd, in.Rs1, in.Shamt5)
	case OpFENCE, OpECALL, OpEBREAK, OpMRET:
		return in.Op.mnemonic()
	case OpCSRRW, OpCSRRS, OpCSRRC:
		return fmt.Sprintf("%-6s x%d, %#x, x%d", in.Op.mnemonic(), in.Rd, in.Csr, in.Rs1)
	case OpCSRRWI:
		return fmt.Sprintf("%-6s x%d, %#x, %d", in.Op.mnemonic(), in.Rd, in.Csr, in.Zimm)
	default:
		return fmt.Sprintf("%-6s x%d, x%d, x%d", in.Op.mnemonic(), in.Rd, in.Rs1, in.Rs2)
	}
}

// Decode decodes a 32-bit instruction word. It returns ok=false when the
// word doesn't match any recognized encoding; the caller (execute) decides
// whether that is a fatal UnimplementedOpcode or a reflected
// IllegalInstruction, per the UnrecognizedInstructionFatal option.
func Decode(w uint32) (Instruction, bool) {
	in := Instruction{
		Raw:    w,
		Rd:     decodeRd(w),
		Rs1:    decodeRs1(w),
		Rs2:    decodeRs2(w),
		Csr:    decodeCsr(w),
		ImmI:   decodeImmI(w),
		ImmS:   decodeImmS(w),
		ImmB:   decodeImmB(w),
		ImmU:   decodeImmU(w),
		ImmJ:   decodeImmJ(w),
		Shamt6: bitRange(w, 25, 20),
		Shamt5: bitRange(w, 24, 20),
		Zimm:   uint64(decodeRs1(w)),
	}
	funct3 := decodeFunct3(w)
	funct7 := decodeFunct7(w)

	switch decodeOpcode(w) {
	case opcodeLUI:
		in.Op = OpLUI
	case opcodeAUIPC:
		in.Op = OpAUIPC
	case opcodeJAL:
		in.Op = OpJAL
	case opcodeJALR:
		if funct3 != 0 {
			return in, false
		}
		in.Op = OpJALR
	case opcodeBranch:
		switch funct3 {
		case 0b000:
			in.Op = OpBEQ
		case 0b001:
			in.Op = OpBNE
		case 0b100:
			in.Op = OpBLT
		case 0b101:
			in.Op = OpBGE
		case 0b110:
			in.Op = OpBLTU
		case 0b111:
			in.Op = OpBGEU
		default:
			return in, false
		}
	case opcodeLoad:
		switch funct3 {
		case 0b000:
			in.Op = OpLB
		case 0b001:
			in.Op = OpLH
		case 0b010:
			in.Op = OpLW
		case 0b100:
			in.Op = OpLBU
		case 0b101:
			in.Op = OpLHU
		case 0b110:
			in.Op = OpLWU
		case 0b011:
			in.Op = OpLD
		default:
			return in, false
		}
	case opcodeStore:
		switch funct3 {
		case 0b000:
			in.Op = OpSB
		case 0b001:
			in.Op = OpSH
		case 0b010:
			in.Op = OpSW
		case 0b011:
			in.Op = OpSD
		default:
			return in, false
		}
	case opcodeOpImm:
		switch funct3 {
		case 0b000:
			in.Op = OpADDI
		case 0b010:
			in.Op = OpSLTI
		case 0b011:
			in.Op = OpSLTIU
		case 0b100:
			in.Op = OpXORI
		case 0b110:
			in.Op = OpORI
		case 0b111:
			in.Op = OpANDI
		case 0b001:
			// Shamt6 (bits[25:20]) is the full 6-bit shift amount for a
			// 64-bit shift, so bit 25 can be set by the shift amount
			// itself (shamt>=32) and is not part of the type
			// discriminator here — only bits[31:26] (funct6) are.
			if decodeFunct6(w) != 0b000000 {
				return in, false
			}
			in.Op = OpSLLI
		case 0b101:
			switch decodeFunct6(w) {
			case 0b000000:
				in.Op = OpSRLI
			case 0b010000:
				in.Op = OpSRAI
			default:
				return in, false
			}
		default:
			return in, false
		}
	case opcodeOpImm32:
		switch funct3 {
		case 0b000:
			in.Op = OpADDIW
		case 0b001:
			if funct7 != 0b0000000 {
				return in, false
			}
			in.Op = OpSLLIW
		case 0b101:
			switch funct7 {
			case 0b0000000:
				in.Op = OpSRLIW
			case 0b0100000:
				in.Op = OpSRAIW
			default:
				return in, false
			}
		default:
			return in, false
		}
	case opcodeOp:
		switch funct7 {
		case 0b0000000:
			switch funct3 {
			case 0b000:
				in.Op = OpADD
			case 0b001:
				in.Op = OpSLL
			case 0b010:
				in.Op = OpSLT
			case 0b011:
				in.Op = OpSLTU
			case 0b100:
				in.Op = OpXOR
			case 0b101:
				in.Op = OpSRL
			case 0b110:
				in.Op = OpOR
			case 0b111:
				in.Op = OpAND
			default:
				return in, false
			}
		case 0b0100000:
			switch funct3 {
			case 0b000:
				in.Op = OpSUB
			case 0b101:
				in.Op = OpSRA
			default:
				return in, false
			}
		case 0b0000001:
			switch funct3 {
			case 0b000:
				in.Op = OpMUL
			case 0b001:
				in.Op = OpMULH
			case 0b010:
				in.Op = OpMULHSU
			case 0b011:
				in.Op = OpMULHU
			case 0b100:
				in.Op = OpDIV
			case 0b101:
				in.Op = OpDIVU
			case 0b110:
				in.Op = OpREM
			case 0b111:
				in.Op = OpREMU
			default:
				return in, false
			}
		default:
			return in, false
		}
	case opcodeOp32:
		switch funct7 {
		case 0b0000000:
			switch funct3 {
			case 0b000:
				in.Op = OpADDW
			case 0b001:
				in.Op = OpSLLW
			case 0b101:
				in.Op = OpSRLW
			default:
				return in, false
			}
		case 0b0100000:
			switch funct3 {
			case 0b000:
				in.Op = OpSUBW
			case 0b101:
				in.Op = OpSRAW
			default:
				return in, false
			}
		case 0b0000001:
			switch funct3 {
			case 0b000:
				in.Op = OpMULW
			case 0b100:
				in.Op = OpDIVW
			case 0b101:
				in.Op = OpDIVUW
			case 0b110:
				in.Op = OpREMW
			case 0b111:
				in.Op = OpREMUW
			default:
				return in, false
			}
		default:
			return in, false
		}
	case opcodeMiscMem:
		if funct3 != 0 {
			return in, false
		}
		in.Op = OpFENCE
	case opcodeSystem:
		switch funct3 {
		case 0b000:
			switch {
			case w == 0x00000073:
				in.Op = OpECALL
			case w == 0x00100073:
				in.Op = OpEBREAK
			case w == 0x30200073:
				in.Op = OpMRET
			default:
				return in, false
			}
		case 0b001:
			in.Op = OpCSRRW
		case 0b010:
			in.Op = OpCSRRS
		case 0b011:
			in.Op = OpCSRRC
		case 0b101:
			in.Op = OpCSRRWI
		default:
			return in, false
		}
	default:
		return in, false
	}
	return in, true
}
