/*
   hart: bit-field extraction and sign-extension helpers.

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

// Bit-field helpers for decoding a 32-bit RISC-V instruction word and for
// sign-extending values of various widths up to the hart's 64-bit XLEN.
//
// These are pure functions with no dependency on Hart state; they exist so
// the decoder and the CSR/mstatus logic can share one notion of "extract
// bits [hi:lo]" and "sign-extend from bit b" instead of repeating shift-mask
// pairs inline everywhere.

// bitRange extracts bits [hi:lo] (inclusive, lo <= hi <= 31) from a 32-bit
// word and returns them right-justified.
func bitRange(word uint32, hi, lo uint32) uint32 {
	width := hi - lo + 1
	mask := uint32(1)<<width - 1
	return (word >> lo) & mask
}

// bitRange64 is bitRange for a 64-bit word.
func bitRange64(word uint64, hi, lo uint32) uint64 {
	width := hi - lo + 1
	mask := uint64(1)<<width - 1
	return (word >> lo) & mask
}

// signExtend sign-extends the low `bits` bits of v (bits in [1,64]) to a
// full 64-bit two's-complement value.
func signExtend(v uint64, bits uint) uint64 {
	if bits >= 64 {
		return v
	}
	shift := 64 - bits
	return uint64(int64(v<<shift) >> shift)
}

// signExtend8/16/32 are the fixed-width conveniences used by loads.
func signExtend8(v uint8) uint64  { return signExtend(uint64(v), 8) }
func signExtend16(v uint16) uint64 { return signExtend(uint64(v), 16) }
func signExtend32(v uint32) uint64 { return signExtend(uint64(v), 32) }

// zeroExtend32 widens a 32-bit value to 64 bits without sign extension,
// named for symmetry with signExtend32 at call sites.
func zeroExtend32(v uint32) uint64 { return uint64(v) }
