/*
   hart: bit-field and sign-extension test cases.

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

func TestBitRange(t *testing.T) {
	w := uint32(0b1011_0100_0000_0000_0000_0000_0000_0001)
	if got := bitRange(w, 31, 28); got != 0b1011 {
		t.Errorf("bitRange(31,28) got: %04b wanted: 1011", got)
	}
	if got := bitRange(w, 0, 0); got != 1 {
		t.Errorf("bitRange(0,0) got: %d wanted: 1", got)
	}
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		v    uint64
		bits uint
		want uint64
	}{
		{0x7FF, 12, 0x7FF},                             // positive, unaffected
		{0xFFF, 12, 0xFFFFFFFFFFFFFFFF},                // -1 in 12 bits
		{0x800, 12, 0xFFFFFFFFFFFFF800},                // most negative 12-bit value
		{0xFF, 8, 0xFFFFFFFFFFFFFFFF},                  // -1 in 8 bits
		{0x7F, 8, 0x7F},                                // max positive 8-bit value
	}
	for _, c := range cases {
		if got := signExtend(c.v, c.bits); got != c.want {
			t.Errorf("signExtend(%#x, %d) got: %#x wanted: %#x", c.v, c.bits, got, c.want)
		}
	}
}

func TestSignExtendFixedWidths(t *testing.T) {
	if got := signExtend8(0x80); got != 0xFFFFFFFFFFFFFF80 {
		t.Errorf("signExtend8(0x80) got: %#x wanted: 0xFFFFFFFFFFFFFF80", got)
	}
	if got := signExtend16(0x8000); got != 0xFFFFFFFFFFFF8000 {
		t.Errorf("signExtend16(0x8000) got: %#x wanted: 0xFFFFFFFFFFFF8000", got)
	}
	if got := signExtend32(0x80000000); got != 0xFFFFFFFF80000000 {
		t.Errorf("signExtend32(0x80000000) got: %#x wanted: 0xFFFFFFFF80000000", got)
	}
	if got := signExtend32(0x7FFFFFFF); got != 0x7FFFFFFF {
		t.Errorf("signExtend32(0x7FFFFFFF) got: %#x wanted: 0x7FFFFFFF", got)
	}
}

func TestZeroExtend32(t *testing.T) {
	if got := zeroExtend32(0x80000000); got != 0x80000000 {
		t.Errorf("zeroExtend32(0x80000000) got: %#x wanted: 0x80000000", got)
	}
}
