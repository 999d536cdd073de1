/*
   hart: mstatus field test cases.

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

func TestDefaultMstatus(t *testing.T) {
	h := newTestHart()
	if h.mpp() != Machine {
		t.Errorf("default mpp got: %v wanted: Machine", h.mpp())
	}
	if h.spp() != Supervisor {
		t.Errorf("default spp got: %v wanted: Supervisor", h.spp())
	}
	if h.fs() != Initial || h.xs() != Initial {
		t.Errorf("default fs/xs got: %v/%v wanted: Initial/Initial", h.fs(), h.xs())
	}
}

func TestWriteMstatusRejectsInvalidMPP(t *testing.T) {
	h := newTestHart()
	// mpp field is bits [12:11]; value 0b10 (2) is not a valid Privilege.
	bad := uint64(0b10) << mstatusMPPLo
	if err := h.writeMstatus(bad); err == nil {
		t.Fatalf("writeMstatus(invalid mpp) succeeded, wanted ErrInvalidPrivilegeLevel")
	}
}

func TestWriteMstatusPreservesUnmodifiableFields(t *testing.T) {
	h := newTestHart()
	before := h.Mstatus & unmodifiableMstatusMask
	// Flip every bit, including the unmodifiable ones.
	if err := h.writeMstatus(^uint64(0) &^ (uint64(0b11) << mstatusMPPLo) | uint64(Machine)<<mstatusMPPLo); err != nil {
		t.Fatalf("writeMstatus failed: %v", err)
	}
	if after := h.Mstatus & unmodifiableMstatusMask; after != before {
		t.Errorf("unmodifiable bits got: %#x wanted unchanged: %#x", after, before)
	}
}

func TestWriteMstatusComputesSD(t *testing.T) {
	h := newTestHart()
	val := uint64(Machine)<<mstatusMPPLo | uint64(Dirty)<<mstatusFSLo | uint64(Initial)<<mstatusXSLo
	if err := h.writeMstatus(val); err != nil {
		t.Fatalf("writeMstatus failed: %v", err)
	}
	if h.Mstatus&mstatusSD == 0 {
		t.Errorf("sd bit got: 0 wanted: set (fs == Dirty)")
	}
}

func TestWriteMstatusAcceptsDirtyFS(t *testing.T) {
	h := newTestHart()
	val := uint64(Machine)<<mstatusMPPLo | uint64(0b11)<<mstatusFSLo // Dirty is actually valid...
	if err := h.writeMstatus(val); err != nil {
		t.Fatalf("writeMstatus(fs=Dirty) unexpectedly failed: %v", err)
	}
	// FieldState only has 4 values (2 bits), all valid; confirm the
	// boundary by checking fs() round-trips instead of forcing a bogus
	// field width that the Go type can't represent.
	if h.fs() != Dirty {
		t.Errorf("fs got: %v wanted: Dirty", h.fs())
	}
}
