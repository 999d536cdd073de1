/*
   hart: mstatus field layout and accessors.

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

// Decomposed view over the packed mstatus register (spec.md §3, "Decomposed
// mstatus fields"). The packed uint64 is canonical (spec.md §9's design
// note); these are computed accessors, not cached state, so there is
// nothing to desynchronize.

const (
	mstatusSIE  = 1 << 1
	mstatusMIE  = 1 << 3
	mstatusSPIE = 1 << 5
	mstatusUBE  = 1 << 6
	mstatusMPIE = 1 << 7
	mstatusSPP  = 1 << 8
	mstatusMPPLo = 11
	mstatusFSLo  = 13
	mstatusXSLo  = 15
	mstatusMPRV = 1 << 17
	mstatusSUM  = 1 << 18
	mstatusMXR  = 1 << 19
	mstatusTVM  = 1 << 20
	mstatusTW   = 1 << 21
	mstatusTSR  = 1 << 22
	mstatusUXLLo = 32
	mstatusSXLLo = 34
	mstatusSBE  = 1 << 36
	mstatusMBE  = 1 << 37
	mstatusSD   = 1 << 63

	mstatusMPPMask = uint64(0b11) << mstatusMPPLo
	mstatusFSMask  = uint64(0b11) << mstatusFSLo
	mstatusXSMask  = uint64(0b11) << mstatusXSLo
	mstatusUXLMask = uint64(0b11) << mstatusUXLLo
	mstatusSXLMask = uint64(0b11) << mstatusSXLLo
)

// unmodifiableMstatusMask covers the fields spec.md §3 declares frozen
// after reset: ube, uxl, sxl, sbe, mbe. Writes preserve these bits
// regardless of the value supplied.
const unmodifiableMstatusMask = mstatusUBE | mstatusUXLMask | mstatusSXLMask | mstatusSBE | mstatusMBE

func (h *Hart) sie() bool  { return h.Mstatus&mstatusSIE != 0 }
func (h *Hart) mie() bool  { return h.Mstatus&mstatusMIE != 0 }
func (h *Hart) spie() bool { return h.Mstatus&mstatusSPIE != 0 }
func (h *Hart) mpie() bool { return h.Mstatus&mstatusMPIE != 0 }
func (h *Hart) mprv() bool { return h.Mstatus&mstatusMPRV != 0 }

func (h *Hart) spp() Privilege {
	if h.Mstatus&mstatusSPP != 0 {
		return Supervisor
	}
	return User
}

func (h *Hart) mpp() Privilege {
	return Privilege(bitRange64(h.Mstatus, mstatusMPPLo+1, mstatusMPPLo))
}

func (h *Hart) fs() FieldState {
	return FieldState(bitRange64(h.Mstatus, mstatusFSLo+1, mstatusFSLo))
}

func (h *Hart) xs() FieldState {
	return FieldState(bitRange64(h.Mstatus, mstatusXSLo+1, mstatusXSLo))
}

func (h *Hart) setSIE(v bool)  { h.Mstatus = setBit64(h.Mstatus, mstatusSIE, v) }
func (h *Hart) setMIE(v bool)  { h.Mstatus = setBit64(h.Mstatus, mstatusMIE, v) }
func (h *Hart) setSPIE(v bool) { h.Mstatus = setBit64(h.Mstatus, mstatusSPIE, v) }
func (h *Hart) setMPIE(v bool) { h.Mstatus = setBit64(h.Mstatus, mstatusMPIE, v) }
func (h *Hart) setMPRV(v bool) { h.Mstatus = setBit64(h.Mstatus, mstatusMPRV, v) }

func (h *Hart) setSPP(p Privilege) {
	h.Mstatus &^= mstatusSPP
	if p == Supervisor {
		h.Mstatus |= mstatusSPP
	}
}

func (h *Hart) setMPP(p Privilege) {
	h.Mstatus = h.Mstatus&^mstatusMPPMask | uint64(p)<<mstatusMPPLo
}

func setBit64(v uint64, mask uint64, set bool) uint64 {
	if set {
		return v | mask
	}
	return v &^ mask
}

// writeMstatus applies spec.md §4.4's "Writes with decomposition" rule:
// unmodifiable bits are preserved from the current value, everything else
// comes from the supplied value, with validity checks on mpp/fs/xs (spp is
// a single bit, so every value of it is valid and it is not checked).
func (h *Hart) writeMstatus(value uint64) error {
	newVal := h.Mstatus&unmodifiableMstatusMask | value&^unmodifiableMstatusMask
	mpp := Privilege(bitRange64(newVal, mstatusMPPLo+1, mstatusMPPLo))
	if !mpp.valid() {
		return hostError(ErrInvalidPrivilegeLevel, h.PC, "mstatus.mpp")
	}
	fs := FieldState(bitRange64(newVal, mstatusFSLo+1, mstatusFSLo))
	if !fs.valid() {
		return hostError(ErrInvalidContextStatus, h.PC, "mstatus.fs")
	}
	xs := FieldState(bitRange64(newVal, mstatusXSLo+1, mstatusXSLo))
	if !xs.valid() {
		return hostError(ErrInvalidContextStatus, h.PC, "mstatus.xs")
	}
	// sd is a computed summary bit: set iff fs or xs indicate dirty state.
	if fs == Dirty || xs == Dirty {
		newVal |= mstatusSD
	} else {
		newVal &^= mstatusSD
	}
	h.Mstatus = newVal
	return nil
}

// defaultMstatus returns the reset value mandated by spec.md §3: mpp=M,
// spp=S, fs=Initial, xs=Initial, uxl=sxl=2 (XLEN=64).
func defaultMstatus() uint64 {
	var v uint64
	v |= uint64(Machine) << mstatusMPPLo
	v |= mstatusSPP // spp = Supervisor
	v |= uint64(Initial) << mstatusFSLo
	v |= uint64(Initial) << mstatusXSLo
	v |= uint64(2) << mstatusUXLLo
	v |= uint64(2) << mstatusSXLLo
	return v
}
