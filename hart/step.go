/*
   hart: Step/Run fetch-decode-execute-trap loop.

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

// Step executes exactly one instruction (spec.md §4.1's fetch/decode/
// execute/trap loop, one iteration). tr may be nil, in which case no trace
// line is produced.
//
// Step returns a non-nil error only for a host-level failure (spec.md §7):
// an *HostError from a fatal out-of-bounds access, an unrecognized
// opcode/CSR with the matching Fatal option set, an EBREAK with
// EBreakFatal set, or an invalid mstatus/mtvec/satp field value. An
// architectural exception (illegal instruction, page fault, ecall, ...) is
// fully handled internally via trap delivery and never surfaces as an
// error; the caller only sees pc having jumped to the trap vector.
func (h *Hart) Step(tr Tracer) error {
	word, err := h.fetch()
	if err != nil {
		if hostErr, ok := err.(*HostError); ok {
			return hostErr
		}
		if sig, ok := asExcSignal(err); ok {
			h.deliverTrap(sig.code, sig.tval)
			return nil
		}
		return err
	}

	in, ok := Decode(word)
	if !ok {
		if h.opts.UnrecognizedInstructionFatal {
			return hostError(ErrUnimplementedOpcode, h.PC, "")
		}
		h.deliverTrap(IllegalInstruction, uint64(word))
		return nil
	}

	if tr != nil {
		tr.Trace(h.traceLine(in))
	}

	branched, err := h.execute(in)
	if err != nil {
		if hostErr, ok := err.(*HostError); ok {
			return hostErr
		}
		if sig, ok := asExcSignal(err); ok {
			h.deliverTrap(sig.code, sig.tval)
			return nil
		}
		return err
	}
	if !branched {
		h.PC += 4
	}
	return nil
}

// Run steps the hart until Step returns a non-nil error, which Run then
// returns unchanged. There is no instruction-count limit or halt
// instruction in this core (spec.md §5): callers that need one wrap Run's
// caller loop themselves, e.g. by checking pc after each Step instead of
// calling Run directly.
func (h *Hart) Run(tr Tracer) error {
	for {
		if err := h.Step(tr); err != nil {
			return err
		}
	}
}
