/*
   hart: instruction trace sink.

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

import (
	"fmt"
	"io"
)

// Tracer receives one line of text per successfully decoded instruction,
// emitted just before execute runs it (spec.md §4.7 / SPEC_FULL.md
// component 12). A nil Tracer means tracing is off; Step/Run never
// allocate a trace line in that case.
type Tracer interface {
	Trace(line string)
}

// TracerFunc adapts a plain function to the Tracer interface.
type TracerFunc func(line string)

func (f TracerFunc) Trace(line string) { f(line) }

// traceLine formats one disassembled line for in. When
// Options.AlwaysPrintPC is set, every line carries its address; otherwise
// the address is only printed for control-flow instructions, matching the
// teacher's disassembly convention of keeping straight-line listings terse.
func (h *Hart) traceLine(in Instruction) string {
	if h.opts.AlwaysPrintPC || isControlFlow(in.Op) {
		return fmt.Sprintf("%#016x: %s", h.PC, in.String())
	}
	return in.String()
}

// LineTracer is the one concrete Tracer this module ships: it writes each
// trace line to w followed by a newline, ignoring write errors (a trace
// sink losing a line is not a simulation fault).
type LineTracer struct {
	W io.Writer
}

func (t LineTracer) Trace(line string) {
	fmt.Fprintln(t.W, line)
}

func isControlFlow(op Op) bool {
	switch op {
	case OpJAL, OpJALR, OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU, OpMRET, OpECALL, OpEBREAK:
		return true
	}
	return false
}
