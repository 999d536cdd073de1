/*
   rvsim: command-line driver for the hart simulator.

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

// Command rvsim is a minimal driver for the hart package: it loads a raw
// little-endian binary image into memory, constructs a Hart over it, and
// runs it to completion or to the first host-level failure. It exists to
// exercise hart's external interface end to end, not as a general-purpose
// simulator front end.
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/leecannon/zriscv-sub000/hart"
	"github.com/leecannon/zriscv-sub000/internal/rvlog"
)

func main() {
	optFile := getopt.StringLong("file", 'f', "", "raw binary image to load at address 0")
	optVerbose := getopt.BoolLong("verbose", 'v', "trace every instruction")
	optDebug := getopt.BoolLong("debug", 'd', "single-step, pausing on stdin between instructions")
	optPC := getopt.Uint64Long("pc", 0, 0, "initial pc")
	optSoftIllegal := getopt.BoolLong("soft-illegal", 0, "reflect unrecognized opcodes as IllegalInstruction instead of aborting")
	optSoftCSR := getopt.BoolLong("soft-csr", 0, "reflect unrecognized CSRs as IllegalInstruction instead of aborting")
	optEBreakFatal := getopt.BoolLong("ebreak-fatal", 0, "abort on EBREAK instead of raising Breakpoint")
	optSoftBounds := getopt.BoolLong("soft-bounds", 0, "reflect out-of-bounds access as an access fault instead of aborting")
	optHelp := getopt.BoolLong("help", 'h', "help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	logger := slog.New(rvlog.NewHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *optFile == "" {
		logger.Error("no image specified, use -f/--file")
		os.Exit(1)
	}

	image, err := os.ReadFile(*optFile)
	if err != nil {
		logger.Error("reading image", "error", err)
		os.Exit(1)
	}

	opts := hart.Options{
		UnrecognizedInstructionFatal: !*optSoftIllegal,
		UnrecognizedCSRFatal:         !*optSoftCSR,
		EBreakFatal:                  *optEBreakFatal,
		ExecutionOutOfBoundsFatal:    !*optSoftBounds,
		AlwaysPrintPC:                *optVerbose,
	}

	h := hart.NewHart(image, opts)
	h.PC = *optPC

	var tr hart.Tracer
	if *optVerbose {
		tr = hart.LineTracer{W: os.Stderr}
	}

	if *optDebug {
		runDebug(h, tr, logger)
		return
	}

	if runErr := h.Run(tr); runErr != nil {
		logger.Error("hart halted", "error", runErr)
		os.Exit(1)
	}
}

// runDebug single-steps h, pausing on stdin between instructions, mirroring
// the teacher's cmd/vm-style debug pause.
func runDebug(h *hart.Hart, tr hart.Tracer, logger *slog.Logger) {
	for {
		fmt.Fprintf(os.Stderr, "rvsim: pc=%#016x, paused...\n", h.PC)
		fmt.Scanln()
		if err := h.Step(tr); err != nil {
			logger.Error("hart halted", "error", err)
			os.Exit(1)
		}
	}
}
