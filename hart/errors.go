/*
   hart: host-level error types and architectural exception signaling.

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
	"errors"
	"fmt"
)

// The following sentinel errors identify the host-level failure domain
// (spec.md §7): conditions the simulator cannot recover from internally.
// Unlike architectural exceptions, these are returned to the caller from
// Step/Run rather than absorbed into a guest trap. Out-of-bounds access,
// unrecognized opcodes/CSRs and EBREAK only produce them when the matching
// Options *Fatal flag is set; otherwise they are reflected into the guest
// as the corresponding architectural exception.
var (
	ErrExecutionOutOfBounds             = errors.New("hart: execution out of bounds")
	ErrUnimplementedOpcode               = errors.New("hart: unimplemented opcode")
	ErrInvalidCSR                        = errors.New("hart: invalid csr")
	ErrInvalidPrivilegeLevel             = errors.New("hart: invalid privilege level")
	ErrInvalidContextStatus              = errors.New("hart: invalid context status")
	ErrInvalidVectorMode                 = errors.New("hart: invalid vector mode")
	ErrInvalidAddressTranslationMode     = errors.New("hart: invalid address translation mode")
	ErrUnsupportedAddressTranslationMode = errors.New("hart: unsupported address translation mode")
	ErrEBreak                            = errors.New("hart: ebreak")
)

// HostError wraps one of the sentinel errors above with instruction-address
// context. Use errors.Is(err, hart.ErrExecutionOutOfBounds) (etc.) to test
// the kind; HostError.Unwrap makes that work transparently.
type HostError struct {
	Base error  // one of the Err* sentinels above
	PC   uint64 // value of pc when the failure was detected
	Detail string
}

func (e *HostError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at pc=%#x", e.Base, e.PC)
	}
	return fmt.Sprintf("%s at pc=%#x: %s", e.Base, e.PC, e.Detail)
}

func (e *HostError) Unwrap() error { return e.Base }

func hostError(base error, pc uint64, detail string) *HostError {
	return &HostError{Base: base, PC: pc, Detail: detail}
}
