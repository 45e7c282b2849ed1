// Copyright 2025 OpenFabric Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serrors

import (
	"fmt"
	"runtime"

	"go.uber.org/zap/zapcore"
)

// Frame represents a single program counter inside a stack trace.
type Frame uintptr

// pc returns the program counter for this frame. The stored value points one
// instruction past the call site.
func (f Frame) pc() uintptr { return uintptr(f) - 1 }

// MarshalText renders the frame as "function file:line".
func (f Frame) MarshalText() ([]byte, error) {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return []byte("unknown"), nil
	}
	file, line := fn.FileLine(f.pc())
	return []byte(fmt.Sprintf("%s %s:%d", fn.Name(), file, line)), nil
}

// StackTrace is a stack of Frames, innermost (newest) first.
type StackTrace []Frame

type stack []uintptr

// callers captures the stack of the serrors constructor's caller.
func callers() *stack {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	st := stack(pcs[0:n])
	return &st
}

// StackTrace converts the raw counters into Frames.
func (s *stack) StackTrace() StackTrace {
	frames := make(StackTrace, len(*s))
	for i, pc := range *s {
		frames[i] = Frame(pc)
	}
	return frames
}

// MarshalLogArray implements zapcore.ArrayMarshaler so traces render as an
// array of frame strings.
func (s *stack) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, pc := range *s {
		t, err := Frame(pc).MarshalText()
		if err != nil {
			return err
		}
		enc.AppendByteString(t)
	}
	return nil
}
