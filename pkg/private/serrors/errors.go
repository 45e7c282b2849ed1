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

// Package serrors provides enhanced errors. Errors created with serrors can
// carry additional log context in the form of key-value pairs, an optional
// cause, and an optional stack trace. The returned errors support the
// standard Is and As functionality: for any returned error err,
// errors.Is(err, err) is always true; for any err wrapping or joining err2,
// errors.Is(err, err2) is always true; any other combination can be assumed
// to report false.
package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxPair struct {
	Key   string
	Value any
}

// annotation carries the pieces shared by all serrors implementations: the
// key-value context, an optional cause and an optional stack trace. The ctx
// field is a pointer so that error values stay comparable and two
// independently constructed errors never compare equal.
type annotation struct {
	ctx   *[]ctxPair
	cause error
	stack *stack
}

func newAnnotation(cause error, withStack bool, errCtx ...any) annotation {
	pairs := make([]ctxPair, len(errCtx)/2)
	for i := range pairs {
		pairs[i] = ctxPair{Key: fmt.Sprint(errCtx[2*i]), Value: errCtx[2*i+1]}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].Key < pairs[b].Key })

	a := annotation{ctx: &pairs, cause: cause}
	if !withStack {
		return a
	}
	// At most one stack trace per error chain. If the cause already carries
	// one, or deliberately omitted it, none is attached here.
	var st interface{ StackTrace() StackTrace }
	if cause == nil || !errors.As(cause, &st) {
		a.stack = callers()
	}
	return a
}

// suffix renders the context and cause portion of the error string.
func (a annotation) suffix() string {
	var sb strings.Builder
	if len(*a.ctx) != 0 {
		sb.WriteString(" {")
		for i, p := range *a.ctx {
			if i != 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s=%v", p.Key, p.Value)
		}
		sb.WriteString("}")
	}
	if a.cause != nil {
		fmt.Fprintf(&sb, ": %s", a.cause)
	}
	return sb.String()
}

func (a annotation) marshalLogObject(enc zapcore.ObjectEncoder) error {
	if a.cause != nil {
		if m, ok := a.cause.(zapcore.ObjectMarshaler); ok {
			if err := enc.AddObject("cause", m); err != nil {
				return err
			}
		} else {
			enc.AddString("cause", a.cause.Error())
		}
	}
	if a.stack != nil {
		if err := enc.AddArray("stacktrace", a.stack); err != nil {
			return err
		}
	}
	for _, p := range *a.ctx {
		zap.Any(p.Key, p.Value).AddTo(enc)
	}
	return nil
}

// StackTrace returns the attached stack trace, if there is any.
func (a annotation) StackTrace() StackTrace {
	if a.stack == nil {
		return nil
	}
	return a.stack.StackTrace()
}

// basicError is an error with a plain string message.
type basicError struct {
	annotation
	msg string
}

func (e basicError) Error() string {
	return e.msg + e.annotation.suffix()
}

func (e basicError) Unwrap() error {
	return e.cause
}

// MarshalLogObject implements zapcore.ObjectMarshaler for a structured log
// representation.
func (e basicError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.msg)
	return e.annotation.marshalLogObject(enc)
}

// joinedError aggregates context and an optional cause around an existing
// base error, typically a sentinel.
type joinedError struct {
	annotation
	base error
}

func (e joinedError) Error() string {
	return e.base.Error() + e.annotation.suffix()
}

func (e joinedError) Unwrap() []error {
	return []error{e.base, e.cause}
}

// MarshalLogObject implements zapcore.ObjectMarshaler. The base error is not
// dissected; it is treated as a generic error.
func (e joinedError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.base.Error())
	return e.annotation.marshalLogObject(enc)
}

// New creates a new error with the given message and context, plus a stack
// trace. It returns a pointer, so every call site creates a distinct error
// identity. Avoid it in performance-critical code; for plain sentinels
// errors.New is cheaper.
func New(msg string, errCtx ...any) error {
	return &basicError{
		annotation: newAnnotation(nil, true, errCtx...),
		msg:        msg,
	}
}

// Wrap returns an error associating the message with the given cause, unless
// nil, and the given context. A stack trace is attached unless the cause
// already carries one. The returned error supports Is; Is(cause) reports
// true.
func Wrap(msg string, cause error, errCtx ...any) error {
	return basicError{
		annotation: newAnnotation(cause, true, errCtx...),
		msg:        msg,
	}
}

// WrapNoStack is Wrap without attaching a stack trace. A stack trace carried
// by the cause is preserved.
func WrapNoStack(msg string, cause error, errCtx ...any) error {
	return basicError{
		annotation: newAnnotation(cause, false, errCtx...),
		msg:        msg,
	}
}

// Join returns an error associating the base error with the given cause,
// unless nil, and the given context. A stack trace is attached unless the
// cause already carries one. The returned error supports Is: Is(err) reports
// true, and Is(cause) reports true if cause isn't nil. Join(nil, nil)
// returns nil.
func Join(err, cause error, errCtx ...any) error {
	if err == nil && cause == nil {
		return nil
	}
	return joinedError{
		annotation: newAnnotation(cause, true, errCtx...),
		base:       err,
	}
}

// JoinNoStack is Join without attaching a stack trace. A stack trace carried
// by the cause is preserved.
func JoinNoStack(err, cause error, errCtx ...any) error {
	if err == nil && cause == nil {
		return nil
	}
	return joinedError{
		annotation: newAnnotation(cause, false, errCtx...),
		base:       err,
	}
}

// IsTimeout returns whether err is or is caused by a timeout error.
func IsTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// IsTemporary returns whether err is or is caused by a temporary error.
func IsTemporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}

// List is a slice of errors.
type List []error

// Error implements the error interface.
func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return fmt.Sprintf("[ %s ]", strings.Join(s, "; "))
}

// ToError returns the list as an error interface value, or nil if the list
// is empty.
func (e List) ToError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// MarshalLogArray implements zapcore.ArrayMarshaler for a structured log
// representation of error lists.
func (e List) MarshalLogArray(ae zapcore.ArrayEncoder) error {
	for _, err := range e {
		if m, ok := err.(zapcore.ObjectMarshaler); ok {
			if err := ae.AppendObject(m); err != nil {
				return err
			}
		} else {
			ae.AppendString(err.Error())
		}
	}
	return nil
}
