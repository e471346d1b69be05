// Copyright 2022 The Primkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"context"
	"fmt"
)

const (
	// 0 - 99 is OK.  They do not contain info, and are special handled
	// using a static instance, no alloc.
	Ok              uint16 = 0
	OkStopCurrRecur uint16 = 1
	OkExpectedEOF   uint16 = 2 // Expected End Of Iteration

	OkMax uint16 = 99

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102

	// Group 2: invalid input
	ErrInvalidArg   uint16 = 20200
	ErrBadConfig    uint16 = 20201
	ErrInvalidInput uint16 = 20202

	// Group 3: container state
	ErrNoSuchElement          uint16 = 20300
	ErrInvalidState           uint16 = 20301
	ErrArithmetic             uint16 = 20302
	ErrUnsupportedOperation   uint16 = 20303
	ErrConcurrentModification uint16 = 20304

	// ErrEnd, the max value of the error code
	ErrEnd uint16 = 65535
)

type errorMsgItem struct {
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]errorMsgItem{
	// Group 1: internal errors
	ErrStart:    {"internal error: error code start"},
	ErrInternal: {"internal error: %s"},
	ErrNYI:      {"%s is not yet implemented"},

	// Group 2: invalid input
	ErrInvalidArg:   {"invalid argument %s, bad value %s"},
	ErrBadConfig:    {"invalid configuration: %s"},
	ErrInvalidInput: {"invalid input: %s"},

	// Group 3: container state
	ErrNoSuchElement:          {"no such element: %s"},
	ErrInvalidState:           {"invalid state %s"},
	ErrArithmetic:             {"arithmetic error: %s"},
	ErrUnsupportedOperation:   {"unsupported operation: %s"},
	ErrConcurrentModification: {"concurrent modification: %s"},

	// Group End: max value of the error code
	ErrEnd: {"internal error: end of errcode code"},
}

func newError(ctx context.Context, code uint16, args ...any) *Error {
	var err *Error
	item, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError(ctx, "not exist error code: %d", code))
	}
	if len(args) == 0 {
		err = &Error{
			code:    code,
			message: item.errorMsgOrFormat,
		}
	} else {
		err = &Error{
			code:    code,
			message: fmt.Sprintf(item.errorMsgOrFormat, args...),
		}
	}
	return err
}

type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Succeeded() bool {
	return e.code < OkMax
}

func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	me, ok := e.(*Error)
	if !ok {
		// This is not a moerr
		return false
	}
	return me.code == rc
}

func DowncastError(e error) *Error {
	if err, ok := e.(*Error); ok {
		return err
	}
	return newError(Context(), ErrInternal, "downcast error failed: %v", e)
}

// ConvertPanicError converts a runtime panic to internal error.
func ConvertPanicError(ctx context.Context, v interface{}) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return newError(ctx, ErrInternal, fmt.Sprintf("panic %v", v))
}

// ConvertGoError converts a go error into a moerr.
// Note here we must return error, because nil error
// is the same as nil *Error -- Go strangeness.
func ConvertGoError(ctx context.Context, err error) error {
	// nil is nil
	if err == nil {
		return err
	}

	// already a moerr, return it as is
	if _, ok := err.(*Error); ok {
		return err
	}

	return NewInternalError(ctx, "convert go error to moerr %v", err)
}

// Special handling of OK codes.  They are not errors, but are used to
// signal different success conditions, for example the end of an
// iteration.  These sit on tight loops, so we cannot afford to new an
// Error for each occurrence; callers compare against the static
// instance with either
//
//	   if err == GetOkExpectedEOF()
//	or if moerr.IsMoErrCode(err, moerr.OkExpectedEOF)
var errOkStopCurrRecur = Error{OkStopCurrRecur, "StopCurrRecur"}
var errOkExpectedEOF = Error{OkExpectedEOF, "ExpectedEOF"}

func GetOkStopCurrRecur() *Error {
	return &errOkStopCurrRecur
}

func GetOkExpectedEOF() *Error {
	return &errOkExpectedEOF
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInternal, xmsg)
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNYI, xmsg)
}

func NewInvalidArg(ctx context.Context, arg string, val any) *Error {
	return newError(ctx, ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewBadConfig(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrBadConfig, xmsg)
}

func NewInvalidInput(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidInput, xmsg)
}

func NewNoSuchElement(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNoSuchElement, xmsg)
}

func NewInvalidState(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidState, xmsg)
}

func NewArithmetic(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrArithmetic, xmsg)
}

func NewUnsupportedOperation(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrUnsupportedOperation, xmsg)
}

func NewConcurrentModification(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrConcurrentModification, xmsg)
}
