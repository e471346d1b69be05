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

import "context"

// Context returns the default context carried by errors constructed
// deep inside container operations, where no caller context flows.
func Context() context.Context {
	return context.Background()
}

func NewInternalErrorNoCtx(msg string, args ...any) *Error {
	return NewInternalError(Context(), msg, args...)
}

func NewInvalidArgNoCtx(arg string, val any) *Error {
	return NewInvalidArg(Context(), arg, val)
}

func NewBadConfigNoCtx(msg string, args ...any) *Error {
	return NewBadConfig(Context(), msg, args...)
}

func NewInvalidInputNoCtx(msg string, args ...any) *Error {
	return NewInvalidInput(Context(), msg, args...)
}

func NewNoSuchElementNoCtx(msg string, args ...any) *Error {
	return NewNoSuchElement(Context(), msg, args...)
}

func NewInvalidStateNoCtx(msg string, args ...any) *Error {
	return NewInvalidState(Context(), msg, args...)
}

func NewArithmeticNoCtx(msg string, args ...any) *Error {
	return NewArithmetic(Context(), msg, args...)
}

func NewUnsupportedOperationNoCtx(msg string, args ...any) *Error {
	return NewUnsupportedOperation(Context(), msg, args...)
}

func NewConcurrentModificationNoCtx(msg string, args ...any) *Error {
	return NewConcurrentModification(Context(), msg, args...)
}
