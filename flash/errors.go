// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package flash

import "errors"

// ErrCode is the numeric result class a flash driver reports back to
// the session owner. Zero is success, everything else is a failure
// class the dispatch layer can act on.
type ErrCode int

const (
	CodeOK              ErrCode = 0
	CodeFail            ErrCode = -1
	CodeNotProbed       ErrCode = -2
	CodeNotHalted       ErrCode = -3
	CodeProtected       ErrCode = -4
	CodeMisaligned      ErrCode = -5
	CodeOperationFailed ErrCode = -6
	CodeFlashFail       ErrCode = -7
)

// Error carries a message together with its ErrCode.
type Error struct {
	errorString string
	Code        ErrCode
}

func (e *Error) Error() string {
	return e.errorString
}

func NewError(msg string, code ErrCode) error {
	return &Error{msg, code}
}

// CodeOf extracts the ErrCode from err. A nil error is CodeOK, a
// non-flash error maps to CodeFail.
func CodeOf(err error) ErrCode {
	if err == nil {
		return CodeOK
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	return CodeFail
}
