// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package dmem

import "errors"

// ErrCode classifies the failures the dmem backend can report.
type ErrCode int

const (
	CodeOK              ErrCode = 0
	CodeFail            ErrCode = -1
	CodeBadConfig       ErrCode = -2
	CodeDeviceOpen      ErrCode = -3
	CodeMapFailed       ErrCode = -4
	CodeAlignment       ErrCode = -5
	CodeUnsupported     ErrCode = -6
	CodeInvalidRegister ErrCode = -7
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
// non-dmem error maps to CodeFail.
func CodeOf(err error) ErrCode {
	if err == nil {
		return CodeOK
	}

	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}

	return CodeFail
}
