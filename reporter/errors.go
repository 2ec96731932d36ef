// Copyright 2020-2025 Buf Technologies, Inc.
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

// Package reporter contains the types used for reporting errors from
// parsing Avro IDL and resolving its imports. It allows clients to decide
// whether errors abort a parse or are collected so that a best-effort tree
// can still be produced, which is what editor-facing queries need.
package reporter

import (
	"errors"
	"fmt"

	"github.com/bufbuild/avroidl/ast"
)

// ErrInvalidSource is a sentinel error that is returned by the parser in
// the event that syntax errors are encountered, but the configured
// ErrorReporter always returns nil.
var ErrInvalidSource = errors.New("parse failed: invalid Avro IDL source")

// ErrorWithPos is an error about an IDL source file that includes information
// about the location in the file that caused the error.
//
// The value of Error() will contain both the SourcePos and Underlying error.
// The value of Unwrap() will only be the Underlying error.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
func Error(pos ast.SourcePos, err error) ErrorWithPos {
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		// replace existing position with given one
		return &errorWithSourcePos{pos: pos, underlying: ewp.Unwrap()}
	}
	return &errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(pos ast.SourcePos, format string, args ...interface{}) ErrorWithPos {
	return Error(pos, fmt.Errorf(format, args...))
}

type errorWithSourcePos struct {
	underlying error
	pos        ast.SourcePos
}

func (e *errorWithSourcePos) Error() string {
	sourcePos := e.GetPosition()
	return fmt.Sprintf("%s: %v", sourcePos, e.underlying)
}

func (e *errorWithSourcePos) GetPosition() ast.SourcePos {
	return e.pos
}

func (e *errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = (*errorWithSourcePos)(nil)
