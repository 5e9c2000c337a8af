// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package warperror

import (
	"fmt"

	"github.com/pkg/errors"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Typed errors for map building and resampling

// Kind - what category of failure happened
type Kind int

const (
	// KindValidation - wrong shapes, mismatched lengths, wrong point counts, out of range values
	KindValidation Kind = iota
	// KindSingularMatrix - least squares or homography system could not be solved
	KindSingularMatrix
	// KindFitting - too few correspondences for the requested polynomial order
	KindFitting
)

var kindNames = map[Kind]string{
	KindValidation:     "ValidationError",
	KindSingularMatrix: "SingularMatrixError",
	KindFitting:        "FittingError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// WarpError represents a failure with an associated kind. It embeds the
// built-in error interface so callers can print it directly.
type WarpError struct {
	Kind Kind
	Err  error
}

func (we WarpError) Error() string {
	return we.Err.Error()
}

// Unwrap allows errors.Is/As to see the underlying error
func (we WarpError) Unwrap() error {
	return we.Err
}

func MakeValidationError(format string, a ...interface{}) WarpError {
	return WarpError{Kind: KindValidation, Err: fmt.Errorf(format, a...)}
}

func MakeSingularMatrixError(err error, format string, a ...interface{}) WarpError {
	if err == nil {
		return WarpError{Kind: KindSingularMatrix, Err: fmt.Errorf(format, a...)}
	}
	return WarpError{Kind: KindSingularMatrix, Err: errors.Wrapf(err, format, a...)}
}

func MakeFittingError(format string, a ...interface{}) WarpError {
	return WarpError{Kind: KindFitting, Err: fmt.Errorf(format, a...)}
}

// KindOf returns the kind of a (possibly wrapped) WarpError. The second
// return value is false if err is not a WarpError at all.
func KindOf(err error) (Kind, bool) {
	var we WarpError
	if err == nil {
		return 0, false
	}
	if errors.As(err, &we) {
		return we.Kind, true
	}
	// pkg/errors wrappers from older code paths only expose Cause()
	if we, ok := errors.Cause(err).(WarpError); ok {
		return we.Kind, true
	}
	return 0, false
}

func IsValidation(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindValidation
}

func IsSingularMatrix(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindSingularMatrix
}

func IsFitting(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindFitting
}
