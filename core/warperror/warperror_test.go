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

func Example_kinds() {
	err := MakeValidationError("expected %v points, got %v", 4, 3)
	fmt.Printf("%v|%v|%v|%v\n", err, err.Kind, IsValidation(err), IsFitting(err))

	wrapped := errors.Wrap(MakeFittingError("need 6 points"), "fitting map")
	fmt.Printf("%v|%v|%v\n", wrapped, IsFitting(wrapped), IsSingularMatrix(wrapped))

	sing := MakeSingularMatrixError(errors.New("matrix is singular"), "homography")
	fmt.Printf("%v|%v\n", sing, IsSingularMatrix(sing))

	fmt.Println(IsValidation(errors.New("plain")), IsValidation(nil))
	fmt.Println(Kind(9))

	// Output:
	// expected 4 points, got 3|ValidationError|true|false
	// fitting map: need 6 points|true|false
	// homography: matrix is singular|true
	// false false
	// Kind(9)
}
