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

package coordmap

import (
	"math"

	"github.com/pixlise/imagewarp/core/warperror"
	"gonum.org/v1/gonum/mat"
)

// After column equilibration, anything worse than this is treated as rank deficient
const maxConditionNumber = 1e12

// SolveLinearLeastSquares - finds x minimising |a*x - b| for each column of b.
// a is rows x unknowns, b is rows x k, the result is unknowns x k. Square systems
// are solved exactly (LU), tall ones in the least squares sense (QR). Columns of a
// are scaled to unit length first, so polynomial terms of very different
// magnitudes (x vs x^3) don't trip the rank check.
// Errors:
// - ValidationError if a and b have different row counts
// - FittingError if there are fewer equations than unknowns
// - SingularMatrixError if a is (numerically) rank deficient
func SolveLinearLeastSquares(a mat.Matrix, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	if ar != br {
		return nil, warperror.MakeValidationError("system has %v equations but %v right hand side values", ar, br)
	}
	if ar < ac {
		return nil, warperror.MakeFittingError("%v equations cannot determine %v unknowns", ar, ac)
	}

	scaled := mat.DenseCopyOf(a)
	colScale := make([]float64, ac)
	for c := 0; c < ac; c++ {
		norm := mat.Norm(scaled.ColView(c), 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, warperror.MakeSingularMatrixError(nil, "column %v of the %vx%v system is degenerate", c, ar, ac)
		}
		colScale[c] = 1 / norm
		for r := 0; r < ar; r++ {
			scaled.Set(r, c, scaled.At(r, c)*colScale[c])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(scaled, mat.SVDNone) {
		return nil, warperror.MakeSingularMatrixError(nil, "failed to factorise %vx%v system", ar, ac)
	}
	if cond := svd.Cond(); cond > maxConditionNumber {
		return nil, warperror.MakeSingularMatrixError(nil, "%vx%v system is singular (condition number %g)", ar, ac, cond)
	}

	var x mat.Dense
	if err := x.Solve(scaled, b); err != nil {
		return nil, warperror.MakeSingularMatrixError(err, "failed to solve %vx%v system", ar, ac)
	}

	// Undo the column scaling
	for r := 0; r < ac; r++ {
		for c := 0; c < bc; c++ {
			x.Set(r, c, x.At(r, c)*colScale[r])
		}
	}

	return &x, nil
}
