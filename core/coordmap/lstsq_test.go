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
	"testing"

	"github.com/pixlise/imagewarp/core/warperror"
	"gonum.org/v1/gonum/mat"
)

func TestSolveSquareSystem(t *testing.T) {
	// 2x + y = 5, x - y = 1 => x = 2, y = 1
	a := mat.NewDense(2, 2, []float64{2, 1, 1, -1})
	b := mat.NewDense(2, 1, []float64{5, 1})

	x, err := SolveLinearLeastSquares(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(x.At(0, 0), 2, 1e-12) || !approxEqual(x.At(1, 0), 1, 1e-12) {
		t.Errorf("expected (2, 1), got (%v, %v)", x.At(0, 0), x.At(1, 0))
	}
}

func TestSolveOverdeterminedMultipleTargets(t *testing.T) {
	// Fit y = c0 + c1*x to two exact lines at once: 1 + 2x and -3 + 0.5x
	xs := []float64{0, 1, 2, 3, 10, 250}
	a := mat.NewDense(len(xs), 2, nil)
	b := mat.NewDense(len(xs), 2, nil)
	for r, x := range xs {
		a.SetRow(r, []float64{1, x})
		b.SetRow(r, []float64{1 + 2*x, -3 + 0.5*x})
	}

	x, err := SolveLinearLeastSquares(a, b)
	if err != nil {
		t.Fatal(err)
	}

	expected := [][]float64{{1, -3}, {2, 0.5}}
	for r := range expected {
		for c := range expected[r] {
			if !approxEqual(x.At(r, c), expected[r][c], 1e-9) {
				t.Errorf("coefficient (%v,%v): expected %v, got %v", r, c, expected[r][c], x.At(r, c))
			}
		}
	}
}

func TestSolveLeastSquaresNoisy(t *testing.T) {
	// Mean of 1, 2, 3, 6 is the least squares constant
	a := mat.NewDense(4, 1, []float64{1, 1, 1, 1})
	b := mat.NewDense(4, 1, []float64{1, 2, 3, 6})
	x, err := SolveLinearLeastSquares(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(x.At(0, 0), 3, 1e-12) {
		t.Errorf("expected 3, got %v", x.At(0, 0))
	}
}

func TestSolveErrors(t *testing.T) {
	// Duplicate columns
	a := mat.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3})
	b := mat.NewDense(3, 1, []float64{1, 2, 3})
	if _, err := SolveLinearLeastSquares(a, b); !warperror.IsSingularMatrix(err) {
		t.Errorf("expected singular matrix error for rank deficient system, got %v", err)
	}

	// All zero column
	a = mat.NewDense(3, 2, []float64{1, 0, 2, 0, 3, 0})
	if _, err := SolveLinearLeastSquares(a, b); !warperror.IsSingularMatrix(err) {
		t.Errorf("expected singular matrix error for zero column, got %v", err)
	}

	// Too few equations
	a = mat.NewDense(1, 2, []float64{1, 2})
	b = mat.NewDense(1, 1, []float64{1})
	if _, err := SolveLinearLeastSquares(a, b); !warperror.IsFitting(err) {
		t.Errorf("expected fitting error, got %v", err)
	}

	// Mismatched rows
	a = mat.NewDense(3, 1, []float64{1, 2, 3})
	b = mat.NewDense(2, 1, []float64{1, 2})
	if _, err := SolveLinearLeastSquares(a, b); !warperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
