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
	"fmt"
	"testing"

	"github.com/pixlise/imagewarp/core/warperror"
)

func Example_polynomialTerms() {
	fmt.Println(PolynomialTerms(1))
	fmt.Println(PolynomialTerms(2))
	fmt.Println(len(PolynomialTerms(3)))

	// Output:
	// [{0 0} {0 1} {1 0}]
	// [{0 0} {0 1} {0 2} {1 0} {1 1} {2 0}]
	// 10
}

func Example_fitPolynomialErrors() {
	gcps := CorrespondenceSet{
		Source:      []Point2D{{0, 0}, {3, 0}, {0, 3}},
		Destination: []Point2D{{0, 0}, {3, 0}, {0, 3}},
	}

	_, err := FitPolynomial(gcps, 0)
	fmt.Printf("%v|%v\n", err, warperror.IsValidation(err))

	_, err = FitPolynomial(gcps, 2)
	fmt.Printf("%v|%v\n", err, warperror.IsFitting(err))

	collinear := CorrespondenceSet{
		Source:      []Point2D{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
		Destination: []Point2D{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
	}
	_, err = FitPolynomial(collinear, 1)
	fmt.Println(warperror.IsSingularMatrix(err))

	mismatched := CorrespondenceSet{Source: gcps.Source, Destination: gcps.Destination[:2]}
	_, err = FitPolynomial(mismatched, 1)
	fmt.Println(err)

	_, err = BuildPolynomialMap(gcps, 1, Shape{Rows: 4, Cols: 0}, Options{})
	fmt.Println(err)

	// Output:
	// specified order must be a positive integer, got 0|true
	// order 2 polynomial has 6 terms, needs at least that many control points, got 3|true
	// true
	// source and destination point counts differ: 3 vs 2
	// destination shape must be positive, got 4x0
}

func TestPolynomialIdentityOrder1(t *testing.T) {
	pts := []Point2D{{0, 0}, {9, 0}, {0, 7}, {9, 7}, {4, 3}}
	gcps := CorrespondenceSet{Source: pts, Destination: pts}

	for _, workers := range []int{1, 4} {
		m, err := BuildPolynomialMap(gcps, 1, Shape{Rows: 8, Cols: 10}, Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		if m.Rows != 8 || m.Cols != 10 {
			t.Errorf("expected 8x10 map, got %vx%v", m.Rows, m.Cols)
		}
		checkMap(t, fmt.Sprintf("identity workers=%v", workers), m, 1e-4, func(row int, col int) (float64, float64) {
			return float64(col), float64(row)
		})
	}
}

func TestPolynomialMinimalIdentity(t *testing.T) {
	// Exactly as many points as terms
	pts := []Point2D{{0, 0}, {3, 0}, {0, 3}}
	m, err := BuildPolynomialMap(CorrespondenceSet{Source: pts, Destination: pts}, 1, Shape{Rows: 4, Cols: 4}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkMap(t, "minimal identity", m, 1e-5, func(row int, col int) (float64, float64) {
		return float64(col), float64(row)
	})
}

func TestPolynomialAffineFit(t *testing.T) {
	// Source is destination scaled by 2 in x, shifted by (3, -1) and sheared
	src := func(x, y float64) (float64, float64) { return 2*x + 0.5*y + 3, y - 1 }

	gcps := CorrespondenceSet{}
	for _, p := range []Point2D{{0, 0}, {20, 1}, {3, 15}, {18, 17}, {10, 8}, {5, 2}} {
		sx, sy := src(p.X, p.Y)
		gcps.Destination = append(gcps.Destination, p)
		gcps.Source = append(gcps.Source, Point2D{sx, sy})
	}

	fit, err := FitPolynomial(gcps, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Terms are 1, y, x
	expA := []float64{3, 0.5, 2}
	expB := []float64{-1, 1, 0}
	for k := range expA {
		if !approxEqual(fit.A[k], expA[k], 1e-9) || !approxEqual(fit.B[k], expB[k], 1e-9) {
			t.Errorf("term %v: expected a=%v b=%v, got a=%v b=%v", fit.Terms[k], expA[k], expB[k], fit.A[k], fit.B[k])
		}
	}

	rms, err := fit.RMSResidual(gcps)
	if err != nil || rms > 1e-9 {
		t.Errorf("expected ~0 residual, got %v, %v", rms, err)
	}

	m, err := fit.BuildMap(Shape{Rows: 12, Cols: 16}, Options{Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	checkMap(t, "affine", m, 1e-4, func(row int, col int) (float64, float64) {
		return src(float64(col), float64(row))
	})
}

func TestPolynomialQuadraticFit(t *testing.T) {
	src := func(x, y float64) (float64, float64) {
		return 0.01*x*x + x + 0.002*x*y + 4, 0.02*y*y - 0.5*x + y
	}

	gcps := CorrespondenceSet{}
	for y := 0.0; y <= 40; y += 10 {
		for x := 0.0; x <= 60; x += 15 {
			sx, sy := src(x, y)
			gcps.Destination = append(gcps.Destination, Point2D{x, y})
			gcps.Source = append(gcps.Source, Point2D{sx, sy})
		}
	}

	fit, err := FitPolynomial(gcps, 2)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []Point2D{{1, 1}, {33, 27}, {59, 2}} {
		x, y := fit.Apply(p.X, p.Y)
		ex, ey := src(p.X, p.Y)
		if !approxEqual(x, ex, 1e-6) || !approxEqual(y, ey, 1e-6) {
			t.Errorf("at %v expected (%v,%v), got (%v,%v)", p, ex, ey, x, y)
		}
	}
}

func TestPolynomialLeastSquaresResidual(t *testing.T) {
	// 4 points that no plane fits exactly, so the residual must be positive
	gcps := CorrespondenceSet{
		Destination: []Point2D{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		Source:      []Point2D{{0, 0}, {1, 0}, {0, 1}, {2, 2}},
	}
	fit, err := FitPolynomial(gcps, 1)
	if err != nil {
		t.Fatal(err)
	}
	rms, err := fit.RMSResidual(gcps)
	if err != nil {
		t.Fatal(err)
	}
	if rms <= 0.1 {
		t.Errorf("expected noticeable residual, got %v", rms)
	}
}
