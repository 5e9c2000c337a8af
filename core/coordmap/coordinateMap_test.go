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
	"math"
	"testing"

	"github.com/pixlise/imagewarp/core/warperror"
)

func approxEqual(a float64, b float64, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// checkMap - compares every pixel of m against expected(row, col)
func checkMap(t *testing.T, name string, m *CoordinateMap, tol float64, expected func(row int, col int) (float64, float64)) {
	t.Helper()
	if err := m.Validate(); err != nil {
		t.Fatalf("%v: invalid map: %v", name, err)
	}

	fails := 0
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			x, y := m.At(r, c)
			ex, ey := expected(r, c)
			if !approxEqual(float64(x), ex, tol) || !approxEqual(float64(y), ey, tol) {
				if fails < 5 {
					t.Errorf("%v: pixel (%v,%v) mapped to (%v,%v), expected (%v,%v)", name, r, c, x, y, ex, ey)
				}
				fails++
			}
		}
	}
}

func Example_newCorrespondenceSet() {
	gcps, err := NewCorrespondenceSet([]float64{1, 2}, []float64{3, 4}, []float64{5, 6}, []float64{7, 8})
	fmt.Printf("%v|%v|%v\n", gcps.Source, gcps.Destination, err)
	fmt.Println(gcps.Validate(2), gcps.Validate(3))

	_, err = NewCorrespondenceSet([]float64{1, 2}, []float64{3}, []float64{5, 6}, []float64{7, 8})
	fmt.Printf("%v|%v\n", err, warperror.IsValidation(err))

	bad := CorrespondenceSet{Source: []Point2D{{1, 1}}, Destination: []Point2D{}}
	fmt.Println(bad.Validate(0))

	// Output:
	// [{1 3} {2 4}]|[{5 7} {6 8}]|<nil>
	// <nil> at least 3 point correspondences required, got 2
	// length of GCP coordinates must match for both axes and images, got 2,1,2,2|true
	// source and destination point counts differ: 1 vs 0
}

func Example_fromGrids() {
	m, err := FromGrids([][]float32{{0, 1, 2}, {0, 1, 2}}, [][]float32{{0, 0, 0}, {1, 1, 1}})
	fmt.Printf("%v|%v|%v\n", m.Shape(), err, m.Validate())
	x, y := m.At(1, 2)
	fmt.Println(x, y)
	gx, gy := m.Grids()
	fmt.Println(gx, gy)

	_, err = FromGrids([][]float32{{0, 1}}, [][]float32{{0, 1}, {0, 1}})
	fmt.Println(err)
	_, err = FromGrids([][]float32{{0, 1}, {0, 1}}, [][]float32{{0, 1}, {0}})
	fmt.Println(err)
	_, err = FromGrids([][]float32{}, [][]float32{})
	fmt.Println(err)

	broken := &CoordinateMap{Rows: 2, Cols: 2, X: make([]float32, 4), Y: make([]float32, 3)}
	fmt.Println(broken.Validate())
	var nilMap *CoordinateMap
	fmt.Println(nilMap.Validate())

	_, err = NewCoordinateMap(Shape{Rows: 0, Cols: 4})
	fmt.Println(err)

	// Output:
	// {2 3}|<nil>|<nil>
	// 2 1
	// [[0 1 2] [0 1 2]] [[0 0 0] [1 1 1]]
	// map grids must be the same size, got 1 and 2 rows
	// map grids must be the same size, row 1 has 2 and 1 columns, expected 2
	// map grids are empty
	// map grids must be the same size: 2x2 needs 4 values, x has 4, y has 3
	// coordinate map is nil
	// map shape must be positive, got 0x4
}

func TestIdentityMap(t *testing.T) {
	m, err := Identity(Shape{Rows: 3, Cols: 5})
	if err != nil {
		t.Fatal(err)
	}
	checkMap(t, "identity", m, 0, func(row int, col int) (float64, float64) {
		return float64(col), float64(row)
	})
}
