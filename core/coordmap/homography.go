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

	"github.com/pixlise/imagewarp/core/utils"
	"github.com/pixlise/imagewarp/core/warperror"
	"gonum.org/v1/gonum/mat"
)

// QuadPoints - a quad-to-quad mapping is defined by exactly this many corners
const QuadPoints = 4

// Homography - 3x3 projective transform, row-major, mapping destination pixels to source
// pixels in homogeneous coordinates. H[8] (h33) is always 1
type Homography [9]float64

// ValidateQuad - both quads must have exactly 4 points
func ValidateQuad(srcQuad []Point2D, destQuad []Point2D) error {
	if len(srcQuad) != len(destQuad) {
		return warperror.MakeValidationError("number of provided corner points must match for both images, got %v and %v", len(srcQuad), len(destQuad))
	}
	if len(srcQuad) != QuadPoints {
		return warperror.MakeValidationError("must provide exactly %v corner points, got %v", QuadPoints, len(srcQuad))
	}
	return nil
}

// FitHomography - solves for the homography taking destQuad[k] to srcQuad[k]. For each
// corner k, with (x, y) the destination and (u, v) the source point:
//
//	x*h11 + y*h12 + h13 - x*u*h31 - y*u*h32 = u
//	x*h21 + y*h22 + h23 - x*v*h31 - y*v*h32 = v
//
// 8 equations, 8 unknowns. Three collinear corners make it singular.
func FitHomography(srcQuad []Point2D, destQuad []Point2D) (Homography, error) {
	var h Homography
	if err := ValidateQuad(srcQuad, destQuad); err != nil {
		return h, err
	}

	a := mat.NewDense(2*QuadPoints, 8, nil)
	b := mat.NewDense(2*QuadPoints, 1, nil)
	for k := 0; k < QuadPoints; k++ {
		x, y := destQuad[k].X, destQuad[k].Y
		u, v := srcQuad[k].X, srcQuad[k].Y

		a.SetRow(k, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		b.Set(k, 0, u)

		a.SetRow(k+QuadPoints, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.Set(k+QuadPoints, 0, v)
	}

	sol, err := SolveLinearLeastSquares(a, b)
	if err != nil {
		if warperror.IsValidation(err) {
			return h, err
		}
		return h, warperror.MakeSingularMatrixError(err, "quad-to-quad correspondence is degenerate")
	}

	for c := 0; c < 8; c++ {
		h[c] = sol.At(c, 0)
	}
	h[8] = 1
	return h, nil
}

// Apply - multiplies (x, y, 1) by the matrix and divides out the homogeneous coordinate.
// Points on the line at infinity come back as +Inf
func (h Homography) Apply(x float64, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		return math.Inf(1), math.Inf(1)
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w
}

// BuildHomographyMap - for every pixel of a destination image of shape dest, the source
// position given by the quad-to-quad mapping of destQuad onto srcQuad
func BuildHomographyMap(dest Shape, srcQuad []Point2D, destQuad []Point2D, opts Options) (*CoordinateMap, error) {
	if err := dest.validate("destination"); err != nil {
		return nil, err
	}

	h, err := FitHomography(srcQuad, destQuad)
	if err != nil {
		return nil, err
	}

	return h.BuildMap(dest, opts)
}

// BuildMap - evaluates the homography at every pixel of dest
func (h Homography) BuildMap(dest Shape, opts Options) (*CoordinateMap, error) {
	result, err := NewCoordinateMap(dest)
	if err != nil {
		return nil, err
	}

	err = utils.ParallelRows(dest.Rows, opts.Workers, func(row int) error {
		for col := 0; col < dest.Cols; col++ {
			srcX, srcY := h.Apply(float64(col), float64(row))
			result.Set(row, col, srcX, srcY)
		}
		return nil
	})

	return result, err
}
