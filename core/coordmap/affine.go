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

	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/utils"
	"github.com/pixlise/imagewarp/core/warperror"
)

// Canvas sizes are truncated to ints, but 90 degree rotations come out a hair
// under the exact size because cos(pi/2) isn't 0
const canvasTolerance = 1e-9

// RotationScale - resolved parameters for a rotation + scale warp. Build these
// with ResolveRotationScale so bad values are replaced consistently
type RotationScale struct {
	RotationDegrees float64 `json:"rotationDegrees"`
	ScaleX          float64 `json:"scaleX"`
	ScaleY          float64 `json:"scaleY"`
}

// ResolveRotationScale - applies the fallbacks for rotation + scale parameters:
// - a non-finite rotation becomes 0
// - scale with other than 1 or 2 values, or any zero/non-finite value, becomes (1, 1)
// - a single scale value applies to both axes
// Each fallback is logged, none of them are errors
func ResolveRotationScale(rotationDegrees float64, scale []float64, log logger.ILogger) RotationScale {
	log = logger.OrNull(log)
	result := RotationScale{RotationDegrees: rotationDegrees, ScaleX: 1, ScaleY: 1}

	if !isFinite(rotationDegrees) {
		log.Errorf("Specified rotation angle must be a finite number, got %v. Defaulting to 0.", rotationDegrees)
		result.RotationDegrees = 0
	}

	switch len(scale) {
	case 1:
		result.ScaleX = scale[0]
		result.ScaleY = scale[0]
	case 2:
		result.ScaleX = scale[0]
		result.ScaleY = scale[1]
	default:
		log.Errorf("Scale parameter list length must be 1 or 2, got %v. Defaulting to uniform scaling.", len(scale))
		return result
	}

	if !isFinite(result.ScaleX) || !isFinite(result.ScaleY) || result.ScaleX == 0 || result.ScaleY == 0 {
		log.Errorf("Scale factors must be finite and non-zero, got %v. Defaulting to uniform scaling.", scale)
		result.ScaleX = 1
		result.ScaleY = 1
	}

	return result
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// 2x2 matrix, row-major
type matrix2 [4]float64

func (m matrix2) apply(x float64, y float64) (float64, float64) {
	return m[0]*x + m[1]*y, m[2]*x + m[3]*y
}

// transforms - T = Scale^-1 * Rotation, used to step from destination to source, and
// its inverse, used to size the destination
func (rs RotationScale) transforms() (matrix2, matrix2) {
	rad := rs.RotationDegrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	fwd := matrix2{
		cos / rs.ScaleX, -sin / rs.ScaleX,
		sin / rs.ScaleY, cos / rs.ScaleY,
	}

	// Rotation^-1 is its transpose, so T^-1 = Rotation^T * Scale
	inv := matrix2{
		cos * rs.ScaleX, sin * rs.ScaleY,
		-sin * rs.ScaleX, cos * rs.ScaleY,
	}
	return fwd, inv
}

// extent - width/height of the bounding box of the source corners pushed through T^-1
func (rs RotationScale) extent(src Shape) (float64, float64) {
	_, inv := rs.transforms()

	halfW := float64(src.Cols) / 2
	halfH := float64(src.Rows) / 2

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range []Point2D{{-halfW, -halfH}, {halfW, -halfH}, {-halfW, halfH}, {halfW, halfH}} {
		x, y := inv.apply(corner.X, corner.Y)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	return maxX - minX, maxY - minY
}

// CanvasShape - size of the destination image needed to contain the whole rotated
// and scaled source
func CanvasShape(src Shape, rs RotationScale) (Shape, error) {
	if err := src.validate("source"); err != nil {
		return Shape{}, err
	}

	w, h := rs.extent(src)
	result := Shape{
		Rows: int(h + canvasTolerance),
		Cols: int(w + canvasTolerance),
	}

	if result.Rows < 1 || result.Cols < 1 {
		return result, warperror.MakeValidationError("rotation %v, scale (%v, %v) shrinks %vx%v source to an empty %vx%v canvas", rs.RotationDegrees, rs.ScaleX, rs.ScaleY, src.Rows, src.Cols, result.Rows, result.Cols)
	}
	return result, nil
}

// BuildRotationScaleMap - map for rotating the source image about its centre and scaling
// it. The destination canvas is sized to contain the whole transformed source. Each
// destination pixel is centred on the canvas, stepped back through T and offset by the
// source centre. Y is flipped on the way in and out so positive rotation turns the image
// the same way it would on a y-up plot
func BuildRotationScaleMap(src Shape, rs RotationScale, opts Options) (*CoordinateMap, error) {
	canvas, err := CanvasShape(src, rs)
	if err != nil {
		return nil, err
	}

	result, err := NewCoordinateMap(canvas)
	if err != nil {
		return nil, err
	}

	fwd, _ := rs.transforms()
	w, h := rs.extent(src)
	canvasCtrX, canvasCtrY := w/2, h/2
	srcCtrX, srcCtrY := float64(src.Cols)/2, float64(src.Rows)/2

	err = utils.ParallelRows(canvas.Rows, opts.Workers, func(row int) error {
		qy := canvasCtrY - float64(row)
		for col := 0; col < canvas.Cols; col++ {
			qx := float64(col) - canvasCtrX
			mx, my := fwd.apply(qx, qy)
			result.Set(row, col, mx+srcCtrX, srcCtrY-my)
		}
		return nil
	})

	return result, err
}
