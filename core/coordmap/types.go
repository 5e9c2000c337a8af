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

// Builds dense coordinate maps: for every pixel of a destination image, the
// (possibly fractional) source image coordinate it should be sampled from.
// Maps can come from a polynomial fit over ground control points, a 4 point
// quad-to-quad homography or a rotation+scale transform. The remap package
// consumes them.
package coordmap

import (
	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/warperror"
)

// Point2D - an x (column), y (row) position in pixel space
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape - size of an image or map in pixels
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (s Shape) validate(what string) error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return warperror.MakeValidationError("%v shape must be positive, got %vx%v", what, s.Rows, s.Cols)
	}
	return nil
}

// CorrespondenceSet - points identified in both images. Source[i] and Destination[i]
// are the same physical feature
type CorrespondenceSet struct {
	Source      []Point2D `json:"source"`
	Destination []Point2D `json:"destination"`
}

// NewCorrespondenceSet - builds a set from 4 parallel coordinate lists, as they
// usually come out of a GCP file
func NewCorrespondenceSet(srcX, srcY, dstX, dstY []float64) (CorrespondenceSet, error) {
	result := CorrespondenceSet{}
	n := len(srcX)
	if len(srcY) != n || len(dstX) != n || len(dstY) != n {
		return result, warperror.MakeValidationError("length of GCP coordinates must match for both axes and images, got %v,%v,%v,%v", len(srcX), len(srcY), len(dstX), len(dstY))
	}

	result.Source = make([]Point2D, n)
	result.Destination = make([]Point2D, n)
	for c := 0; c < n; c++ {
		result.Source[c] = Point2D{srcX[c], srcY[c]}
		result.Destination[c] = Point2D{dstX[c], dstY[c]}
	}
	return result, nil
}

// Len - number of correspondences. Only meaningful once Validate passed
func (c CorrespondenceSet) Len() int {
	return len(c.Source)
}

// Validate - checks both sides have the same number of points and there are at least minPoints
func (c CorrespondenceSet) Validate(minPoints int) error {
	if len(c.Source) != len(c.Destination) {
		return warperror.MakeValidationError("source and destination point counts differ: %v vs %v", len(c.Source), len(c.Destination))
	}
	if len(c.Source) < minPoints {
		return warperror.MakeValidationError("at least %v point correspondences required, got %v", minPoints, len(c.Source))
	}
	return nil
}

// Options - tunables shared by all builders
type Options struct {
	// Max goroutines evaluating map rows. 0 = one per CPU, 1 = no goroutines
	Workers int
	// Where parameter fallbacks are reported. nil = discarded
	Log logger.ILogger
}
