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

package remap

import (
	"math"

	"github.com/pixlise/imagewarp/core/coordmap"
	"github.com/pixlise/imagewarp/core/utils"
	"github.com/pixlise/imagewarp/core/warperror"
	"github.com/pkg/errors"
)

// Remap - produces an image the shape of m where pixel (r, c) is the source sample at
// m's coordinate for (r, c), divided by 2^BitDepth. Coordinates are rounded to the
// nearest pixel (halves to even). Under BorderReplicate coordinates are clamped into the
// source first, so edge pixels repeat outwards. Under BorderConstant anything still
// outside the source gets the border value. Neither input is modified
func Remap(src *Image, m *coordmap.CoordinateMap, opts Options) (*Normalized, error) {
	if err := src.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid source image")
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid coordinate map")
	}

	resolved, err := ResolveOptions(opts, src)
	if err != nil {
		return nil, err
	}

	maxCount := float64(src.MaxCount())
	border := make([]float64, src.Channels)
	for c, v := range resolved.BorderValue {
		border[c] = float64(v) / maxCount
	}

	dst := newNormalized(m.Rows, m.Cols, src.Channels)
	err = utils.ParallelRows(m.Rows, resolved.Workers, func(row int) error {
		for col := 0; col < m.Cols; col++ {
			mx, my := m.At(row, col)
			out := dst.Pix[(row*m.Cols+col)*src.Channels : (row*m.Cols+col+1)*src.Channels]

			x, xOK := nearestPixel(float64(mx), src.Cols, resolved.BorderMode)
			y, yOK := nearestPixel(float64(my), src.Rows, resolved.BorderMode)
			if !xOK || !yOK {
				copy(out, border)
				continue
			}

			in := src.Pix[(y*src.Cols+x)*src.Channels:]
			for c := range out {
				out[c] = float64(in[c]) / maxCount
			}
		}
		return nil
	})

	return dst, err
}

// nearestPixel - index of the pixel nearest v along an axis of the given size, and
// whether it's inside the image. NaN is never inside, unless replicating, where it's
// pinned to the first pixel
func nearestPixel(v float64, size int, mode BorderMode) (int, bool) {
	if math.IsNaN(v) {
		return 0, mode == BorderReplicate
	}

	if mode == BorderReplicate {
		v = utils.Clamp(v, 0, float64(size-1))
	}

	r := math.RoundToEven(v)
	if r < 0 || r >= float64(size) {
		return 0, false
	}
	return int(r), true
}

// RemapToImage - convenience for callers that want integer samples back, scaling the
// normalised output by 2^bitDepth
func RemapToImage(src *Image, m *coordmap.CoordinateMap, opts Options) (*Image, error) {
	norm, err := Remap(src, m, opts)
	if err != nil {
		return nil, err
	}
	return Denormalize(norm, src.BitDepth)
}

// Denormalize - multiplies samples back up to digital counts of the given bit depth
func Denormalize(n *Normalized, bitDepth int) (*Image, error) {
	result, err := NewImage(n.Rows, n.Cols, n.Channels, bitDepth)
	if err != nil {
		return nil, err
	}

	maxCount := float64(result.MaxCount())
	for i, v := range n.Pix {
		if v < 0 || v >= 1 || math.IsNaN(v) {
			return nil, warperror.MakeValidationError("normalised sample %v value %v outside [0, 1)", i, v)
		}
		result.Pix[i] = uint16(math.Min(math.Round(v*maxCount), maxCount-1))
	}
	return result, nil
}
