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

// Resamples a source image through a coordmap.CoordinateMap, producing a destination
// image normalised to [0, 1). Only nearest neighbour sampling is supported, with
// constant or replicated edges for coordinates that fall outside the source
package remap

import (
	"github.com/pixlise/imagewarp/core/warperror"
)

// MaxBitDepth - samples are stored as uint16
const MaxBitDepth = 16

// Image - rows x cols x channels grid of samples, row-major with channels interleaved.
// Valid samples are in [0, 2^BitDepth)
type Image struct {
	Rows     int
	Cols     int
	Channels int
	BitDepth int
	Pix      []uint16
}

func checkDims(rows int, cols int, channels int, bitDepth int) error {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		return warperror.MakeValidationError("image dimensions must be positive, got %vx%vx%v", rows, cols, channels)
	}
	if bitDepth < 1 || bitDepth > MaxBitDepth {
		return warperror.MakeValidationError("bit depth must be between 1 and %v, got %v", MaxBitDepth, bitDepth)
	}
	return nil
}

// NewImage - allocates an all-zero image
func NewImage(rows int, cols int, channels int, bitDepth int) (*Image, error) {
	if err := checkDims(rows, cols, channels, bitDepth); err != nil {
		return nil, err
	}

	return &Image{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		BitDepth: bitDepth,
		Pix:      make([]uint16, rows*cols*channels),
	}, nil
}

// NewImageFromSamples - wraps an existing sample buffer (not copied), checking it fits
func NewImageFromSamples(rows int, cols int, channels int, bitDepth int, samples []uint16) (*Image, error) {
	img := &Image{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		BitDepth: bitDepth,
		Pix:      samples,
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// MaxCount - 2^BitDepth, one more than the largest valid sample
func (img *Image) MaxCount() int {
	return 1 << uint(img.BitDepth)
}

// Validate - dimensions, buffer size and every sample against the bit depth
func (img *Image) Validate() error {
	if img == nil {
		return warperror.MakeValidationError("image is nil")
	}
	if err := checkDims(img.Rows, img.Cols, img.Channels, img.BitDepth); err != nil {
		return err
	}
	if n := img.Rows * img.Cols * img.Channels; len(img.Pix) != n {
		return warperror.MakeValidationError("%vx%vx%v image needs %v samples, has %v", img.Rows, img.Cols, img.Channels, n, len(img.Pix))
	}

	maxCount := img.MaxCount()
	for i, v := range img.Pix {
		if int(v) >= maxCount {
			return warperror.MakeValidationError("sample %v value %v exceeds %v bit range", i, v, img.BitDepth)
		}
	}
	return nil
}

func (img *Image) At(row int, col int, channel int) uint16 {
	return img.Pix[(row*img.Cols+col)*img.Channels+channel]
}

func (img *Image) Set(row int, col int, channel int, value uint16) {
	img.Pix[(row*img.Cols+col)*img.Channels+channel] = value
}

// Normalized - resampler output, every sample divided by the source's 2^BitDepth
type Normalized struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []float64
}

func newNormalized(rows int, cols int, channels int) *Normalized {
	return &Normalized{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]float64, rows*cols*channels),
	}
}

func (n *Normalized) At(row int, col int, channel int) float64 {
	return n.Pix[(row*n.Cols+col)*n.Channels+channel]
}
