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
	"fmt"
	"strings"

	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/warperror"
)

// Interpolation - sampling method. Codes match the common OpenCV numbering so job
// files written for other tools read the same
type Interpolation int

const (
	InterNearest Interpolation = iota
	InterLinear
	InterCubic
	InterArea
	InterLanczos4
)

var interpolationNames = map[Interpolation]string{
	InterNearest:  "nearest",
	InterLinear:   "linear",
	InterCubic:    "cubic",
	InterArea:     "area",
	InterLanczos4: "lanczos4",
}

func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("interpolation(%d)", int(i))
}

// BorderMode - what to sample when the map points outside the source
type BorderMode int

const (
	// BorderConstant - use Options.BorderValue
	BorderConstant BorderMode = iota
	// BorderReplicate - use the nearest edge pixel
	BorderReplicate
)

var borderModeNames = map[BorderMode]string{
	BorderConstant:  "constant",
	BorderReplicate: "replicate",
}

func (b BorderMode) String() string {
	if name, ok := borderModeNames[b]; ok {
		return name
	}
	return fmt.Sprintf("border(%d)", int(b))
}

// ParseInterpolation - name as written in job files. Empty means nearest
func ParseInterpolation(name string) (Interpolation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) <= 0 {
		return InterNearest, nil
	}
	for i, n := range interpolationNames {
		if n == name {
			return i, nil
		}
	}
	return InterNearest, warperror.MakeValidationError("unknown interpolation: %v", name)
}

// ParseBorderMode - name as written in job files. Empty means constant
func ParseBorderMode(name string) (BorderMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) <= 0 {
		return BorderConstant, nil
	}
	for b, n := range borderModeNames {
		if n == name {
			return b, nil
		}
	}
	return BorderConstant, warperror.MakeValidationError("unknown border mode: %v", name)
}

// Options - how Remap samples. The zero value is nearest neighbour with a constant 0 border
type Options struct {
	Interpolation Interpolation
	BorderMode    BorderMode
	// Per channel fill for BorderConstant, in source digital counts. Empty means 0.
	// A one element list stands in for a scalar and applies to every channel, otherwise
	// the length must match the source channel count
	BorderValue []int
	// Max goroutines resampling rows. 0 = one per CPU, 1 = no goroutines
	Workers int
	// Where fallbacks are reported. nil = discarded
	Log logger.ILogger
}

// ResolveOptions - returns options Remap can use directly against src:
// - interpolation other than nearest falls back to nearest (logged)
// - unknown border modes fall back to constant (logged)
// - border values are expanded to one per channel. Anything other than 0, 1 or
// src.Channels values, or a value outside [0, 2^BitDepth) is a ValidationError
func ResolveOptions(opts Options, src *Image) (Options, error) {
	result := opts
	result.Log = logger.OrNull(opts.Log)

	if opts.Interpolation != InterNearest {
		result.Log.Errorf("Only supports nearest neighbour interpolation, %v requested. Defaulting to that.", opts.Interpolation)
		result.Interpolation = InterNearest
	}

	if _, ok := borderModeNames[opts.BorderMode]; !ok {
		result.Log.Errorf("Unsupported border mode %v. Defaulting to constant.", opts.BorderMode)
		result.BorderMode = BorderConstant
	}

	switch len(opts.BorderValue) {
	case 0:
		result.BorderValue = make([]int, src.Channels)
	case 1:
		result.BorderValue = make([]int, src.Channels)
		for c := range result.BorderValue {
			result.BorderValue[c] = opts.BorderValue[0]
		}
	case src.Channels:
		result.BorderValue = append([]int{}, opts.BorderValue...)
	default:
		return result, warperror.MakeValidationError("border value list must be length matching number of source image channels (%v), got %v", src.Channels, len(opts.BorderValue))
	}

	maxCount := src.MaxCount()
	for _, v := range result.BorderValue {
		if v < 0 || v >= maxCount {
			return result, warperror.MakeValidationError("border value %v must be within [0, %v) for %v bit image", v, maxCount, src.BitDepth)
		}
	}

	return result, nil
}
