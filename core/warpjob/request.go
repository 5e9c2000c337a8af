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

// Runs image warp jobs: reads the images and points a Request names, builds the coordinate
// map, resamples and writes the outputs, recording a Result
package warpjob

import (
	"path"
	"strings"

	"github.com/pixlise/imagewarp/core/coordmap"
	"github.com/pixlise/imagewarp/core/idgen"
	"github.com/pixlise/imagewarp/core/remap"
	"github.com/pixlise/imagewarp/core/warperror"
)

type Method string

const (
	MethodPolynomial    Method = "polynomial"
	MethodHomography    Method = "homography"
	MethodRotationScale Method = "rotation-scale"
)

var outputFormats = map[string]string{
	"png":  "png",
	"jpg":  "jpeg",
	"jpeg": "jpeg",
	"tif":  "tiff",
	"tiff": "tiff",
	"bmp":  "bmp",
}

// Request - a warp job as submitted on the queue or read from a job file. Paths are relative
// to the bucket (or root dir) the job runs against, or full s3:// urls
type Request struct {
	JobID  string `json:"jobId"`
	Method Method `json:"method"`

	// Image being warped
	SourceImage string `json:"sourceImage"`

	// Image the source is being registered to. Its size is the output size for polynomial
	// and homography warps, and composites are drawn on it. MapShape can give the size
	// instead when no composite is wanted
	MapImage string          `json:"mapImage,omitempty"`
	MapShape *coordmap.Shape `json:"mapShape,omitempty"`

	// Correspondences, inline or as a points file. Source points are in SourceImage,
	// destination points in the map image
	PointsFile string                      `json:"pointsFile,omitempty"`
	Points     *coordmap.CorrespondenceSet `json:"points,omitempty"`

	// Polynomial only
	Order int `json:"order,omitempty"`

	// Rotation + scale only
	RotationDegrees float64   `json:"rotationDegrees,omitempty"`
	Scale           []float64 `json:"scale,omitempty"`

	Interpolation string `json:"interpolation,omitempty"`
	BorderMode    string `json:"borderMode,omitempty"`
	BorderValue   []int  `json:"borderValue,omitempty"`

	OutputPath    string `json:"outputPath"`
	CompositePath string `json:"compositePath,omitempty"`
	PreviewPath   string `json:"previewPath,omitempty"`

	// png, jpeg, tiff or bmp. Defaults from the OutputPath extension, then png
	OutputFormat string `json:"outputFormat,omitempty"`
}

// Resolve - checks the request makes sense for its method and fills in defaults. Everything
// wrong with it is a ValidationError
func (r Request) Resolve(ids idgen.IDGenerator) (Request, error) {
	result := r

	result.JobID = strings.TrimSpace(r.JobID)
	if len(result.JobID) <= 0 {
		if ids == nil {
			return result, warperror.MakeValidationError("job id is required")
		}
		result.JobID = ids.GenObjectID()
	}

	result.Method = Method(strings.ToLower(strings.TrimSpace(string(r.Method))))

	if len(r.SourceImage) <= 0 {
		return result, warperror.MakeValidationError("job %v: source image is required", result.JobID)
	}
	if len(r.OutputPath) <= 0 {
		return result, warperror.MakeValidationError("job %v: output path is required", result.JobID)
	}

	switch result.Method {
	case MethodPolynomial, MethodHomography:
		if len(r.MapImage) <= 0 && r.MapShape == nil {
			return result, warperror.MakeValidationError("job %v: %v warp needs a map image or map shape", result.JobID, result.Method)
		}
		if (r.Points == nil) == (len(r.PointsFile) <= 0) {
			return result, warperror.MakeValidationError("job %v: %v warp needs either points or a points file", result.JobID, result.Method)
		}
		if result.Method == MethodPolynomial {
			if r.Order == 0 {
				result.Order = 1
			}
			if result.Order < 1 {
				return result, warperror.MakeValidationError("job %v: polynomial order must be at least 1, got %v", result.JobID, r.Order)
			}
		}
	case MethodRotationScale:
		if len(r.Scale) <= 0 {
			result.Scale = []float64{1}
		}
		if len(r.CompositePath) > 0 && len(r.MapImage) <= 0 {
			return result, warperror.MakeValidationError("job %v: composite needs a map image", result.JobID)
		}
	default:
		return result, warperror.MakeValidationError("job %v: unknown warp method: \"%v\"", result.JobID, r.Method)
	}

	if _, err := remap.ParseInterpolation(r.Interpolation); err != nil {
		return result, err
	}
	if _, err := remap.ParseBorderMode(r.BorderMode); err != nil {
		return result, err
	}

	format := strings.ToLower(strings.TrimSpace(r.OutputFormat))
	if len(format) <= 0 {
		format = strings.TrimPrefix(strings.ToLower(path.Ext(r.OutputPath)), ".")
		if _, ok := outputFormats[format]; !ok {
			format = "png"
		}
	}

	ok := false
	if result.OutputFormat, ok = outputFormats[format]; !ok {
		return result, warperror.MakeValidationError("job %v: unsupported output format: %v", result.JobID, r.OutputFormat)
	}

	return result, nil
}

// remapOptions - names already checked by Resolve
func (r Request) remapOptions() remap.Options {
	interp, _ := remap.ParseInterpolation(r.Interpolation)
	border, _ := remap.ParseBorderMode(r.BorderMode)
	return remap.Options{
		Interpolation: interp,
		BorderMode:    border,
		BorderValue:   r.BorderValue,
	}
}
