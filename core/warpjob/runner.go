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

package warpjob

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/pixlise/imagewarp/core/coordmap"
	"github.com/pixlise/imagewarp/core/fileaccess"
	"github.com/pixlise/imagewarp/core/idgen"
	"github.com/pixlise/imagewarp/core/imageedit"
	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/pointsfile"
	"github.com/pixlise/imagewarp/core/remap"
	"github.com/pixlise/imagewarp/core/timestamper"
	"github.com/pixlise/imagewarp/core/utils"
	"github.com/pixlise/imagewarp/core/warperror"
	"github.com/pkg/errors"
)

// Stage names, as used for timings and the stage duration metric
const (
	StageLoad   = "load"
	StageMap    = "map"
	StageRemap  = "remap"
	StageEncode = "encode"
	StageWrite  = "write"
)

const defaultPreviewWidth = 400

// Runner - runs warp jobs against one file store. Metrics, Store, IDGen and TimeStamper are
// optional
type Runner struct {
	FS          fileaccess.FileAccess
	Log         logger.ILogger
	Metrics     *Metrics
	Store       ResultStore
	IDGen       idgen.IDGenerator
	TimeStamper timestamper.ITimeStamper

	// Goroutines per map build/resample, 0 = one per CPU
	Workers int

	// Preview images are scaled to this width, 0 = 400
	PreviewWidth int

	// If set, output formats not listed here are rejected
	AllowedOutputFormats []string
}

// Everything one job run carries between stages
type jobState struct {
	req    Request
	bucket string
	result *Result

	src      *remap.Image
	mapImage image.Image
	dest     coordmap.Shape
	gcps     coordmap.CorrespondenceSet
	coordMap *coordmap.CoordinateMap
	warped   image.Image

	encoded map[string][]byte // path -> bytes
}

// Run - runs one job. A Result is always returned (and stored, if there's a Store), with
// Status error if anything failed, in which case the error is returned too
func (r *Runner) Run(ctx context.Context, bucket string, req Request) (*Result, error) {
	log := logger.OrNull(r.Log)

	state := &jobState{
		bucket:  bucket,
		result:  &Result{JobID: req.JobID, Method: req.Method, StageTimingsMs: map[string]int64{}},
		encoded: map[string][]byte{},
	}

	err := r.runStages(ctx, req, state)
	if err != nil {
		state.result.fail(err)
		log.Errorf("Job %v failed: %v", state.result.JobID, err)
	} else {
		state.result.Status = StatusComplete
		log.Infof("Job %v complete, wrote %v", state.result.JobID, state.result.OutputPath)
	}

	state.result.CompletedUnixSec = r.now()
	r.Metrics.countJob(state.result.Method, state.result.Status)

	if r.Store != nil {
		if storeErr := r.Store.Save(ctx, state.result); storeErr != nil {
			log.Errorf("Failed to store result for job %v: %v", state.result.JobID, storeErr)
			if err == nil {
				err = storeErr
			}
		}
	}

	return state.result, err
}

func (r *Runner) now() int64 {
	if r.TimeStamper == nil {
		return time.Now().Unix()
	}
	return r.TimeStamper.GetTimeNowSec()
}

func (r *Runner) runStages(ctx context.Context, req Request, state *jobState) error {
	resolved, err := req.Resolve(r.IDGen)
	state.result.JobID = resolved.JobID
	state.result.Method = resolved.Method
	if err != nil {
		return err
	}

	if len(r.AllowedOutputFormats) > 0 && !allowed(r.AllowedOutputFormats, resolved.OutputFormat) {
		return warperror.MakeValidationError("job %v: output format %v not allowed", resolved.JobID, resolved.OutputFormat)
	}

	state.req = resolved

	stages := []struct {
		name string
		run  func(*jobState) error
	}{
		{StageLoad, r.load},
		{StageMap, r.buildMap},
		{StageRemap, r.resample},
		{StageEncode, r.encode},
		{StageWrite, r.write},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "job %v cancelled before %v", resolved.JobID, stage.name)
		}

		start := time.Now()
		err := stage.run(state)
		took := time.Since(start)

		state.result.StageTimingsMs[stage.name] = took.Milliseconds()
		r.Metrics.observeStage(stage.name, took)

		if err != nil {
			return err
		}
	}

	return nil
}

func allowed(formats []string, format string) bool {
	canonical := make([]string, 0, len(formats))
	for _, f := range formats {
		canonical = append(canonical, outputFormats[strings.ToLower(strings.TrimSpace(f))])
	}
	return utils.ItemInSlice(format, canonical)
}

func (r *Runner) readObject(state *jobState, p string) ([]byte, error) {
	bucket, objPath, err := fileaccess.ResolvePath(state.bucket, p)
	if err != nil {
		return nil, warperror.MakeValidationError("%v", err)
	}

	data, err := r.FS.ReadObject(bucket, objPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", p)
	}
	return data, nil
}

func (r *Runner) readImage(state *jobState, p string) (image.Image, error) {
	data, err := r.readObject(state, p)
	if err != nil {
		return nil, err
	}

	img, _, err := imageedit.DecodeImage(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image %v", p)
	}
	return img, nil
}

func (r *Runner) load(state *jobState) error {
	req := state.req

	srcImg, err := r.readImage(state, req.SourceImage)
	if err != nil {
		return err
	}

	state.src = imageedit.FromImage(srcImg)
	state.result.SourceRows = state.src.Rows
	state.result.SourceCols = state.src.Cols
	state.result.Channels = state.src.Channels
	state.result.BitDepth = state.src.BitDepth

	if len(req.MapImage) > 0 {
		state.mapImage, err = r.readImage(state, req.MapImage)
		if err != nil {
			return err
		}
		b := state.mapImage.Bounds()
		state.dest = coordmap.Shape{Rows: b.Dy(), Cols: b.Dx()}
	}
	if req.MapShape != nil {
		state.dest = *req.MapShape
	}

	if req.Points != nil {
		state.gcps = *req.Points
	} else if len(req.PointsFile) > 0 {
		data, err := r.readObject(state, req.PointsFile)
		if err != nil {
			return err
		}

		if req.Method == MethodHomography {
			state.gcps, err = pointsfile.ParseQuadText(data)
		} else {
			state.gcps, err = pointsfile.ParseGCPText(data)
		}
		if err != nil {
			return errors.Wrapf(err, "points file %v", req.PointsFile)
		}
	}

	return nil
}

func (r *Runner) buildMap(state *jobState) error {
	req := state.req
	opts := coordmap.Options{Workers: r.Workers, Log: r.Log}

	var err error
	switch req.Method {
	case MethodPolynomial:
		var warp *coordmap.PolynomialWarp
		warp, err = coordmap.FitPolynomial(state.gcps, req.Order)
		if err != nil {
			return err
		}

		state.result.RMSResidual, err = warp.RMSResidual(state.gcps)
		if err != nil {
			return err
		}

		state.coordMap, err = warp.BuildMap(state.dest, opts)
	case MethodHomography:
		state.coordMap, err = coordmap.BuildHomographyMap(state.dest, state.gcps.Source, state.gcps.Destination, opts)
	case MethodRotationScale:
		rs := coordmap.ResolveRotationScale(req.RotationDegrees, req.Scale, r.Log)
		state.coordMap, err = coordmap.BuildRotationScaleMap(coordmap.Shape{Rows: state.src.Rows, Cols: state.src.Cols}, rs, opts)
	}

	if err != nil {
		return err
	}

	state.result.MapRows = state.coordMap.Rows
	state.result.MapCols = state.coordMap.Cols
	return nil
}

func (r *Runner) resample(state *jobState) error {
	opts := state.req.remapOptions()
	opts.Workers = r.Workers
	opts.Log = r.Log

	norm, err := remap.Remap(state.src, state.coordMap, opts)
	if err != nil {
		return err
	}

	state.warped, err = imageedit.ToImage(norm, state.src.BitDepth)
	return err
}

func (r *Runner) encode(state *jobState) error {
	req := state.req

	data, err := imageedit.GetImageBytes(state.warped, req.OutputFormat)
	if err != nil {
		return err
	}
	state.encoded[req.OutputPath] = data
	state.result.OutputPath = req.OutputPath

	if len(req.CompositePath) > 0 {
		if state.mapImage == nil {
			logger.OrNull(r.Log).Errorf("Job %v: no map image to composite on, skipping %v", req.JobID, req.CompositePath)
		} else {
			composite := imageedit.Composite(state.mapImage, state.warped)
			if state.encoded[req.CompositePath], err = imageedit.GetImageBytes(composite, req.OutputFormat); err != nil {
				return err
			}
			state.result.CompositePath = req.CompositePath
		}
	}

	if len(req.PreviewPath) > 0 {
		width := r.PreviewWidth
		if width <= 0 {
			width = defaultPreviewWidth
		}
		preview := imageedit.ScaleImage(state.warped, width)
		if state.encoded[req.PreviewPath], err = imageedit.GetImageBytes(preview, "png"); err != nil {
			return err
		}
		state.result.PreviewPath = req.PreviewPath
	}

	return nil
}

func (r *Runner) write(state *jobState) error {
	for p, data := range state.encoded {
		bucket, objPath, err := fileaccess.ResolvePath(state.bucket, p)
		if err != nil {
			return warperror.MakeValidationError("%v", err)
		}
		if err := r.FS.WriteObject(bucket, objPath, data); err != nil {
			return errors.Wrapf(err, "failed to write %v", p)
		}
	}
	return nil
}
