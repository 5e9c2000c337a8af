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
	"github.com/pixlise/imagewarp/core/warperror"
)

type Status string

const (
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Result - what happened to a job. Stored by job id
type Result struct {
	JobID   string `json:"jobId" bson:"_id"`
	Method  Method `json:"method" bson:"method"`
	Status  Status `json:"status" bson:"status"`
	Message string `json:"message,omitempty" bson:"message,omitempty"`

	// ValidationError, SingularMatrixError or FittingError when the warp itself failed
	ErrorKind string `json:"errorKind,omitempty" bson:"errorKind,omitempty"`

	SourceRows int `json:"sourceRows,omitempty" bson:"sourceRows,omitempty"`
	SourceCols int `json:"sourceCols,omitempty" bson:"sourceCols,omitempty"`
	Channels   int `json:"channels,omitempty" bson:"channels,omitempty"`
	BitDepth   int `json:"bitDepth,omitempty" bson:"bitDepth,omitempty"`

	MapRows int `json:"mapRows,omitempty" bson:"mapRows,omitempty"`
	MapCols int `json:"mapCols,omitempty" bson:"mapCols,omitempty"`

	// Polynomial only: RMS distance between fitted and given source points
	RMSResidual float64 `json:"rmsResidual,omitempty" bson:"rmsResidual,omitempty"`

	OutputPath    string `json:"outputPath,omitempty" bson:"outputPath,omitempty"`
	CompositePath string `json:"compositePath,omitempty" bson:"compositePath,omitempty"`
	PreviewPath   string `json:"previewPath,omitempty" bson:"previewPath,omitempty"`

	StageTimingsMs map[string]int64 `json:"stageTimingsMs,omitempty" bson:"stageTimingsMs,omitempty"`

	CompletedUnixSec int64 `json:"completedUnixSec" bson:"completedUnixSec"`
}

func (r *Result) fail(err error) {
	r.Status = StatusError
	r.Message = err.Error()
	if kind, ok := warperror.KindOf(err); ok {
		r.ErrorKind = kind.String()
	}
}
