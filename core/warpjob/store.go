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
	"path"
	"sync"

	"github.com/pixlise/imagewarp/core/fileaccess"
	"github.com/pkg/errors"
)

// ErrResultNotFound - returned (possibly wrapped) by ResultStore.Get
var ErrResultNotFound = errors.New("result not found")

// ResultStore - somewhere to keep job results so callers can look them up after the job ran
type ResultStore interface {
	Save(ctx context.Context, result *Result) error
	Get(ctx context.Context, jobID string) (*Result, error)
}

// MemoryResultStore - for tests and one-off command line runs
type MemoryResultStore struct {
	mutex   sync.Mutex
	results map[string]Result
}

func (s *MemoryResultStore) Save(ctx context.Context, result *Result) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.results == nil {
		s.results = map[string]Result{}
	}
	s.results[result.JobID] = *result
	return nil
}

func (s *MemoryResultStore) Get(ctx context.Context, jobID string) (*Result, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	r, ok := s.results[jobID]
	if !ok {
		return nil, errors.Wrapf(ErrResultNotFound, "job %v", jobID)
	}
	return &r, nil
}

// FileResultStore - results as JSON files, <Prefix>/<job id>.json in Bucket
type FileResultStore struct {
	FS     fileaccess.FileAccess
	Bucket string
	Prefix string
}

func (s *FileResultStore) resultPath(jobID string) string {
	return path.Join(s.Prefix, jobID+".json")
}

func (s *FileResultStore) Save(ctx context.Context, result *Result) error {
	return s.FS.WriteJSON(s.Bucket, s.resultPath(result.JobID), result)
}

func (s *FileResultStore) Get(ctx context.Context, jobID string) (*Result, error) {
	var result Result
	err := s.FS.ReadJSON(s.Bucket, s.resultPath(jobID), &result, false)
	if err != nil {
		if s.FS.IsNotFoundError(err) {
			return nil, errors.Wrapf(ErrResultNotFound, "job %v", jobID)
		}
		return nil, err
	}
	return &result, nil
}
