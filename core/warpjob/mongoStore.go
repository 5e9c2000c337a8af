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

	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoResultStore - one document per job, keyed by job id. Re-running a job replaces its result
type MongoResultStore struct {
	coll *mongo.Collection
	log  logger.ILogger
}

func NewMongoResultStore(coll *mongo.Collection, log logger.ILogger) *MongoResultStore {
	return &MongoResultStore{coll: coll, log: logger.OrNull(log)}
}

func (s *MongoResultStore) Save(ctx context.Context, result *Result) error {
	filter := bson.D{{Key: "_id", Value: result.JobID}}
	opt := options.Replace().SetUpsert(true)

	replaceResult, err := s.coll.ReplaceOne(ctx, filter, result, opt)
	if err != nil {
		return errors.Wrapf(err, "failed to save result for job %v", result.JobID)
	}

	if replaceResult.MatchedCount != 1 && replaceResult.UpsertedCount != 1 {
		s.log.Errorf("Save result had unexpected counts %+v id: %v", replaceResult, result.JobID)
	}
	return nil
}

func (s *MongoResultStore) Get(ctx context.Context, jobID string) (*Result, error) {
	dbResult := s.coll.FindOne(ctx, bson.M{"_id": jobID})
	if dbResult.Err() != nil {
		if dbResult.Err() == mongo.ErrNoDocuments {
			return nil, errors.Wrapf(ErrResultNotFound, "job %v", jobID)
		}
		return nil, dbResult.Err()
	}

	result := Result{}
	if err := dbResult.Decode(&result); err != nil {
		return nil, errors.Wrapf(err, "failed to decode result for job %v", jobID)
	}
	return &result, nil
}
