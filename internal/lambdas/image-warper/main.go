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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/pixlise/imagewarp/core/config"
	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/services"
	"github.com/pixlise/imagewarp/core/warperror"
	"github.com/pixlise/imagewarp/core/warpjob"
)

var Version = "lambda-build"

// Lambda containers are reused, so services are set up on the first event only
var svcs *services.WarpServices
var svcsErr error
var svcsOnce sync.Once

type jobHandler struct {
	runner *warpjob.Runner
	bucket string
	log    logger.ILogger
}

// handle - runs each record's job in turn. Records that failed for a reason that might go away
// (eg S3 read errors) are reported back so SQS retries them. Bad requests and failed fits
// are never retried
func (h jobHandler) handle(ctx context.Context, event events.SQSEvent) events.SQSEventResponse {
	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}

	for _, record := range event.Records {
		var req warpjob.Request
		if err := json.Unmarshal([]byte(record.Body), &req); err != nil {
			h.log.Errorf("Message %v is not a warp job request, dropping: %v", record.MessageId, err)
			continue
		}

		_, err := h.runner.Run(ctx, h.bucket, req)
		if err == nil {
			continue
		}

		if _, isWarpErr := warperror.KindOf(err); isWarpErr {
			h.log.Errorf("Message %v job %v failed, not retrying: %v", record.MessageId, req.JobID, err)
			continue
		}

		h.log.Errorf("Message %v job %v failed, will retry: %v", record.MessageId, req.JobID, err)
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}

	return resp
}

func initServices(ctx context.Context) (*services.WarpServices, error) {
	cfg, err := config.NewConfigFromJSON(nil)
	if err != nil {
		return nil, err
	}

	stream := time.Now().Format("2006-01-02")
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		stream = fmt.Sprintf("%v-%v", stream, lc.AwsRequestID)
	}

	return services.InitServices(ctx, cfg, true, stream, Version)
}

func HandleRequest(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	svcsOnce.Do(func() {
		svcs, svcsErr = initServices(ctx)
	})
	if svcsErr != nil {
		return events.SQSEventResponse{}, svcsErr
	}

	h := jobHandler{runner: svcs.Runner, bucket: svcs.Config.InputBucket, log: svcs.Log}
	resp := h.handle(ctx, event)

	for _, failure := range resp.BatchItemFailures {
		svcs.ReportError(fmt.Errorf("warp job message %v failed", failure.ItemIdentifier))
	}

	// Logs are buffered, make sure this invocation's get out before the container freezes
	if flusher, ok := svcs.Log.(interface{ Flush() error }); ok {
		flusher.Flush()
	}

	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
