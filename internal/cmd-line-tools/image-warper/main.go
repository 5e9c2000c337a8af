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
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pixlise/imagewarp/core/awsutil"
	"github.com/pixlise/imagewarp/core/config"
	"github.com/pixlise/imagewarp/core/services"
	"github.com/pixlise/imagewarp/core/utils"
	"github.com/pixlise/imagewarp/core/warpjob"
	"github.com/prometheus/client_golang/prometheus"
)

var Version = "local-build"

const (
	sourceLocal = "local"
	sourceS3    = "s3"
	sourceQueue = "queue"
)

func main() {
	var configPath, jobPath, source, bucket, metricsFile string

	flag.StringVar(&configPath, "config", "", "Path to config JSON (optional, IMAGEWARP_CONFIG_* env vars apply either way)")
	flag.StringVar(&jobPath, "job", "", "Path to warp job request JSON")
	flag.StringVar(&source, "source", sourceLocal, "Where job files live: local, s3 or queue (send the job to the warp lambda)")
	flag.StringVar(&bucket, "bucket", "", "Bucket (s3) or root directory (local) job paths are relative to. Defaults to config InputBucket for s3, current dir for local")
	flag.StringVar(&metricsFile, "metrics-file", "", "If set, job metrics are written here in prometheus text format")

	flag.Parse()

	if len(jobPath) <= 0 {
		log.Fatalf("Parameter: job was empty")
	}
	if source != sourceLocal && source != sourceS3 && source != sourceQueue {
		log.Fatalf("Parameter: source must be one of %v, %v, %v, got: %v", sourceLocal, sourceS3, sourceQueue, source)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	req, err := readRequest(jobPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	svcs, err := services.InitServices(ctx, cfg, source == sourceS3, fmt.Sprintf("cli-%v", time.Now().Format("2006-01-02")), Version)
	if err != nil {
		log.Fatalf("Failed to init services: %v", err)
	}
	defer svcs.Close(ctx)

	if source == sourceQueue {
		msgID, err := awsutil.SendJSONMessage(svcs.SQS, cfg.JobSqsQueueUrl, req)
		if err != nil {
			svcs.ReportError(err)
			log.Fatalf("Failed to queue job: %v", err)
		}
		fmt.Printf("Queued job %v as message %v\n", req.JobID, msgID)
		return
	}

	if len(bucket) <= 0 {
		bucket = "."
		if source == sourceS3 {
			bucket = cfg.InputBucket
		}
	}

	result, runErr := svcs.Runner.Run(ctx, bucket, req)
	printResult(result)

	if len(metricsFile) > 0 {
		if err := prometheus.WriteToTextfile(metricsFile, svcs.Registry); err != nil {
			svcs.Log.Errorf("Failed to write metrics to %v: %v", metricsFile, err)
		}
	}

	if runErr != nil {
		svcs.ReportError(runErr)
		svcs.Close(ctx)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (config.WarperConfig, error) {
	if len(configPath) > 0 {
		return config.NewConfigFromFile(configPath)
	}
	return config.NewConfigFromJSON(nil)
}

func readRequest(jobPath string) (warpjob.Request, error) {
	var req warpjob.Request

	data, err := os.ReadFile(jobPath)
	if err != nil {
		return req, fmt.Errorf("failed to read job file %v: %v", jobPath, err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse job file %v: %v", jobPath, err)
	}
	return req, nil
}

func printResult(result *warpjob.Result) {
	out, err := json.MarshalIndent(result, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		log.Printf("Failed to print result: %v", err)
		return
	}
	fmt.Println(string(out))
}
