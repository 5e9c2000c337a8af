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

// Everything a warp job runner needs, built from config the same way for the command line
// tool and the lambda
package services

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/getsentry/sentry-go"
	"github.com/pixlise/imagewarp/core/awsutil"
	"github.com/pixlise/imagewarp/core/config"
	"github.com/pixlise/imagewarp/core/fileaccess"
	"github.com/pixlise/imagewarp/core/idgen"
	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/mongoDBConnection"
	"github.com/pixlise/imagewarp/core/timestamper"
	"github.com/pixlise/imagewarp/core/warpjob"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
)

const dbName = "imagewarp"

// Where FileResultStore puts results when there's no mongo
const resultsPrefix = "results"

type WarpServices struct {
	Config config.WarperConfig
	Log    logger.ILogger

	// nil when running purely locally
	AWSSession *session.Session
	SQS        sqsiface.SQSAPI

	FS          fileaccess.FileAccess
	MongoClient *mongo.Client

	Registry *prometheus.Registry
	Runner   *warpjob.Runner

	cloudwatchLog *logger.CloudwatchLogger
}

func needsAWS(cfg config.WarperConfig, useS3 bool) bool {
	return useS3 || len(cfg.JobSqsQueueUrl) > 0 || len(cfg.MongoSecret) > 0 || len(cfg.CloudwatchLogGroup) > 0
}

// InitServices - useS3 picks S3 over the local file system for job inputs/outputs. logStream
// names the cloudwatch stream if CloudwatchLogGroup is configured
func InitServices(ctx context.Context, cfg config.WarperConfig, useS3 bool, logStream string, release string) (*WarpServices, error) {
	stdLog := &logger.StdOutLogger{}
	stdLog.SetLogLevel(cfg.GetLogLevel())

	svcs := &WarpServices{
		Config:   cfg,
		Log:      stdLog,
		FS:       &fileaccess.FSAccess{},
		Registry: prometheus.NewRegistry(),
	}

	if needsAWS(cfg, useS3) {
		sess, err := awsutil.GetSession()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS session")
		}
		svcs.AWSSession = sess
		svcs.SQS = awsutil.GetSQS(sess)

		if useS3 {
			svcs.FS = fileaccess.MakeS3Access(awsutil.GetS3(sess))
		}

		if len(cfg.CloudwatchLogGroup) > 0 {
			cwLog, err := logger.InitCloudwatchLogger(awsutil.GetCloudwatchLogs(sess), cfg.EnvironmentName, cfg.CloudwatchLogGroup, logStream, cfg.GetLogLevel())
			if err != nil {
				stdLog.Errorf("Cloudwatch logging disabled: %v", err)
			} else {
				svcs.cloudwatchLog = cwLog
				svcs.Log = cwLog
			}
		}
	}

	InitSentry(cfg, release, svcs.Log)

	store, err := svcs.makeResultStore(ctx)
	if err != nil {
		return nil, err
	}

	svcs.Runner = NewRunner(cfg, svcs.FS, svcs.Log, store, svcs.Registry)
	return svcs, nil
}

// InitSentry - no-op without a SentryEndpoint
func InitSentry(cfg config.WarperConfig, release string, log logger.ILogger) {
	if len(cfg.SentryEndpoint) <= 0 {
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryEndpoint,
		Environment: cfg.EnvironmentName,
		Release:     release,
	}); err != nil {
		log.Errorf("Sentry initialization failed: %v", err)
	}
}

func (s *WarpServices) makeResultStore(ctx context.Context) (warpjob.ResultStore, error) {
	if !s.Config.StoreResults {
		return nil, nil
	}

	if len(s.Config.MongoURI) > 0 || len(s.Config.MongoSecret) > 0 {
		client, err := mongoDBConnection.Connect(ctx, s.AWSSession, s.Config.MongoSecret, s.Config.MongoURI, s.Log)
		if err != nil {
			return nil, err
		}
		s.MongoClient = client

		coll := client.Database(mongoDBConnection.GetDatabaseName(dbName, s.Config.EnvironmentName)).Collection(s.Config.ResultCollection)
		return warpjob.NewMongoResultStore(coll, s.Log), nil
	}

	return &warpjob.FileResultStore{FS: s.FS, Bucket: s.Config.OutputBucket, Prefix: resultsPrefix}, nil
}

// NewRunner - job runner wired to config. store and reg can be nil
func NewRunner(cfg config.WarperConfig, fs fileaccess.FileAccess, log logger.ILogger, store warpjob.ResultStore, reg prometheus.Registerer) *warpjob.Runner {
	runner := &warpjob.Runner{
		FS:                   fs,
		Log:                  log,
		Store:                store,
		IDGen:                &idgen.IDGen{},
		TimeStamper:          &timestamper.UnixTimeNowStamper{},
		Workers:              int(cfg.Workers),
		PreviewWidth:         int(cfg.PreviewWidth),
		AllowedOutputFormats: cfg.AllowedOutputFormats,
	}
	if reg != nil {
		runner.Metrics = warpjob.NewMetrics(reg)
	}
	return runner
}

// Close - flushes logs and error reports, disconnects from mongo
func (s *WarpServices) Close(ctx context.Context) {
	if s.MongoClient != nil {
		if err := s.MongoClient.Disconnect(ctx); err != nil {
			s.Log.Errorf("Mongo disconnect failed: %v", err)
		}
	}

	if s.cloudwatchLog != nil {
		if err := s.cloudwatchLog.Close(); err != nil {
			// Nowhere else to report it
			log.Printf("Failed to flush cloudwatch logs: %v", err)
		}
	}

	if len(s.Config.SentryEndpoint) > 0 {
		sentry.Flush(2 * time.Second)
	}
}

// ReportError - logs, and sends to sentry if configured
func (s *WarpServices) ReportError(err error) {
	s.Log.Errorf("%v", err)
	if len(s.Config.SentryEndpoint) > 0 {
		sentry.CaptureException(err)
	}
}
