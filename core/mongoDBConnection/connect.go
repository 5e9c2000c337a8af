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

// Lowest-level code to connect to Mongo DB (locally via URI and remotely via secrets manager)
// and get consistent database names.
package mongoDBConnection

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect - mongoURI wins if set (local/docker instances, no auth setup needed). Otherwise the
// connection details are read from the named secret
func Connect(
	ctx context.Context,
	sess *session.Session, // Can be nil for local connection
	mongoSecret string,
	mongoURI string,
	iLog logger.ILogger,
) (*mongo.Client, error) {
	if len(mongoURI) > 0 {
		return connectWithOptions(ctx, options.Client().ApplyURI(mongoURI).SetMonitor(makeMongoCommandMonitor(iLog)), "local", iLog)
	}

	if len(mongoSecret) <= 0 {
		return nil, errors.New("no mongo URI or secret configured")
	}

	if sess == nil {
		return nil, fmt.Errorf("need an AWS session to read mongo secret \"%v\"", mongoSecret)
	}

	info, err := getMongoConnectionInfoFromSecretCache(secretsmanager.New(sess), mongoSecret)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mongo secret \"%v\" info from secrets cache", mongoSecret)
	}

	return connectToRemoteMongoDB(ctx, info, defaultCABundlePath, iLog)
}

func connectWithOptions(ctx context.Context, opts *options.ClientOptions, what string, iLog logger.ILogger) (*mongo.Client, error) {
	iLog.Infof("Connecting to %v mongo db...", what)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %v mongo DB connection", what)
	}

	// Try to ping the DB to confirm connection
	var result bson.M
	err = client.Database("admin").RunCommand(connectCtx, bson.D{{Key: "ping", Value: 1}}).Decode(&result)
	if err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrapf(err, "failed to ping %v mongo db", what)
	}

	iLog.Infof("Successfully connected to %v mongo db!", what)
	return client, nil
}

// GetDatabaseName - databases are suffixed with the environment, so dev and prod can share a cluster
func GetDatabaseName(dbName string, envName string) string {
	if len(envName) <= 0 {
		return dbName
	}
	return dbName + "-" + envName
}

func makeMongoCommandMonitor(log logger.ILogger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			log.Debugf("Mongo request: %v %v", evt.CommandName, evt.DatabaseName)
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			log.Debugf("Mongo success: %v in %v", evt.CommandName, evt.Duration)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Errorf("Mongo FAIL: %v: %v", evt.CommandName, evt.Failure)
		},
	}
}
