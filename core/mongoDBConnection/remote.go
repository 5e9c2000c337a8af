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

package mongoDBConnection

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pixlise/imagewarp/core/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Shipped alongside the lambda/container for DocumentDB TLS
const defaultCABundlePath = "./rds-combined-ca-bundle.pem"

func remoteClientOptions(info MongoConnectionInfo, tlsConfig *tls.Config, iLog logger.ILogger) *options.ClientOptions {
	return options.Client().
		ApplyURI(fmt.Sprintf("mongodb://%s/", info.endpoint())).
		SetMonitor(makeMongoCommandMonitor(iLog)).
		SetTLSConfig(tlsConfig).
		SetRetryWrites(false).
		SetDirect(true).
		SetAuth(
			options.Credential{
				Username:    info.Username,
				Password:    info.Password,
				PasswordSet: true,
				AuthSource:  "admin",
			})
}

func connectToRemoteMongoDB(ctx context.Context, info MongoConnectionInfo, caFile string, iLog logger.ILogger) (*mongo.Client, error) {
	iLog.Infof("Connecting to remote mongo db: %v, user: %v", info.endpoint(), info.Username)

	tlsConfig, err := getCustomTLSConfig(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed getting TLS configuration: %v", err)
	}

	if strings.Contains(info.Host, "localhost") {
		tlsConfig.InsecureSkipVerify = true
	}

	return connectWithOptions(ctx, remoteClientOptions(info, tlsConfig, iLog), "remote", iLog)
}

func getCustomTLSConfig(caFile string) (*tls.Config, error) {
	tlsConfig := new(tls.Config)
	certs, err := os.ReadFile(caFile)
	if err != nil {
		return tlsConfig, err
	}

	tlsConfig.RootCAs = x509.NewCertPool()
	if !tlsConfig.RootCAs.AppendCertsFromPEM(certs) {
		return tlsConfig, errors.New("failed parsing pem file")
	}

	return tlsConfig, nil
}
