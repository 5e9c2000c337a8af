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

// Image warper configuration as read from JSON, with per-field environment variable overrides
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pkg/errors"
)

// EnvPrefix - any field can be overridden by an env var named EnvPrefix+FieldName
const EnvPrefix = "IMAGEWARP_CONFIG_"

// WarperConfig combines env vars and config JSON values
type WarperConfig struct {
	EnvironmentName string

	LogLevel string // DEBUG, INFO or ERROR

	// Max goroutines building maps and resampling. 0 = one per CPU
	Workers int32

	InputBucket  string
	OutputBucket string

	// Where the command line tool queues jobs for the lambda
	JobSqsQueueUrl string

	// Mongo Connection. MongoURI is for local/test instances, otherwise MongoSecret names the
	// secrets manager entry holding the remote credentials. Neither set = results not stored
	MongoSecret      string
	MongoURI         string
	ResultCollection string

	SentryEndpoint string

	CloudwatchLogGroup string

	// Width of the preview image written alongside outputs
	PreviewWidth uint

	// Output formats accepted in job requests, comma separated when set from env
	AllowedOutputFormats []string

	StoreResults bool
}

func defaultConfig() WarperConfig {
	return WarperConfig{
		LogLevel:             logger.LogInfo.String(),
		ResultCollection:     "warpResults",
		PreviewWidth:         400,
		AllowedOutputFormats: []string{"png", "tiff", "jpeg", "bmp"},
		StoreResults:         true,
	}
}

// NewConfigFromFile - reads JSON config, then applies env var overrides
func NewConfigFromFile(configFilePath string) (WarperConfig, error) {
	configJSON, err := os.ReadFile(configFilePath)
	if err != nil {
		return defaultConfig(), errors.Wrapf(err, "could not read config file at %s", configFilePath)
	}
	return NewConfigFromJSON(configJSON)
}

// NewConfigFromJSON - parses JSON config, then applies env var overrides. Empty input gives
// defaults + overrides
func NewConfigFromJSON(configJSON []byte) (WarperConfig, error) {
	return buildConfig(configJSON, os.LookupEnv)
}

func buildConfig(configJSON []byte, lookupEnv func(string) (string, bool)) (WarperConfig, error) {
	cfg := defaultConfig()

	if len(strings.TrimSpace(string(configJSON))) > 0 {
		err := json.Unmarshal(configJSON, &cfg)
		if err != nil {
			return cfg, errors.Wrap(err, "failed to parse config")
		}
	}

	// Override Config with any values explicitly set in Env Vars (IMAGEWARP_CONFIG_*)
	// NOTE: For []string slices, pass in a comma-separated string
	reflection := reflect.ValueOf(&cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)
		envName := EnvPrefix + fieldName

		val, present := lookupEnv(envName)
		if !present {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				slicedVal := strings.Split(val, ",")
				field.Set(reflect.ValueOf(slicedVal))
			}
		case reflect.Int32:
			i, err := strconv.ParseInt(val, 10, 32)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %s=%s to int32", envName, val)
			}
			field.SetInt(i)
		case reflect.Uint:
			u, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %s=%s to uint", envName, val)
			}
			field.SetUint(u)
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return cfg, fmt.Errorf("could not cast value %s=%s to bool", envName, val)
			}
			field.SetBool(b)
		}
	}

	if _, err := logger.GetLogLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("workers must be >= 0, got %v", cfg.Workers)
	}

	return cfg, nil
}

// GetLogLevel - configured level, already checked when the config was built
func (c WarperConfig) GetLogLevel() logger.LogLevel {
	level, err := logger.GetLogLevel(c.LogLevel)
	if err != nil {
		return logger.LogInfo
	}
	return level
}

// IsOutputFormatAllowed - case insensitive check against AllowedOutputFormats
func (c WarperConfig) IsOutputFormatAllowed(format string) bool {
	for _, f := range c.AllowedOutputFormats {
		if strings.EqualFold(strings.TrimSpace(f), format) {
			return true
		}
	}
	return false
}
