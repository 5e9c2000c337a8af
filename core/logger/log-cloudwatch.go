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

package logger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
)

// PutLogEvents accepts at most this many events per call
const maxEventsPerPut = 10000

// CloudwatchLogger - buffers log lines and sends them to a Cloudwatch log stream
// when Flush or Close is called. Lines are also echoed to the standard log
type CloudwatchLogger struct {
	mutex    sync.Mutex
	client   cloudwatchlogsiface.CloudWatchLogsAPI
	group    string
	stream   string
	logLevel LogLevel
	pending  []*cloudwatchlogs.InputLogEvent
	now      func() time.Time
}

// InitCloudwatchLogger - ensures the log group and stream exist. The group name is
// prefixed with environment so we never mix logs of different deployments
func InitCloudwatchLogger(client cloudwatchlogsiface.CloudWatchLogsAPI, environmentName string, logGroupName string, logStreamName string, logLevel LogLevel) (*CloudwatchLogger, error) {
	group := fmt.Sprintf("/imagewarp/%v-%v", environmentName, logGroupName)

	_, err := client.CreateLogGroup(&cloudwatchlogs.CreateLogGroupInput{LogGroupName: aws.String(group)})
	if err != nil && !isAlreadyExists(err) {
		return nil, fmt.Errorf("failed to create log group %v: %v", group, err)
	}

	_, err = client.CreateLogStream(&cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(logStreamName),
	})
	if err != nil && !isAlreadyExists(err) {
		return nil, fmt.Errorf("failed to create log stream %v/%v: %v", group, logStreamName, err)
	}

	return &CloudwatchLogger{
		client:   client,
		group:    group,
		stream:   logStreamName,
		logLevel: logLevel,
		now:      time.Now,
	}, nil
}

func isAlreadyExists(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == cloudwatchlogs.ErrCodeResourceAlreadyExistsException
	}
	return false
}

func (l *CloudwatchLogger) Printf(level LogLevel, format string, a ...interface{}) {
	if l.logLevel > level {
		return
	}

	txt := formatLine(level, format, a...)
	log.Println(txt)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.pending = append(l.pending, &cloudwatchlogs.InputLogEvent{
		Message:   aws.String(txt),
		Timestamp: aws.Int64(l.now().UnixMilli()),
	})
}
func (l *CloudwatchLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}
func (l *CloudwatchLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}
func (l *CloudwatchLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

// Flush - sends everything buffered so far
func (l *CloudwatchLogger) Flush() error {
	l.mutex.Lock()
	events := l.pending
	l.pending = nil
	l.mutex.Unlock()

	for len(events) > 0 {
		batch := events
		if len(batch) > maxEventsPerPut {
			batch = batch[:maxEventsPerPut]
		}
		events = events[len(batch):]

		_, err := l.client.PutLogEvents(&cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  aws.String(l.group),
			LogStreamName: aws.String(l.stream),
			LogEvents:     batch,
		})
		if err != nil {
			return fmt.Errorf("failed to put %v log events to %v/%v: %v", len(batch), l.group, l.stream, err)
		}
	}
	return nil
}

func (l *CloudwatchLogger) Close() error {
	return l.Flush()
}
