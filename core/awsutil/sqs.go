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

package awsutil

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/pkg/errors"
)

// SendJSONMessage - marshals body and sends it to the queue, returning the SQS message id
func SendJSONMessage(sqsAPI sqsiface.SQSAPI, queueURL string, body interface{}) (string, error) {
	if len(queueURL) <= 0 {
		return "", errors.New("no SQS queue URL configured")
	}

	msg, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode SQS message")
	}

	out, err := sqsAPI.SendMessage(&sqs.SendMessageInput{
		MessageBody: aws.String(string(msg)),
		QueueUrl:    aws.String(queueURL),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to send message to %v", queueURL)
	}

	return aws.StringValue(out.MessageId), nil
}
