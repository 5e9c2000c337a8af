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
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
)

// MockSQSClient - records sent messages for unit tests
type MockSQSClient struct {
	mutex sync.Mutex

	sqsiface.SQSAPI

	// Message bodies sent, by queue URL
	Sent map[string][]string

	// If set, SendMessage returns this instead of sending
	SendError error
}

func (m *MockSQSClient) SendMessage(input *sqs.SendMessageInput) (*sqs.SendMessageOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.SendError != nil {
		return nil, m.SendError
	}

	if m.Sent == nil {
		m.Sent = map[string][]string{}
	}

	url := aws.StringValue(input.QueueUrl)
	m.Sent[url] = append(m.Sent[url], aws.StringValue(input.MessageBody))
	return &sqs.SendMessageOutput{MessageId: aws.String(fmt.Sprintf("msg-%v", len(m.Sent[url])))}, nil
}
