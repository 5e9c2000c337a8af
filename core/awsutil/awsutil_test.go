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
	"bytes"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

func Example_sendJSONMessage() {
	var mockSQS MockSQSClient
	const url = "https://sqs.us-east-1.amazonaws.com/123/imagewarp-jobs"

	id, err := SendJSONMessage(&mockSQS, url, map[string]interface{}{"jobId": "abc", "order": 2})
	fmt.Printf("%v|%v\n", id, err)
	fmt.Println(mockSQS.Sent[url])

	_, err = SendJSONMessage(&mockSQS, "", "x")
	fmt.Println(err)

	mockSQS.SendError = errors.New("throttled")
	_, err = SendJSONMessage(&mockSQS, url, "x")
	fmt.Println(err)

	// Output:
	// msg-1|<nil>
	// [{"jobId":"abc","order":2}]
	// no SQS queue URL configured
	// failed to send message to https://sqs.us-east-1.amazonaws.com/123/imagewarp-jobs: throttled
}

func Example_mockS3Paging() {
	m := NewMockS3Client()
	m.PageSize = 2
	for _, k := range []string{"in/c.png", "in/a.png", "in/b.png", "out/x.png"} {
		m.PutObject(&s3.PutObjectInput{Bucket: aws.String("bkt"), Key: aws.String(k), Body: bytes.NewReader([]byte(k))})
	}

	out, _ := m.ListObjectsV2(&s3.ListObjectsV2Input{Bucket: aws.String("bkt"), Prefix: aws.String("in/")})
	fmt.Println(len(out.Contents), *out.IsTruncated, *out.NextContinuationToken)

	out, _ = m.ListObjectsV2(&s3.ListObjectsV2Input{Bucket: aws.String("bkt"), Prefix: aws.String("in/"), ContinuationToken: out.NextContinuationToken})
	fmt.Println(len(out.Contents), *out.Contents[0].Key, *out.IsTruncated)

	_, err := m.GetObject(&s3.GetObjectInput{Bucket: aws.String("other"), Key: aws.String("in/a.png")})
	fmt.Println(err)

	// Output:
	// 2 true in/b.png
	// 1 in/c.png false
	// NoSuchKey: no such key: other/in/a.png
}
