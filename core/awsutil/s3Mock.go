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
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockS3Client - in-memory S3 for unit tests. Only the calls our code makes are implemented,
// anything else panics through the nil embedded interface. Objects are keyed "bucket/key"
type MockS3Client struct {
	mutex sync.Mutex

	s3iface.S3API

	Objects map[string][]byte

	// Max keys returned per ListObjectsV2 page, 0 = no paging
	PageSize int

	// Every call made, as "Op bucket/key"
	Calls []string
}

func NewMockS3Client() *MockS3Client {
	return &MockS3Client{Objects: map[string][]byte{}}
}

func (m *MockS3Client) record(op string, bucket *string, key *string) string {
	id := aws.StringValue(bucket) + "/" + aws.StringValue(key)
	m.Calls = append(m.Calls, op+" "+id)
	return id
}

func noSuchKey(id string) error {
	return awserr.New(s3.ErrCodeNoSuchKey, fmt.Sprintf("no such key: %v", id), nil)
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	id := m.record("GetObject", input.Bucket, input.Key)
	data, ok := m.Objects[id]
	if !ok {
		return nil, noSuchKey(id)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data)), ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (m *MockS3Client) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	id := m.record("HeadObject", input.Bucket, input.Key)
	data, ok := m.Objects[id]
	if !ok {
		return nil, awserr.New("NotFound", "Not Found", nil)
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (m *MockS3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	id := m.record("PutObject", input.Bucket, input.Key)
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.Objects[id] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *MockS3Client) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	id := m.record("DeleteObject", input.Bucket, input.Key)
	delete(m.Objects, id)
	return &s3.DeleteObjectOutput{}, nil
}

// ListObjectsV2 - keys in sorted order. The continuation token is the last key returned
func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	bucketPrefix := aws.StringValue(input.Bucket) + "/"
	m.record("ListObjectsV2", input.Bucket, input.Prefix)

	keys := []string{}
	for id := range m.Objects {
		if key := strings.TrimPrefix(id, bucketPrefix); key != id && strings.HasPrefix(key, aws.StringValue(input.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if after := aws.StringValue(input.ContinuationToken); len(after) > 0 {
		idx := sort.SearchStrings(keys, after)
		if idx < len(keys) && keys[idx] == after {
			idx++
		}
		keys = keys[idx:]
	}

	result := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if m.PageSize > 0 && len(keys) > m.PageSize {
		keys = keys[0:m.PageSize]
		result.IsTruncated = aws.Bool(true)
		result.NextContinuationToken = aws.String(keys[len(keys)-1])
	}

	for _, k := range keys {
		result.Contents = append(result.Contents, &s3.Object{Key: aws.String(k)})
	}
	return result, nil
}
