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

package idgen

import (
	"math/rand"
	"sync"
	"time"
)

// IDGenerator - makes ids for jobs submitted without one
type IDGenerator interface {
	GenObjectID() string
}

const idChars = "abcdefghijklmnopqrstuvwxyz0123456789"
const idLength = 16

type IDGen struct {
	mutex sync.Mutex
	rnd   *rand.Rand
}

// GenObjectID - random 16 char lower case alphanumeric id
func (g *IDGen) GenObjectID() string {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := make([]byte, idLength)
	for i := range b {
		b[i] = idChars[g.rnd.Intn(len(idChars))]
	}
	return string(b)
}
