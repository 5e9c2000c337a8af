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

package utils

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelRows - calls rowFunc once for every row in [0, rows). Rows are independent
// of each other so they're farmed out to at most workers goroutines. workers <= 0
// means one per available CPU, 1 runs everything on the calling goroutine. Returns
// the first error any row produced, after all started rows have finished.
func ParallelRows(rows int, workers int, rowFunc func(row int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers == 1 || rows <= 1 {
		for r := 0; r < rows; r++ {
			if err := rowFunc(r); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for r := 0; r < rows; r++ {
		row := r
		g.Go(func() error {
			return rowFunc(row)
		})
	}

	return g.Wait()
}
