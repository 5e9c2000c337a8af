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

// Reads ground control point lists as exported by the point picking tools: two header
// lines, then one "srcX srcY mapX mapY" row per point
package pointsfile

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pixlise/imagewarp/core/coordmap"
	"github.com/pixlise/imagewarp/core/warperror"
)

const headerLines = 2

// ParseGCPText - correspondences from a points file. Blank lines and lines starting with #
// are ignored. Source points are in the image being warped, map points in the
// destination image
func ParseGCPText(data []byte) (coordmap.CorrespondenceSet, error) {
	result := coordmap.CorrespondenceSet{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= headerLines {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if len(line) <= 0 || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return result, warperror.MakeValidationError("line %v: expected 4 columns (srcX srcY mapX mapY), got %v", lineNo, len(fields))
		}

		vals := [4]float64{}
		for c, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return result, warperror.MakeValidationError("line %v: column %v is not a number: %v", lineNo, c+1, f)
			}
			vals[c] = v
		}

		result.Source = append(result.Source, coordmap.Point2D{X: vals[0], Y: vals[1]})
		result.Destination = append(result.Destination, coordmap.Point2D{X: vals[2], Y: vals[3]})
	}

	if err := scanner.Err(); err != nil {
		return result, warperror.MakeValidationError("failed to read points: %v", err)
	}

	return result, nil
}

// ParseQuadText - same layout as ParseGCPText, but must hold exactly the 4 corners
// of a quadrilateral
func ParseQuadText(data []byte) (coordmap.CorrespondenceSet, error) {
	result, err := ParseGCPText(data)
	if err != nil {
		return result, err
	}

	if err := coordmap.ValidateQuad(result.Source, result.Destination); err != nil {
		return result, err
	}
	return result, nil
}
