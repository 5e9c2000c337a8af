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

package imageedit

import (
	"bufio"
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/pixlise/imagewarp/core/warperror"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DecodeImage - reads any of png, jpeg, gif, tiff or bmp, returning the format name too
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", warperror.MakeValidationError("failed to decode image: %v", err)
	}
	return img, format, nil
}

// GetImageBytes - encodes img as png, jpeg (quality 90), tiff or bmp
func GetImageBytes(img image.Image, imgFormat string) ([]byte, error) {
	var err error
	var b bytes.Buffer
	writer := bufio.NewWriter(&b)

	switch strings.ToLower(imgFormat) {
	case "png":
		err = png.Encode(writer, img)
	case "jpeg", "jpg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: 90})
	case "tiff", "tif":
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		err = bmp.Encode(writer, img)
	default:
		return nil, warperror.MakeValidationError("unexpected image format: %v", imgFormat)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %v", imgFormat)
	}

	err = writer.Flush()
	if err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// FormatExtension - file extension (no dot) written for a given output format
func FormatExtension(imgFormat string) string {
	switch strings.ToLower(imgFormat) {
	case "jpeg", "jpg":
		return "jpg"
	case "tiff", "tif":
		return "tif"
	}
	return strings.ToLower(imgFormat)
}
