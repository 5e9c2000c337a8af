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
	"image"
	"image/color"

	"github.com/pixlise/imagewarp/core/remap"
	"github.com/pixlise/imagewarp/core/warperror"
	"golang.org/x/image/draw"
)

// FromImage - converts a decoded image to resampler input. Grey images become 1 channel,
// everything else 3 channel RGB (alpha dropped). 16 bit sources stay 16 bit, the rest are 8 bit
func FromImage(img image.Image) *remap.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		result, _ := remap.NewImage(h, w, 1, 8)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				result.Set(y, x, 0, uint16(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return result
	case *image.Gray16:
		result, _ := remap.NewImage(h, w, 1, 16)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				result.Set(y, x, 0, src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return result
	case *image.RGBA64, *image.NRGBA64:
		rgba := image.NewRGBA64(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

		result, _ := remap.NewImage(h, w, 3, 16)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := rgba.RGBA64At(x, y)
				result.Set(y, x, 0, c.R)
				result.Set(y, x, 1, c.G)
				result.Set(y, x, 2, c.B)
			}
		}
		return result
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	result, _ := remap.NewImage(h, w, 3, 8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := rgba.RGBAAt(x, y)
			result.Set(y, x, 0, uint16(c.R))
			result.Set(y, x, 1, uint16(c.G))
			result.Set(y, x, 2, uint16(c.B))
		}
	}
	return result
}

// ToImage - converts resampler output back to something encodable. Samples are scaled to
// bitDepth counts, then shifted up to fill 8 bits (bitDepth <= 8) or 16 bits.
// 1 channel -> grey, 3 -> opaque RGB, 4 -> RGB + straight alpha
func ToImage(n *remap.Normalized, bitDepth int) (image.Image, error) {
	counts, err := remap.Denormalize(n, bitDepth)
	if err != nil {
		return nil, err
	}

	wide := bitDepth > 8
	shift := uint(8 - bitDepth)
	if wide {
		shift = uint(16 - bitDepth)
	}

	rect := image.Rect(0, 0, n.Cols, n.Rows)
	at := func(y int, x int, ch int) uint16 {
		return counts.At(y, x, ch) << shift
	}

	switch n.Channels {
	case 1:
		if wide {
			out := image.NewGray16(rect)
			for y := 0; y < n.Rows; y++ {
				for x := 0; x < n.Cols; x++ {
					out.SetGray16(x, y, color.Gray16{Y: at(y, x, 0)})
				}
			}
			return out, nil
		}
		out := image.NewGray(rect)
		for y := 0; y < n.Rows; y++ {
			for x := 0; x < n.Cols; x++ {
				out.SetGray(x, y, color.Gray{Y: uint8(at(y, x, 0))})
			}
		}
		return out, nil
	case 3:
		if wide {
			out := image.NewRGBA64(rect)
			for y := 0; y < n.Rows; y++ {
				for x := 0; x < n.Cols; x++ {
					out.SetRGBA64(x, y, color.RGBA64{R: at(y, x, 0), G: at(y, x, 1), B: at(y, x, 2), A: 0xffff})
				}
			}
			return out, nil
		}
		out := image.NewRGBA(rect)
		for y := 0; y < n.Rows; y++ {
			for x := 0; x < n.Cols; x++ {
				out.SetRGBA(x, y, color.RGBA{R: uint8(at(y, x, 0)), G: uint8(at(y, x, 1)), B: uint8(at(y, x, 2)), A: 0xff})
			}
		}
		return out, nil
	case 4:
		if wide {
			out := image.NewNRGBA64(rect)
			for y := 0; y < n.Rows; y++ {
				for x := 0; x < n.Cols; x++ {
					out.SetNRGBA64(x, y, color.NRGBA64{R: at(y, x, 0), G: at(y, x, 1), B: at(y, x, 2), A: at(y, x, 3)})
				}
			}
			return out, nil
		}
		out := image.NewNRGBA(rect)
		for y := 0; y < n.Rows; y++ {
			for x := 0; x < n.Cols; x++ {
				out.SetNRGBA(x, y, color.NRGBA{R: uint8(at(y, x, 0)), G: uint8(at(y, x, 1)), B: uint8(at(y, x, 2)), A: uint8(at(y, x, 3))})
			}
		}
		return out, nil
	}

	return nil, warperror.MakeValidationError("cannot make an image from %v channels", n.Channels)
}
