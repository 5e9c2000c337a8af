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

	"golang.org/x/image/draw"
)

// Composite - copy of base with every non-black pixel of overlay drawn over it. Used to
// show a warped image in place on the image it was registered to. The overlay is centred
// on base, anything falling outside base is clipped
func Composite(base image.Image, overlay image.Image) image.Image {
	bounds := base.Bounds()
	ovBounds := overlay.Bounds()

	outImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(outImage, outImage.Bounds(), base, bounds.Min, draw.Src)

	offset := image.Pt((bounds.Dx()-ovBounds.Dx())/2, (bounds.Dy()-ovBounds.Dy())/2)
	placed := image.Rect(0, 0, ovBounds.Dx(), ovBounds.Dy()).Add(offset).Intersect(outImage.Bounds())

	for y := placed.Min.Y; y < placed.Max.Y; y++ {
		for x := placed.Min.X; x < placed.Max.X; x++ {
			c := overlay.At(ovBounds.Min.X+x-offset.X, ovBounds.Min.Y+y-offset.Y)
			r, g, b, _ := c.RGBA()
			if r|g|b != 0 {
				outImage.Set(x, y, c)
			}
		}
	}

	return outImage
}
