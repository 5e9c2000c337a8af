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

package remap

import (
	"fmt"
	"math"
	"testing"

	"github.com/pixlise/imagewarp/core/coordmap"
	"github.com/pixlise/imagewarp/core/logger"
	"github.com/pixlise/imagewarp/core/warperror"
)

// makeTestImage - sample value encodes position so we can tell where a pixel came from
func makeTestImage(t *testing.T, rows int, cols int, channels int, bitDepth int) *Image {
	img, err := NewImage(rows, cols, channels, bitDepth)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for ch := 0; ch < channels; ch++ {
				img.Set(r, c, ch, uint16(((r*cols+c)*channels+ch)%img.MaxCount()))
			}
		}
	}
	return img
}

// mapOf - 1 row map with the given source coordinates
func mapOf(t *testing.T, coords ...coordmap.Point2D) *coordmap.CoordinateMap {
	m, err := coordmap.NewCoordinateMap(coordmap.Shape{Rows: 1, Cols: len(coords)})
	if err != nil {
		t.Fatal(err)
	}
	for c, p := range coords {
		m.Set(0, c, p.X, p.Y)
	}
	return m
}

func Example_resolveOptions() {
	l := &logger.StdOutLogger{}
	rgb8, _ := NewImage(2, 2, 3, 8)

	o, err := ResolveOptions(Options{}, rgb8)
	fmt.Printf("%v %v %v|%v\n", o.Interpolation, o.BorderMode, o.BorderValue, err)

	o, err = ResolveOptions(Options{Interpolation: InterCubic, BorderMode: BorderMode(7), BorderValue: []int{255}, Log: l}, rgb8)
	fmt.Printf("%v %v %v|%v\n", o.Interpolation, o.BorderMode, o.BorderValue, err)

	o, err = ResolveOptions(Options{BorderMode: BorderReplicate, BorderValue: []int{1, 2, 3}}, rgb8)
	fmt.Printf("%v %v %v|%v\n", o.Interpolation, o.BorderMode, o.BorderValue, err)

	_, err = ResolveOptions(Options{BorderValue: []int{1, 2}}, rgb8)
	fmt.Printf("%v|%v\n", err, warperror.IsValidation(err))

	_, err = ResolveOptions(Options{BorderValue: []int{256}}, rgb8)
	fmt.Println(err)

	_, err = ResolveOptions(Options{BorderValue: []int{0, -1, 0}}, rgb8)
	fmt.Println(err)

	// Output:
	// nearest constant [0 0 0]|<nil>
	// ERROR: Only supports nearest neighbour interpolation, cubic requested. Defaulting to that.
	// ERROR: Unsupported border mode border(7). Defaulting to constant.
	// nearest constant [255 255 255]|<nil>
	// nearest replicate [1 2 3]|<nil>
	// border value list must be length matching number of source image channels (3), got 2|true
	// border value 256 must be within [0, 256) for 8 bit image
	// border value -1 must be within [0, 256) for 8 bit image
}

func Example_parseNames() {
	for _, n := range []string{"", "Nearest", "linear", "bicubic"} {
		i, err := ParseInterpolation(n)
		fmt.Printf("%v|%v\n", i, err)
	}
	for _, n := range []string{"", "REPLICATE", "constant", "wrap"} {
		b, err := ParseBorderMode(n)
		fmt.Printf("%v|%v\n", b, err)
	}

	// Output:
	// nearest|<nil>
	// nearest|<nil>
	// linear|<nil>
	// nearest|unknown interpolation: bicubic
	// constant|<nil>
	// replicate|<nil>
	// constant|<nil>
	// constant|unknown border mode: wrap
}

func Example_imageValidation() {
	_, err := NewImage(0, 2, 1, 8)
	fmt.Println(err)
	_, err = NewImage(2, 2, 1, 17)
	fmt.Println(err)
	_, err = NewImageFromSamples(2, 2, 1, 8, []uint16{1, 2, 3})
	fmt.Println(err)
	_, err = NewImageFromSamples(1, 2, 1, 4, []uint16{15, 16})
	fmt.Println(err)
	img, err := NewImageFromSamples(1, 2, 1, 12, []uint16{15, 4095})
	fmt.Println(img.MaxCount(), err)

	// Output:
	// image dimensions must be positive, got 0x2x1
	// bit depth must be between 1 and 16, got 17
	// 2x2x1 image needs 4 samples, has 3
	// sample 1 value 16 exceeds 4 bit range
	// 4096 <nil>
}

// The 4x4 example: a first order fit over 3 identity control points leaves the image alone
func Example_endToEnd() {
	samples := []uint16{}
	for v := 0; v < 16; v++ {
		samples = append(samples, uint16(v*16))
	}
	src, _ := NewImageFromSamples(4, 4, 1, 8, samples)

	pts := []coordmap.Point2D{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 3}}
	m, err := coordmap.BuildPolynomialMap(coordmap.CorrespondenceSet{Source: pts, Destination: pts}, 1, coordmap.Shape{Rows: 4, Cols: 4}, coordmap.Options{})
	fmt.Println(err)

	out, err := Remap(src, m, Options{BorderMode: BorderConstant, BorderValue: []int{0}})
	fmt.Println(err)
	for r := 0; r < out.Rows; r++ {
		fmt.Println(out.Pix[r*4 : r*4+4])
	}

	back, err := Denormalize(out, 8)
	fmt.Println(back.Pix, err)

	// Output:
	// <nil>
	// <nil>
	// [0 0.0625 0.125 0.1875]
	// [0.25 0.3125 0.375 0.4375]
	// [0.5 0.5625 0.625 0.6875]
	// [0.75 0.8125 0.875 0.9375]
	// [0 16 32 48 64 80 96 112 128 144 160 176 192 208 224 240] <nil>
}

func TestIdentityRemapReproducesSource(t *testing.T) {
	for _, tc := range []struct{ rows, cols, channels, bitDepth, workers int }{
		{5, 7, 3, 8, 0},
		{6, 4, 1, 12, 1},
		{3, 3, 4, 16, 2},
		{1, 9, 2, 1, 3},
	} {
		src := makeTestImage(t, tc.rows, tc.cols, tc.channels, tc.bitDepth)
		m, err := coordmap.Identity(coordmap.Shape{Rows: tc.rows, Cols: tc.cols})
		if err != nil {
			t.Fatal(err)
		}

		out, err := Remap(src, m, Options{Workers: tc.workers})
		if err != nil {
			t.Fatalf("%+v: %v", tc, err)
		}
		if out.Rows != tc.rows || out.Cols != tc.cols || out.Channels != tc.channels {
			t.Fatalf("%+v: output is %vx%vx%v", tc, out.Rows, out.Cols, out.Channels)
		}

		maxCount := float64(src.MaxCount())
		for i, v := range src.Pix {
			if out.Pix[i] != float64(v)/maxCount {
				t.Errorf("%+v: sample %v expected %v, got %v", tc, i, float64(v)/maxCount, out.Pix[i])
			}
			if out.Pix[i] < 0 || out.Pix[i] >= 1 {
				t.Errorf("%+v: sample %v not normalised: %v", tc, i, out.Pix[i])
			}
		}
	}
}

func TestConstantBorderOutOfRange(t *testing.T) {
	src := makeTestImage(t, 4, 5, 3, 8)
	m := mapOf(t,
		coordmap.Point2D{X: -1, Y: 0},
		coordmap.Point2D{X: 5, Y: 0},
		coordmap.Point2D{X: 0, Y: 4},
		coordmap.Point2D{X: 2, Y: -0.6},
		coordmap.Point2D{X: 1e30, Y: -1e30},
		coordmap.Point2D{X: math.NaN(), Y: 1},
		coordmap.Point2D{X: math.Inf(1), Y: 1},
		coordmap.Point2D{X: 4.4, Y: 3.4}, // inside, sanity check
	)

	border := []int{10, 200, 255}
	out, err := Remap(src, m, Options{BorderMode: BorderConstant, BorderValue: border})
	if err != nil {
		t.Fatal(err)
	}

	for col := 0; col < 7; col++ {
		for ch := 0; ch < 3; ch++ {
			if got := out.At(0, col, ch); got != float64(border[ch])/256 {
				t.Errorf("col %v ch %v: expected border %v, got %v", col, ch, float64(border[ch])/256, got)
			}
		}
	}
	for ch := 0; ch < 3; ch++ {
		if got, exp := out.At(0, 7, ch), float64(src.At(3, 4, ch))/256; got != exp {
			t.Errorf("inside pixel ch %v: expected %v, got %v", ch, exp, got)
		}
	}
}

func TestReplicateClampsToEdge(t *testing.T) {
	src := makeTestImage(t, 4, 5, 2, 10)
	cases := []struct {
		in       coordmap.Point2D
		row, col int
	}{
		{coordmap.Point2D{X: -1, Y: 0}, 0, 0},
		{coordmap.Point2D{X: -1e30, Y: 1e30}, 3, 0},
		{coordmap.Point2D{X: 100, Y: 2.2}, 2, 4},
		{coordmap.Point2D{X: 2, Y: -7}, 0, 2},
		{coordmap.Point2D{X: math.Inf(1), Y: math.Inf(-1)}, 0, 4},
		{coordmap.Point2D{X: math.NaN(), Y: 3}, 3, 0},
		{coordmap.Point2D{X: 4.49, Y: 3.51}, 3, 4},
	}

	pts := []coordmap.Point2D{}
	for _, c := range cases {
		pts = append(pts, c.in)
	}

	out, err := Remap(src, mapOf(t, pts...), Options{BorderMode: BorderReplicate, BorderValue: []int{1023}})
	if err != nil {
		t.Fatal(err)
	}

	for i, c := range cases {
		for ch := 0; ch < 2; ch++ {
			exp := float64(src.At(c.row, c.col, ch)) / 1024
			if got := out.At(0, i, ch); got != exp {
				t.Errorf("case %v ch %v: expected edge pixel (%v,%v) = %v, got %v", i, ch, c.row, c.col, exp, got)
			}
		}
	}
}

func TestNearestRoundsHalfToEven(t *testing.T) {
	src := makeTestImage(t, 1, 5, 1, 8)
	out, err := Remap(src, mapOf(t,
		coordmap.Point2D{X: 0.5, Y: 0},
		coordmap.Point2D{X: 1.5, Y: 0},
		coordmap.Point2D{X: 2.5, Y: 0},
		coordmap.Point2D{X: -0.5, Y: 0},
		coordmap.Point2D{X: 3.49, Y: 0.4},
	), Options{BorderValue: []int{99}})
	if err != nil {
		t.Fatal(err)
	}

	// Sample value == column index for a 1 row, 1 channel image
	expected := []float64{0, 2, 2, 0, 3}
	for i, e := range expected {
		if got := out.At(0, i, 0) * 256; got != e {
			t.Errorf("coordinate %v: expected column %v, got %v", i, e, got)
		}
	}
}

func TestRemapValidation(t *testing.T) {
	src := makeTestImage(t, 2, 2, 1, 8)

	bad := &coordmap.CoordinateMap{Rows: 2, Cols: 2, X: make([]float32, 4), Y: make([]float32, 2)}
	if _, err := Remap(src, bad, Options{}); !warperror.IsValidation(err) {
		t.Errorf("expected validation error for mismatched map, got %v", err)
	}

	m, _ := coordmap.Identity(coordmap.Shape{Rows: 2, Cols: 2})
	if _, err := Remap(src, m, Options{BorderValue: []int{0, 0}}); !warperror.IsValidation(err) {
		t.Errorf("expected validation error for border list, got %v", err)
	}

	broken := &Image{Rows: 2, Cols: 2, Channels: 1, BitDepth: 8, Pix: []uint16{1, 2, 3, 300}}
	if _, err := Remap(broken, m, Options{}); !warperror.IsValidation(err) {
		t.Errorf("expected validation error for out of range sample, got %v", err)
	}

	if _, err := Remap(nil, m, Options{}); !warperror.IsValidation(err) {
		t.Errorf("expected validation error for nil image, got %v", err)
	}
}

func TestRemapToImageShrinks(t *testing.T) {
	src := makeTestImage(t, 4, 4, 1, 8)
	m, err := coordmap.BuildRotationScaleMap(coordmap.Shape{Rows: 4, Cols: 4}, coordmap.RotationScale{RotationDegrees: 0, ScaleX: 0.5, ScaleY: 0.5}, coordmap.Options{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := RemapToImage(src, m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows != 2 || out.Cols != 2 || out.BitDepth != 8 {
		t.Fatalf("expected 2x2 8 bit output, got %vx%v %v bit", out.Rows, out.Cols, out.BitDepth)
	}

	// Destination (r, c) samples source (2r, 2c)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got, exp := out.At(r, c, 0), src.At(2*r, 2*c, 0); got != exp {
				t.Errorf("(%v,%v): expected %v, got %v", r, c, exp, got)
			}
		}
	}
}
