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

package coordmap

import (
	"math"

	"github.com/pixlise/imagewarp/core/utils"
	"github.com/pixlise/imagewarp/core/warperror"
	"gonum.org/v1/gonum/mat"
)

// Exponent - the (x power, y power) of one polynomial term
type Exponent struct {
	I int
	J int
}

// PolynomialWarp - a fitted 2D polynomial mapping destination pixels to source pixels:
// srcX = sum A[k] * x^I[k] * y^J[k], srcY = sum B[k] * x^I[k] * y^J[k]
type PolynomialWarp struct {
	Order int
	Terms []Exponent
	A     []float64
	B     []float64
}

// PolynomialTerms - exponent pairs with i+j <= order, outer loop over i, inner over j.
// This order defines the coefficient layout, don't change it
func PolynomialTerms(order int) []Exponent {
	terms := []Exponent{}
	for i := 0; i <= order; i++ {
		for j := 0; j <= order; j++ {
			if i+j <= order {
				terms = append(terms, Exponent{I: i, J: j})
			}
		}
	}
	return terms
}

// FitPolynomial - least squares fit of source coordinates as a polynomial of destination
// coordinates. Needs at least as many correspondences as there are terms
// ((order+1)(order+2)/2, so 3 for order 1, 6 for order 2)
func FitPolynomial(gcps CorrespondenceSet, order int) (*PolynomialWarp, error) {
	if order < 1 {
		return nil, warperror.MakeValidationError("specified order must be a positive integer, got %v", order)
	}
	if err := gcps.Validate(1); err != nil {
		return nil, err
	}

	terms := PolynomialTerms(order)
	n := gcps.Len()
	if n < len(terms) {
		return nil, warperror.MakeFittingError("order %v polynomial has %v terms, needs at least that many control points, got %v", order, len(terms), n)
	}

	design := mat.NewDense(n, len(terms), nil)
	targets := mat.NewDense(n, 2, nil)
	for r := 0; r < n; r++ {
		dst := gcps.Destination[r]
		for k, t := range terms {
			design.Set(r, k, math.Pow(dst.X, float64(t.I))*math.Pow(dst.Y, float64(t.J)))
		}

		targets.Set(r, 0, gcps.Source[r].X)
		targets.Set(r, 1, gcps.Source[r].Y)
	}

	coeffs, err := SolveLinearLeastSquares(design, targets)
	if err != nil {
		return nil, err
	}

	return &PolynomialWarp{
		Order: order,
		Terms: terms,
		A:     mat.Col(nil, 0, coeffs),
		B:     mat.Col(nil, 1, coeffs),
	}, nil
}

// Apply - source position for destination position (x, y)
func (p *PolynomialWarp) Apply(x float64, y float64) (float64, float64) {
	xPow := powers(make([]float64, p.Order+1), x)
	yPow := powers(make([]float64, p.Order+1), y)
	return p.evaluate(xPow, yPow)
}

// powers - fills buf with v^0, v^1, ... v^(len(buf)-1)
func powers(buf []float64, v float64) []float64 {
	for e := range buf {
		buf[e] = math.Pow(v, float64(e))
	}
	return buf
}

func (p *PolynomialWarp) evaluate(xPow []float64, yPow []float64) (float64, float64) {
	srcX := 0.0
	srcY := 0.0
	for k, t := range p.Terms {
		v := xPow[t.I] * yPow[t.J]
		srcX += p.A[k] * v
		srcY += p.B[k] * v
	}
	return srcX, srcY
}

// RMSResidual - root mean square distance between where the fit puts each destination
// point and where its source point actually is. 0 for a perfect fit
func (p *PolynomialWarp) RMSResidual(gcps CorrespondenceSet) (float64, error) {
	if err := gcps.Validate(1); err != nil {
		return 0, err
	}

	sum := 0.0
	for c := 0; c < gcps.Len(); c++ {
		x, y := p.Apply(gcps.Destination[c].X, gcps.Destination[c].Y)
		dx := x - gcps.Source[c].X
		dy := y - gcps.Source[c].Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(gcps.Len())), nil
}

// BuildPolynomialMap - fits a polynomial of the given order to the control points and
// evaluates it at every pixel of a destination image of shape dest
func BuildPolynomialMap(gcps CorrespondenceSet, order int, dest Shape, opts Options) (*CoordinateMap, error) {
	if err := dest.validate("destination"); err != nil {
		return nil, err
	}

	fit, err := FitPolynomial(gcps, order)
	if err != nil {
		return nil, err
	}

	return fit.BuildMap(dest, opts)
}

// BuildMap - evaluates an existing fit over every pixel of dest
func (p *PolynomialWarp) BuildMap(dest Shape, opts Options) (*CoordinateMap, error) {
	result, err := NewCoordinateMap(dest)
	if err != nil {
		return nil, err
	}

	err = utils.ParallelRows(dest.Rows, opts.Workers, func(row int) error {
		yPow := powers(make([]float64, p.Order+1), float64(row))
		xPow := make([]float64, p.Order+1)
		for col := 0; col < dest.Cols; col++ {
			srcX, srcY := p.evaluate(powers(xPow, float64(col)), yPow)
			result.Set(row, col, srcX, srcY)
		}
		return nil
	})

	return result, err
}
