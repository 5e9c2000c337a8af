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
	"github.com/pixlise/imagewarp/core/warperror"
)

// CoordinateMap - per destination pixel source coordinates, stored row-major.
// X[r*Cols+c] is the source column and Y[r*Cols+c] the source row to sample for
// destination pixel (r, c). Values can be fractional or outside the source image
type CoordinateMap struct {
	Rows int
	Cols int
	X    []float32
	Y    []float32
}

func NewCoordinateMap(shape Shape) (*CoordinateMap, error) {
	if err := shape.validate("map"); err != nil {
		return nil, err
	}

	n := shape.Rows * shape.Cols
	return &CoordinateMap{
		Rows: shape.Rows,
		Cols: shape.Cols,
		X:    make([]float32, n),
		Y:    make([]float32, n),
	}, nil
}

// FromGrids - builds a map from separate x and y grids indexed [row][col]. Both
// grids must be rectangular and the same shape
func FromGrids(mapX [][]float32, mapY [][]float32) (*CoordinateMap, error) {
	if len(mapX) != len(mapY) {
		return nil, warperror.MakeValidationError("map grids must be the same size, got %v and %v rows", len(mapX), len(mapY))
	}
	if len(mapX) == 0 {
		return nil, warperror.MakeValidationError("map grids are empty")
	}

	cols := len(mapX[0])
	result, err := NewCoordinateMap(Shape{Rows: len(mapX), Cols: cols})
	if err != nil {
		return nil, err
	}

	for r := range mapX {
		if len(mapX[r]) != cols || len(mapY[r]) != cols {
			return nil, warperror.MakeValidationError("map grids must be the same size, row %v has %v and %v columns, expected %v", r, len(mapX[r]), len(mapY[r]), cols)
		}
		copy(result.X[r*cols:], mapX[r])
		copy(result.Y[r*cols:], mapY[r])
	}
	return result, nil
}

// Identity - a map that samples every pixel from the same location
func Identity(shape Shape) (*CoordinateMap, error) {
	result, err := NewCoordinateMap(shape)
	if err != nil {
		return nil, err
	}

	for r := 0; r < shape.Rows; r++ {
		for c := 0; c < shape.Cols; c++ {
			result.Set(r, c, float64(c), float64(r))
		}
	}
	return result, nil
}

func (m *CoordinateMap) Shape() Shape {
	return Shape{Rows: m.Rows, Cols: m.Cols}
}

// Validate - the x and y grids must both match the declared shape
func (m *CoordinateMap) Validate() error {
	if m == nil {
		return warperror.MakeValidationError("coordinate map is nil")
	}
	if err := m.Shape().validate("map"); err != nil {
		return err
	}
	n := m.Rows * m.Cols
	if len(m.X) != n || len(m.Y) != n {
		return warperror.MakeValidationError("map grids must be the same size: %vx%v needs %v values, x has %v, y has %v", m.Rows, m.Cols, n, len(m.X), len(m.Y))
	}
	return nil
}

// At - source coordinate for destination pixel (row, col)
func (m *CoordinateMap) At(row int, col int) (float32, float32) {
	idx := row*m.Cols + col
	return m.X[idx], m.Y[idx]
}

func (m *CoordinateMap) Set(row int, col int, x float64, y float64) {
	idx := row*m.Cols + col
	m.X[idx] = float32(x)
	m.Y[idx] = float32(y)
}

// Grids - the map as two [row][col] grids, the inverse of FromGrids
func (m *CoordinateMap) Grids() ([][]float32, [][]float32) {
	mapX := make([][]float32, m.Rows)
	mapY := make([][]float32, m.Rows)
	for r := 0; r < m.Rows; r++ {
		mapX[r] = m.X[r*m.Cols : (r+1)*m.Cols]
		mapY[r] = m.Y[r*m.Cols : (r+1)*m.Cols]
	}
	return mapX, mapY
}
