// Licensed to sjy-dv under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. sjy-dv licenses this file to you under
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

package gomath

import "math"

// Defaults for concurrent index construction: the point count from which
// index trees are built concurrently, and the number of goroutines used.
const (
	DefaultParallelThreshold = 4096
	DefaultNumRoutines       = 4
)

const MinIntVal = -int((^uint(0))>>1) - 1

func Abs(x float64) float64 {
	return math.Abs(x)
}

func Square(x float64) float64 {
	return x * x
}

func Sqrt(x float64) float64 {
	return math.Sqrt(x)
}

func MaxInt(values ...int) int {
	max := MinIntVal
	for _, value := range values {
		if value > max {
			max = value
		}
	}
	return max
}

// Identity is the distance transform of functions that already satisfy the
// triangle inequality.
func Identity(x float64) float64 { return x }
