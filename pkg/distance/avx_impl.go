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

package distance

import "github.com/viterin/vek"

type vekSpaceImpl struct{}

func (vekSpaceImpl) ManhattanDistance(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	diff := vek.Sub(a, b)
	vek.Abs_Inplace(diff)
	return vek.Sum(diff)
}

func (vekSpaceImpl) SquaredEuclideanDistance(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	diff := vek.Sub(a, b)
	return vek.Dot(diff, diff)
}
