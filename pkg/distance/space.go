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

import (
	"github.com/klauspost/cpuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/cpu"
)

// SpaceImpl holds the raw vector kernels. Inputs always have equal length;
// callers check that before dispatching.
type SpaceImpl interface {
	ManhattanDistance(a, b []float64) float64
	SquaredEuclideanDistance(a, b []float64) float64
}

type space struct {
	impl SpaceImpl
}

func newSpace() space {
	// vek only vectorizes with AVX2 and FMA; its generic fallback loses to
	// the plain loops
	if cpuid.CPU.AVX() && cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		return space{impl: vekSpaceImpl{}}
	}
	return space{impl: nativeSpaceImpl{}}
}

var defaultSpace = newSpace()

func init() {
	_, simd := defaultSpace.impl.(vekSpaceImpl)
	log.Debug().Bool("avx", simd).Bool("fma", cpu.X86.HasFMA).Msg("distance kernels selected")
}
