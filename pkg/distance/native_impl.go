package distance

import "github.com/sjy-dv/simjoin/pkg/gomath"

type nativeSpaceImpl struct{}

func (nativeSpaceImpl) ManhattanDistance(a, b []float64) float64 {
	var distance float64
	for i := 0; i < len(a); i++ {
		distance += gomath.Abs(a[i] - b[i])
	}
	return distance
}

func (nativeSpaceImpl) SquaredEuclideanDistance(a, b []float64) float64 {
	var distance float64
	for i := 0; i < len(a); i++ {
		distance += gomath.Square(a[i] - b[i])
	}
	return distance
}
