package distance

import (
	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/gomath"
)

// normalizedMetric rescales every attribute to [0, 1] with the join's bounds
// before applying a kernel. Manhattan sums absolute differences; Euclidean
// sums squared differences and is left squared.
type normalizedMetric struct {
	name      string
	kernel    func(impl SpaceImpl, a, b []float64) float64
	transform func(float64) float64
	space     space
}

func NewManhattan() Metric {
	return &normalizedMetric{
		name:      Manhattan,
		kernel:    SpaceImpl.ManhattanDistance,
		transform: gomath.Identity,
		space:     defaultSpace,
	}
}

func NewEuclidean() Metric {
	return &normalizedMetric{
		name:      Euclidean,
		kernel:    SpaceImpl.SquaredEuclideanDistance,
		transform: gomath.Sqrt,
		space:     defaultSpace,
	}
}

func (m *normalizedMetric) Name() string {
	return m.name
}

func (m *normalizedMetric) String() string {
	return m.name
}

func (m *normalizedMetric) Bind(attrs Attributes) (Distance, error) {
	if len(attrs.Left) != len(attrs.Right) {
		return nil, errors.Wrapf(ErrArity, "%s: %d left vs %d right attributes",
			m.name, len(attrs.Left), len(attrs.Right))
	}
	if len(attrs.Left) == 0 {
		return nil, errors.Wrapf(ErrArity, "%s: no attributes", m.name)
	}
	bounds, err := attrs.Bounds.resolve(attrs.Left)
	if err != nil {
		return nil, errors.WithMessage(err, m.name)
	}
	return &normalizedDistance{metric: m, bounds: bounds}, nil
}

type normalizedDistance struct {
	metric *normalizedMetric
	bounds []Bounds
}

func (d *normalizedDistance) Distance(a, b Point) (float64, error) {
	x, err := a.Floats()
	if err != nil {
		return 0, err
	}
	y, err := b.Floats()
	if err != nil {
		return 0, err
	}
	if len(x) != len(d.bounds) || len(y) != len(d.bounds) {
		return 0, errors.Wrapf(ErrVectorLength, "%d vs %d (want %d)", len(x), len(y), len(d.bounds))
	}
	nx := make([]float64, len(x))
	ny := make([]float64, len(y))
	for i, b := range d.bounds {
		nx[i] = b.Normalize(x[i])
		ny[i] = b.Normalize(y[i])
	}
	return d.metric.kernel(d.metric.space.impl, nx, ny), nil
}

func (d *normalizedDistance) Transform(v float64) float64 {
	return d.metric.transform(v)
}
