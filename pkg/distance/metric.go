package distance

import "github.com/sjy-dv/simjoin/pkg/gomath"

const NS = "http://sj.dcc.uchile.cl/sim#"

const (
	Manhattan    = NS + "manhattan"
	Euclidean    = NS + "euclidean"
	ManhattanVec = NS + "manhattanvec"
)

const defaultLiteralCacheSize = 1024

// Attributes describes the join a metric is bound to. Left and Right are the
// canonical strings of the attribute expressions on each side; bounds are
// looked up by the left key at each position.
type Attributes struct {
	Left      []string
	Right     []string
	Bounds    BoundsMap
	CacheSize int
}

// Metric is a registered distance function. Bind validates the join's
// configuration once and returns the function used for every pair.
type Metric interface {
	Name() string
	Bind(attrs Attributes) (Distance, error)
}

// Distance computes the distance between a left and a right point.
//
// Transform maps a raw distance into a space where the triangle inequality
// holds. It is monotone, so nearest-neighbour order is the same in both
// spaces. Indexes search in transformed space; results are always reported
// as raw distances.
type Distance interface {
	Distance(a, b Point) (float64, error)
	Transform(d float64) float64
}

// Func adapts a plain function to Distance.
type Func struct {
	Fn          func(a, b Point) (float64, error)
	TransformFn func(float64) float64
}

func (f Func) Distance(a, b Point) (float64, error) {
	return f.Fn(a, b)
}

func (f Func) Transform(d float64) float64 {
	if f.TransformFn == nil {
		return d
	}
	return f.TransformFn(d)
}

// FuncMetric registers a caller supplied function under ID. Bind is
// optional; without it the function is used as is for every join.
type FuncMetric struct {
	ID          string
	Fn          func(a, b Point) (float64, error)
	TransformFn func(float64) float64
	BindFn      func(attrs Attributes) error
}

func (m FuncMetric) Name() string {
	return m.ID
}

func (m FuncMetric) Bind(attrs Attributes) (Distance, error) {
	if m.BindFn != nil {
		if err := m.BindFn(attrs); err != nil {
			return nil, err
		}
	}
	transform := m.TransformFn
	if transform == nil {
		transform = gomath.Identity
	}
	return Func{Fn: m.Fn, TransformFn: transform}, nil
}
