package distance

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Registry maps distance function identifiers to metrics. It is built once
// and never mutated; With returns an extended copy. Lookups ignore case.
type Registry struct {
	metrics map[string]Metric
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func NewRegistry(metrics ...Metric) (*Registry, error) {
	r := &Registry{metrics: make(map[string]Metric, len(metrics))}
	for _, m := range metrics {
		key := normalizeID(m.Name())
		if _, ok := r.metrics[key]; ok {
			return nil, errors.Wrapf(ErrDuplicateMetric, "%s", m.Name())
		}
		r.metrics[key] = m
	}
	return r, nil
}

// Default holds the built-in metrics: normalized Manhattan, normalized
// squared Euclidean and vector-literal Manhattan.
func Default() *Registry {
	r, err := NewRegistry(NewManhattan(), NewEuclidean(), NewManhattanVec())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(id string) (Metric, bool) {
	m, ok := r.metrics[normalizeID(id)]
	return m, ok
}

// Resolve is Lookup reporting a missing metric as ErrUnknownMetric.
func (r *Registry) Resolve(id string) (Metric, error) {
	m, ok := r.Lookup(id)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMetric, "%s", id)
	}
	return m, nil
}

// With returns a registry holding r's metrics plus m.
func (r *Registry) With(m Metric) (*Registry, error) {
	key := normalizeID(m.Name())
	if _, ok := r.metrics[key]; ok {
		return nil, errors.Wrapf(ErrDuplicateMetric, "%s", m.Name())
	}
	nr := &Registry{metrics: make(map[string]Metric, len(r.metrics)+1)}
	for k, v := range r.metrics {
		nr.metrics[k] = v
	}
	nr.metrics[key] = m
	return nr, nil
}

// Names lists the registered identifiers, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.metrics))
	for _, m := range r.metrics {
		out = append(out, m.Name())
	}
	slices.Sort(out)
	return out
}
