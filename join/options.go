package join

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/config"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/expr"
)

type Kind uint8

const (
	KindRange Kind = iota + 1
	KindKNN
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindKNN:
		return "knn"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "range":
		return KindRange, nil
	case "knn":
		return KindKNN, nil
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

// CandidateMode selects how a range join finds right-hand candidates before
// exact filtering.
type CandidateMode uint8

const (
	ScanCandidates CandidateMode = iota
	PivotCandidates
	TreeCandidates
)

func (m CandidateMode) String() string {
	switch m {
	case ScanCandidates:
		return "scan"
	case PivotCandidates:
		return "pivot"
	case TreeCandidates:
		return "tree"
	}
	return fmt.Sprintf("CandidateMode(%d)", uint8(m))
}

func ParseCandidateMode(s string) (CandidateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scan":
		return ScanCandidates, nil
	case "pivot":
		return PivotCandidates, nil
	case "tree", "vptree":
		return TreeCandidates, nil
	}
	return 0, errors.Errorf("unknown candidate mode %q", s)
}

// Range is the distance predicate of a range join: distance <= High, and
// also Low <= distance when HasLow is set.
type Range struct {
	Low    float64
	High   float64
	HasLow bool
}

func AtMost(high float64) Range {
	return Range{High: high}
}

func Between(low, high float64) Range {
	return Range{Low: low, High: high, HasLow: true}
}

func (r Range) Contains(d float64) bool {
	if d > r.High {
		return false
	}
	return !r.HasLow || d >= r.Low
}

func (r Range) validate() error {
	if math.IsNaN(r.High) || math.IsInf(r.High, 0) || r.High < 0 {
		return errors.Wrapf(ErrInvalidRange, "upper limit %v", r.High)
	}
	if r.HasLow && (math.IsNaN(r.Low) || r.Low > r.High) {
		return errors.Wrapf(ErrInvalidRange, "[%v, %v]", r.Low, r.High)
	}
	return nil
}

func (r Range) String() string {
	if r.HasLow {
		return fmt.Sprintf("[%v, %v]", r.Low, r.High)
	}
	return fmt.Sprintf("<= %v", r.High)
}

type Options struct {
	Kind Kind
	// Metric is a distance function identifier, resolved case-insensitively.
	Metric     string
	LeftAttrs  []expr.Expr
	RightAttrs []expr.Expr
	Bounds     distance.BoundsMap
	// DistanceVar receives the distance in every output binding; empty
	// leaves it out.
	DistanceVar binding.Var

	K          int
	Range      Range
	Candidates CandidateMode

	// ExcludeSelf drops right bindings at distance 0 that bind the same
	// values as the left binding.
	ExcludeSelf bool

	Seed uint64
	// Effort is the number of vantage point candidates the tree samples per
	// node; 1 or less picks vantage points at random.
	Effort           int
	Pivots           int
	LiteralCacheSize int
	// ParallelThreshold and Routines govern concurrent pivot tree builds;
	// zero values use the process defaults.
	ParallelThreshold int
	Routines          int
}

// DefaultOptions fills the tuning fields from config.Config.
func DefaultOptions() Options {
	c := config.Config
	return Options{
		ExcludeSelf:       c.Join.ExcludeSelf,
		Seed:              c.Index.Seed,
		Effort:            c.Index.Effort,
		Pivots:            c.Index.Pivots,
		LiteralCacheSize:  c.Join.LiteralCacheSize,
		ParallelThreshold: c.Index.ParallelThreshold,
		Routines:          c.Index.NumRoutines,
	}
}

func (o Options) attributes() distance.Attributes {
	keys := func(es []expr.Expr) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.String()
		}
		return out
	}
	return distance.Attributes{
		Left:      keys(o.LeftAttrs),
		Right:     keys(o.RightAttrs),
		Bounds:    o.Bounds,
		CacheSize: o.LiteralCacheSize,
	}
}

func (o Options) validate() error {
	switch o.Kind {
	case KindKNN:
		if o.K < 0 {
			return errors.Wrapf(ErrNegativeK, "k=%d", o.K)
		}
	case KindRange:
		if err := o.Range.validate(); err != nil {
			return err
		}
		if o.Candidates > TreeCandidates {
			return errors.Errorf("unknown candidate mode %d", o.Candidates)
		}
	default:
		return errors.Wrapf(ErrUnknownKind, "%s", o.Kind)
	}
	if len(o.LeftAttrs) == 0 || len(o.LeftAttrs) != len(o.RightAttrs) {
		return errors.Wrapf(ErrAttributeArity, "%d left vs %d right", len(o.LeftAttrs), len(o.RightAttrs))
	}
	return nil
}
