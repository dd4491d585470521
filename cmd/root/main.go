package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sjy-dv/simjoin/config"
	"github.com/sjy-dv/simjoin/join"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/dataset"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/expr"
)

var (
	leftFlag        = flag.String("left", "", "left binding table (msgpack)")
	rightFlag       = flag.String("right", "", "right binding table (msgpack)")
	kindFlag        = flag.String("kind", "knn", "join kind: knn or range")
	metricFlag      = flag.String("metric", distance.Euclidean, "distance function identifier")
	leftAttrsFlag   = flag.String("left-attrs", "", "comma separated left attribute variables")
	rightAttrsFlag  = flag.String("right-attrs", "", "comma separated right attribute variables")
	kFlag           = flag.Int("k", 1, "neighbours per left binding (knn)")
	maxFlag         = flag.Float64("max", 0, "largest distance kept (range)")
	minFlag         = flag.Float64("min", -1, "smallest distance kept (range, negative disables)")
	distVarFlag     = flag.String("dist-var", "", "variable receiving the distance")
	candidatesFlag  = flag.String("candidates", "scan", "range candidate mode: scan, pivot or tree")
	excludeSelfFlag = flag.Bool("exclude-self", false, "drop right bindings identical to the left binding at distance 0")
)

type cliArgs struct {
	left, right           string
	kind, metric          string
	leftAttrs, rightAttrs string
	k                     int
	max, min              float64
	distVar               string
	candidates            string
	excludeSelf           bool
}

func main() {
	flag.Parse()
	config.Config.ApplyFlags()
	zerolog.SetGlobalLevel(config.Config.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := cliArgs{
		left:        *leftFlag,
		right:       *rightFlag,
		kind:        *kindFlag,
		metric:      *metricFlag,
		leftAttrs:   *leftAttrsFlag,
		rightAttrs:  *rightAttrsFlag,
		k:           *kFlag,
		max:         *maxFlag,
		min:         *minFlag,
		distVar:     *distVarFlag,
		candidates:  *candidatesFlag,
		excludeSelf: *excludeSelfFlag || config.Config.Join.ExcludeSelf,
	}
	log.Info().Str("kind", args.kind).Str("metric", args.metric).Msg("simjoin start")
	out := bufio.NewWriter(os.Stdout)
	err := run(ctx, args, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		log.Error().Err(err).Msg("simjoin failed")
		os.Exit(1)
	}
}

func splitAttrs(s string) []expr.Expr {
	var names []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return expr.Vars(names...)
}

func options(args cliArgs) (join.Options, error) {
	opts := join.DefaultOptions()
	kind, err := join.ParseKind(args.kind)
	if err != nil {
		return opts, err
	}
	mode, err := join.ParseCandidateMode(args.candidates)
	if err != nil {
		return opts, err
	}
	opts.Kind = kind
	opts.Metric = args.metric
	opts.LeftAttrs = splitAttrs(args.leftAttrs)
	opts.RightAttrs = splitAttrs(args.rightAttrs)
	opts.DistanceVar = binding.Var(strings.TrimPrefix(strings.TrimSpace(args.distVar), "?"))
	opts.K = args.k
	opts.Range = join.AtMost(args.max)
	if args.min >= 0 {
		opts.Range = join.Between(args.min, args.max)
	}
	opts.Candidates = mode
	opts.ExcludeSelf = args.excludeSelf
	return opts, nil
}

// run joins the two tables and writes one output binding per line. Bounds
// for every left attribute are observed over both tables.
func run(ctx context.Context, args cliArgs, w io.Writer) error {
	if args.left == "" || args.right == "" {
		return errors.New("both -left and -right are required")
	}
	opts, err := options(args)
	if err != nil {
		return err
	}
	left, err := dataset.Load(args.left)
	if err != nil {
		return err
	}
	right, err := dataset.Load(args.right)
	if err != nil {
		return err
	}
	opts.Bounds = distance.BoundsMap{}
	for i := range opts.LeftAttrs {
		if i >= len(opts.RightAttrs) {
			break
		}
		key := opts.LeftAttrs[i].String()
		if err := dataset.ObservedBounds(opts.Bounds, key, left, opts.LeftAttrs[i]); err != nil {
			return err
		}
		if err := dataset.ObservedBounds(opts.Bounds, key, right, opts.RightAttrs[i]); err != nil {
			return err
		}
	}

	li, err := left.Iterator()
	if err != nil {
		return err
	}
	ri, err := right.Iterator()
	if err != nil {
		return err
	}
	solver, err := join.New(li, ri, nil, opts)
	if err != nil {
		return err
	}
	op := join.NewOperator(ctx, solver)
	defer op.Close()
	n := 0
	for {
		ok, err := op.HasNext()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		b, err := op.Next()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
		n++
	}
	log.Info().Int("rows", n).Msg("simjoin done")
	return nil
}
