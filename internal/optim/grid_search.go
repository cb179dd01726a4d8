package optim

import (
	"context"
	"math"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/StuyPulse/StuyLib-sub001/internal/experiment"
	"github.com/StuyPulse/StuyLib-sub001/internal/metrics"
)

var ErrNoTrials = errors.New("optim: no successful trials")

// Objective scores a run's metrics; lower is better.
type Objective func(m map[string]float64) float64

// Minimize scores by a single metric. A run that never settled scores +Inf.
func Minimize(name string) Objective {
	return func(m map[string]float64) float64 {
		v, ok := m[name]
		if !ok || math.IsNaN(v) {
			return math.Inf(1)
		}
		if name == "settling_time" && v == metrics.NeverSettled {
			return math.Inf(1)
		}
		return v
	}
}

// Trial is one point of the grid.
type Trial struct {
	Params  map[string]float64
	Metrics map[string]float64
	Score   float64
	Err     error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: runtime.GOMAXPROCS(0)}
}

// Workers limits how many trials run at once.
func (g *GridSearch) Workers(n int) *GridSearch {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Search runs build for every combination of parameters. Trials that fail
// to build or go unstable score +Inf and are kept in the returned list,
// which is sorted best first.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, errors.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var points []map[string]float64
	g.expand(0, make(map[string]float64), &points)

	trials := make([]Trial, len(points))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, params := range points {
		eg.Go(func() error {
			trials[i] = g.trial(ctx, params, build, objective)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return Trial{}, nil, err
	}

	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Score < trials[j].Score })
	if len(trials) == 0 || math.IsInf(trials[0].Score, 1) {
		return Trial{}, trials, ErrNoTrials
	}
	return trials[0], trials, nil
}

func (g *GridSearch) trial(
	ctx context.Context,
	params map[string]float64,
	build func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) Trial {
	t := Trial{Params: params, Score: math.Inf(1)}

	exp, err := build(params)
	if err != nil {
		t.Err = err
		return t
	}
	result, err := exp.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}

	t.Metrics = result.Metrics
	t.Score = objective(result.Metrics)
	return t
}

func (g *GridSearch) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.expand(depth+1, current, out)
	}
	delete(current, paramName)
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}
