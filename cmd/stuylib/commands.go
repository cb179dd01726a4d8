package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/experiment"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/optim"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
	"github.com/StuyPulse/StuyLib-sub001/internal/tui"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

func runLoop(cmd *cobra.Command, args []string) error {
	if runAll {
		return runPresets(cmd, args)
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s with %s...\n", cfg.Mechanism, cfg.Controller)
	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	if err := save(cfg, result); err != nil {
		return err
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)
	return nil
}

// runPresets runs every preset of one mechanism side by side.
func runPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("--all needs a mechanism")
	}
	mech := args[0]
	names := config.ListPresets(mech)
	if len(names) == 0 {
		return fmt.Errorf("unknown mechanism: %s", mech)
	}

	cfgs := make([]*config.Config, len(names))
	jobs := make([]sim.Job, len(names))
	for i, name := range names {
		cfgs[i] = config.GetPreset(mech, name)
		cfg := cfgs[i]
		jobs[i] = sim.Job{
			Name: name,
			Build: func() (*sim.Simulator, sim.Loop, error) {
				exp, err := experiment.New(cfg)
				if err != nil {
					return nil, sim.Loop{}, err
				}
				return exp.GetSimulator(), exp.Loop(), nil
			},
		}
	}

	results, err := sim.RunAll(context.Background(), jobs, workers)
	if err != nil {
		return err
	}

	for i, result := range results {
		fmt.Printf("\n%s/%s\n", mech, names[i])
		if err := save(cfgs[i], result); err != nil {
			return err
		}
		printMetrics(result.Metrics)
	}
	return nil
}

func save(cfg *config.Config, result *sim.Result) error {
	if noSave {
		return nil
	}
	st := newStore()
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", id)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %-16s %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := newStore().List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMECHANISM\tCONTROLLER\tSTEPS\tIAE\tTIME")
	for _, r := range runs {
		iae := "-"
		if v, ok := r.Metrics["iae"]; ok {
			iae = strconv.FormatFloat(v, 'f', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Mechanism, r.Controller, r.Steps, iae, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := newStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if result.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s (%s, %s)\n\n", meta.ID, meta.Mechanism, meta.Controller)
	fmt.Println(asciigraph.PlotMany([][]float64{result.Setpoints, result.Measurements},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("setpoint (blue) / measurement (green)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(result.Outputs,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red),
		asciigraph.Caption("output (V)"),
	))
	return nil
}

func liveLoop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	// The live view owns the terminal.
	exp, err := experiment.New(cfg, experiment.WithLogger(logging.Nop()))
	if err != nil {
		return err
	}
	return tui.Run(tui.NewLive(exp, tui.WithSpeed(speed)))
}

func tuneLoop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid range is required")
	}

	params := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, g := range grid {
		name, values, err := parseRange(g)
		if err != nil {
			return err
		}
		params = append(params, name)
		ranges = append(ranges, values)
	}

	logger := quietLogger()
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for name, v := range p {
			if err := c.SetGain(name, v); err != nil {
				return nil, err
			}
		}
		return experiment.New(c, experiment.WithLogger(logger))
	}

	start := time.Now()
	best, trials, err := optim.NewGridSearch(params, ranges).
		Workers(workers).
		Search(context.Background(), build, optim.Minimize(objective))
	if err != nil {
		return err
	}
	fmt.Printf("%d trials in %v\n\n", len(trials), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(objective), strings.ToUpper(strings.Join(params, "\t")))
	for _, t := range trials[:min(top, len(trials))] {
		row := []string{strconv.FormatFloat(t.Score, 'f', 4, 64)}
		for _, p := range params {
			row = append(row, strconv.FormatFloat(t.Params[p], 'g', 4, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nbest:")
	printMetrics(best.Metrics)
	return nil
}

// parseRange reads name=lo:hi:n.
func parseRange(s string) (string, []float64, error) {
	name, bounds, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("expected name=lo:hi:n, got %q", s)
	}
	parts := strings.Split(bounds, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("expected lo:hi:n for %s, got %q", name, bounds)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad point count for %s: %q", name, parts[2])
	}
	return strings.ToLower(strings.TrimSpace(name)), optim.Linspace(lo, hi, n), nil
}

// fuseDemo tracks a sine with two bad sensors: an absolute one with white
// noise and a smooth one that drifts. The fuser should beat both.
func fuseDemo(cmd *cobra.Command, args []string) error {
	if dt <= 0 || duration <= dt {
		return fmt.Errorf("need 0 < dt < time")
	}
	mock := clock.NewMock()
	rng := rand.New(rand.NewPCG(seed, seed))

	var truth, base, fast float64
	fuser := stream.NewFuser(tunable.Const(fuseRC),
		stream.Func[float64](func() float64 { return base }),
		stream.Func[float64](func() float64 { return fast }),
		stream.WithClock(mock),
	)

	steps := int(duration / dt)
	step := time.Duration(dt * float64(time.Second))
	truths := make([]float64, 0, steps)
	fused := make([]float64, 0, steps)
	var seBase, seFast, seFused float64

	for i := 1; i <= steps; i++ {
		mock.Add(step)
		t := float64(i) * dt
		truth = math.Sin(t)
		base = truth + rng.NormFloat64()*fuseNoise
		fast = truth + fuseDrift*t

		f := fuser.Get()
		truths = append(truths, truth)
		fused = append(fused, f)

		seBase += (base - truth) * (base - truth)
		seFast += (fast - truth) * (fast - truth)
		seFused += (f - truth) * (f - truth)
	}

	n := float64(steps)
	fmt.Println(asciigraph.PlotMany([][]float64{truths, fused},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("truth (blue) / fused (green)"),
	))
	fmt.Println()
	fmt.Printf("rms error\n")
	fmt.Printf("  base   %.4f\n", math.Sqrt(seBase/n))
	fmt.Printf("  fast   %.4f\n", math.Sqrt(seFast/n))
	fmt.Printf("  fused  %.4f\n", math.Sqrt(seFused/n))
	return nil
}
