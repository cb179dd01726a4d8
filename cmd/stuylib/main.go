package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
	"github.com/StuyPulse/StuyLib-sub001/internal/storage"
	"github.com/StuyPulse/StuyLib-sub001/internal/tui"
)

var (
	dataDir    string
	debug      bool
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	controller string
	setpoint   float64
	gains      []string
	runAll     bool
	noSave     bool
	workers    int
	speed      float64
	outPath    string
	grid       []string
	objective  string
	top        int
	fuseRC     float64
	fuseNoise  float64
	fuseDrift  float64
	seed       uint64
	spread     float64
	trials     int
)

// main registers the commands and opens the preset browser when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "stuylib",
		Short: "filters, streams and control loops on simulated mechanisms",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ReplaceGlobal(logging.New("stuylib", debug))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(tui.NewApp(nil))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stuylib", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [mechanism]",
		Short: "run a closed loop and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLoop,
	}
	loopFlags(runCmd)
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every preset of the mechanism")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot setpoint, measurement and output of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newStore().Export(args[0], outPath)
		},
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [mechanism]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [mechanism]",
		Short: "run a loop in real time with live tuning",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveLoop,
	}
	loopFlags(liveCmd)
	liveCmd.Flags().Float64Var(&speed, "speed", 1, "playback speed")

	tuneCmd := &cobra.Command{
		Use:   "tune [mechanism]",
		Short: "grid search over gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneLoop,
	}
	loopFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "gain range as name=lo:hi:n, repeatable")
	tuneCmd.Flags().StringVar(&objective, "objective", "iae", "metric to minimize")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "parallel trials (0 = GOMAXPROCS)")
	tuneCmd.Flags().IntVar(&top, "top", 5, "trials to show")

	fuseCmd := &cobra.Command{
		Use:   "fuse",
		Short: "fuse a noisy absolute sensor with a drifting fast one",
		RunE:  fuseDemo,
	}
	fuseCmd.Flags().Float64Var(&fuseRC, "rc", 0.5, "fuser time constant (s)")
	fuseCmd.Flags().Float64Var(&fuseNoise, "noise", 0.2, "base sensor noise (std dev)")
	fuseCmd.Flags().Float64Var(&fuseDrift, "drift", 0.3, "fast sensor drift (units/s)")
	fuseCmd.Flags().Float64Var(&duration, "time", 10, "duration")
	fuseCmd.Flags().Float64Var(&dt, "dt", 0.02, "timestep")
	fuseCmd.Flags().Uint64Var(&seed, "seed", 1, "noise seed")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "step response, oscillation and phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of loops",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	robustCmd := &cobra.Command{
		Use:   "robust [mechanism]",
		Short: "monte carlo check of a loop against plant mismatch",
		Args:  cobra.MaximumNArgs(1),
		RunE:  robustLoop,
	}
	loopFlags(robustCmd)
	robustCmd.Flags().Float64Var(&spread, "spread", 0.2, "relative plant parameter spread")
	robustCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	robustCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	robustCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, presetsCmd, liveCmd, tuneCmd, fuseCmd,
		analyzeCmd, scenarioCmd, robustCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loopFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name")
	cmd.Flags().Float64Var(&dt, "dt", 0.02, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 3, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().StringVar(&controller, "controller", "pidff", "controller")
	cmd.Flags().Float64Var(&setpoint, "setpoint", 0, "constant setpoint")
	cmd.Flags().StringArrayVar(&gains, "gain", nil, "gain override as name=value, repeatable")
}

// quietLogger only reports warnings, for commands that run many loops.
func quietLogger() *zap.SugaredLogger {
	cfg := logging.NewConfig(debug)
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return logging.Nop()
	}
	return logger.Named("stuylib").Sugar()
}

func newStore() *storage.Store {
	return storage.New(dataDir, storage.WithLogger(logging.Global()))
}

// loadConfig resolves the loop to run: a config file, a named preset, or
// the mechanism's first preset. Flags that were set explicitly win.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	mechanism := ""
	if len(args) > 0 {
		mechanism = args[0]
	}

	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case mechanism == "":
		cfg = config.DefaultConfig()
	default:
		names := config.ListPresets(mechanism)
		if len(names) == 0 {
			return nil, fmt.Errorf("unknown mechanism: %s (available: %v)", mechanism, plant.Names())
		}
		name := preset
		if name == "" {
			name = names[0]
		}
		cfg = config.GetPreset(mechanism, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, names)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("setpoint") {
		cfg.Setpoints = sim.Schedule{{At: 0, Value: setpoint}}
	}
	for _, g := range gains {
		name, v, err := parseAssign(g)
		if err != nil {
			return nil, err
		}
		if err := cfg.SetGain(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

func parseAssign(s string) (string, float64, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("expected name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad value for %s: %w", name, err)
	}
	return strings.ToLower(strings.TrimSpace(name)), v, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	mechanisms := plant.Names()
	if len(args) > 0 {
		mechanisms = args
	}
	for _, mech := range mechanisms {
		names := config.ListPresets(mech)
		if len(names) == 0 {
			return fmt.Errorf("unknown mechanism: %s", mech)
		}
		fmt.Printf("%s:\n", mech)
		for _, name := range names {
			cfg := config.GetPreset(mech, name)
			fmt.Printf("  %-10s %-12s setpoint %-8g %.1fs\n", name, cfg.Controller, cfg.Setpoints.Final(), cfg.Sim.Duration)
		}
	}
	return nil
}
