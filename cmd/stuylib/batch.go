package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/StuyPulse/StuyLib-sub001/internal/analysis"
	"github.com/StuyPulse/StuyLib-sub001/internal/automation"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/metrics"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := newStore()
	cfg, err := st.LoadConfig(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %s)\n\n", args[0], cfg.Mechanism, cfg.Controller)

	if resp, ok := analysis.NewStepResponse(result); ok {
		fmt.Println("step response:")
		fmt.Printf("  %g -> %g at %.3fs\n", resp.Start, resp.Target, resp.StepTime)
		if resp.RiseTime == analysis.NotReached {
			fmt.Println("  rise time     not reached")
		} else {
			fmt.Printf("  rise time     %.4fs\n", resp.RiseTime)
		}
		fmt.Printf("  peak          %.4f at %.3fs (%.1f%% overshoot)\n", resp.Peak, resp.PeakTime, resp.Overshoot()*100)
		fmt.Printf("  steady error  %.4f\n\n", resp.SteadyStateError)
	}

	errFn := metrics.Linear
	if sys, err := plant.New(cfg.Mechanism); err == nil {
		if _, ok := sys.(plant.Angular); ok {
			errFn = metrics.Angular
		}
	}
	portrait := analysis.NewPhasePortrait(result, errFn)

	errs := make([]float64, len(portrait.Points))
	for i, p := range portrait.Points {
		errs[i] = p.X
	}
	hz, share := analysis.DominantFrequency(errs, cfg.Sim.Dt)
	fmt.Printf("oscillation: %d crossings, dominant %.3f Hz (%.0f%% of spectrum)\n\n", portrait.Crossings(), hz, share*100)

	fmt.Println("phase portrait (error vs error rate):")
	fmt.Print(portrait.ASCII(60, 16))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, workers, quietLogger())
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("\n%s\n", r.Name)
		if err := save(r.Config, r.Result); err != nil {
			return err
		}
		printMetrics(r.Result.Metrics)
	}
	return nil
}

func robustLoop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:    cfg,
		Spread:  spread,
		Trials:  trials,
		Seed:    seed,
		Workers: workers,
	}, logging.Global())
	if err != nil {
		return err
	}

	stable, settled := automation.MonteCarloStats(results)
	fmt.Printf("%s/%s against ±%.0f%% plant mismatch, %d trials\n", cfg.Mechanism, cfg.Controller, spread*100, len(results))
	fmt.Printf("  stable   %d (%.0f%%)\n", stable, pct(stable, len(results)))
	fmt.Printf("  settled  %d (%.0f%%)\n", settled, pct(settled, len(results)))
	return nil
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
