package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"rm-polyfinder/pkg/config"
	"rm-polyfinder/pkg/finder"
	"rm-polyfinder/pkg/hash"
	"rm-polyfinder/pkg/metrics"
	"rm-polyfinder/pkg/minimize"
	"rm-polyfinder/pkg/poly"
	"rm-polyfinder/pkg/reduce"
	"rm-polyfinder/pkg/replist"
)

// app holds the state shared by all subcommands.
type app struct {
	stdout, stderr io.Writer

	logLevel    string
	output      string
	metricsFile string

	runID string
	log   *slog.Logger
	reg   *prometheus.Registry
	m     *metrics.Metrics
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "polyfinder",
		Short:         "Find low-term representatives of weight-constrained Boolean polynomials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.runID = newRunID()
			log, err := newLogger(a.stderr, a.logLevel, a.runID)
			if err != nil {
				return err
			}
			a.log = log
			a.reg = prometheus.NewRegistry()
			a.m = metrics.New(a.reg)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVarP(&a.output, "output", "o", "text", "output format (text, json)")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	root.AddCommand(a.newRunCmd(), a.newReduceCmd(), newVersionCmd())
	return root
}

func (a *app) newRunCmd() *cobra.Command {
	var (
		configPath string
		workers    int
		seed       uint64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enumerate candidates for every base pair and reduce them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			a.log.Info("configuration loaded",
				slog.String("path", configPath),
				slog.Int("pairs", len(cfg.BasePairs)),
				slog.Int("workers", cfg.Workers),
				slog.Uint64("seed", cfg.Seed))

			res, err := finder.New(finder.Options{Logger: a.log, Metrics: a.m}).Run(cmd.Context(), cfg)
			if err != nil {
				a.fail(err)
				return err
			}

			rep := newReport(res.Representatives)
			rep.RunID = a.runID
			rep.TargetWeight = cfg.TargetWeight
			rep.Seed = cfg.Seed
			rep.Leaves = res.Stats.Leaves
			rep.Hits = res.Stats.Hits
			rep.Candidates = res.Stats.Inserted
			rep.Seconds = res.TotalTime.Seconds()
			if err := writeReport(a.stdout, a.output, rep, res.Representatives); err != nil {
				return err
			}
			return a.writeMetrics()
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "poly_finder_instructions.txt", "run configuration (YAML or instruction file)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "override the worker count")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override the random seed")
	return cmd
}

func (a *app) newReduceCmd() *cobra.Command {
	var (
		input string
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Run the full reduction schedule again over a JSON result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return errors.New("--input is required")
			}
			prev, err := readReport(input)
			if err != nil {
				return err
			}
			ps, err := prev.polys()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = prev.Seed
			}
			start := time.Now()
			out, err := a.reduce(cmd.Context(), ps, seed)
			if err != nil {
				a.fail(err)
				return err
			}
			a.log.Info("reduction complete",
				slog.Int("before", len(ps)),
				slog.Int("after", len(out)),
				slog.Duration("elapsed", time.Since(start)))

			rep := newReport(out)
			rep.RunID = a.runID
			rep.TargetWeight = prev.TargetWeight
			rep.Seed = seed
			rep.Seconds = time.Since(start).Seconds()
			if err := writeReport(a.stdout, a.output, rep, out); err != nil {
				return err
			}
			return a.writeMetrics()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON result written by run --output json")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: the seed recorded in the input)")
	return cmd
}

func (a *app) reduce(ctx context.Context, ps []poly.Poly, seed uint64) ([]poly.Poly, error) {
	list := replist.New(len(ps))
	for _, p := range ps {
		if err := list.Insert(p); err != nil {
			return nil, err
		}
	}
	mz, err := minimize.New(poly.NewWorkspace(), hash.WorkerStream(seed, 0))
	if err != nil {
		return nil, err
	}
	if err := reduce.New(mz, a.log, a.m).Apply(ctx, list, reduce.FullSchedule); err != nil {
		return nil, err
	}
	a.m.SetListSize(metrics.StageFinal, list.Len())
	return list.Items(), nil
}

func (a *app) fail(err error) {
	a.log.Error("run failed", slog.Any("error", err))
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" {
		return nil
	}
	if err := metrics.WriteFile(a.reg, a.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.log.Debug("metrics written", slog.String("path", a.metricsFile))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "polyfinder", version)
		},
	}
}
