package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maemo32/microsim/internal/report"
	"github.com/maemo32/microsim/internal/simconfig"
	"github.com/maemo32/microsim/internal/trace"
)

type runOpts struct {
	tracePath  string
	configPath string
	outPath    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var o runOpts

	root := &cobra.Command{
		Use:   "microsim",
		Short: "Instruction-stream driven micro-architectural simulator",
		Long: `microsim replays a recorded instruction trace through a configurable
cache hierarchy and branch-predictor set, producing per-level hit
ratios, per-predictor accuracy, and a cycles/instruction estimate
under a bounded memory-level-parallelism model.`,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a trace through the simulator and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), o)
		},
	}

	runCmd.Flags().StringVarP(&o.tracePath, "trace", "t", "", "path to the NDJSON trace file (required)")
	runCmd.Flags().StringVarP(&o.configPath, "config", "c", "", "path to a YAML config overriding the canonical hierarchy/predictors")
	runCmd.Flags().StringVarP(&o.outPath, "out", "o", "-", "path to write the report ('-' for stdout)")
	runCmd.Flags().StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	_ = runCmd.MarkFlagRequired("trace")

	root.AddCommand(runCmd)
	return root
}

func runSimulation(ctx context.Context, o runOpts) error {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	cfg, err := simconfig.LoadFile(o.configPath)
	if err != nil {
		return err
	}

	cpu, hierarchy, predictors, err := simconfig.BuildCPU(cfg)
	if err != nil {
		return err
	}

	traceFile, err := os.Open(o.tracePath)
	if err != nil {
		return fmt.Errorf("opening trace %s: %w", o.tracePath, err)
	}
	defer traceFile.Close()

	src := trace.NewReader(traceFile)
	defer src.Close()

	log.Info().Str("trace", o.tracePath).Msg("starting simulation")

	if err := cpu.Run(ctx, src); err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	out := os.Stdout
	if o.outPath != "" && o.outPath != "-" {
		f, err := os.Create(o.outPath)
		if err != nil {
			return fmt.Errorf("creating output %s: %w", o.outPath, err)
		}
		defer f.Close()
		out = f
	}

	if err := report.Write(out, cpu, hierarchy.L1, predictors); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	log.Info().
		Uint64("instructions", cpu.Instrs()).
		Uint64("cycles", cpu.Cycles()).
		Msg("simulation complete")

	return nil
}
