// Command rosterctl is a small demo harness over the engine: load an
// OptimizationRequest fixture, run Optimize, and print the resulting
// RosterPlan. It plays the same role the teacher's cmd/cli plays for
// its allocator, scaled to the engine's single public operation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rostercraft/engine/internal/config"
	"github.com/rostercraft/engine/internal/obslog"
	"github.com/rostercraft/engine/pkg/core"
)

// appContext holds the CLI's shared dependencies, initialized once in
// PersistentPreRunE the way the teacher's App struct is built in
// initApp before any command body runs.
type appContext struct {
	ctx    context.Context
	logger *zap.Logger
	cfg    *config.Config
}

var (
	env string
	app *appContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "rosterctl - run the roster optimisation engine against a fixture",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment config suffix (optional: test, prod, ...)")
	rootCmd.AddCommand(optimizeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp() error {
	logger, err := obslog.New("rosterctl", "logs", zapcore.InfoLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		logger.Debug("no config file found, proceeding with defaults", zap.Error(err))
		cfg = &config.Config{}
	}

	app = &appContext{ctx: context.Background(), logger: logger, cfg: cfg}
	return nil
}

func optimizeCmd() *cobra.Command {
	var seed uint64
	var maxMinutes float64
	var outPath string

	cmd := &cobra.Command{
		Use:   "optimize <fixture.json>",
		Short: "Run the genetic algorithm against a fixture and print the resulting roster plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			if req.AlgorithmParameters == nil {
				req.AlgorithmParameters = map[string]string{}
			}
			for k, v := range app.cfg.DefaultAlgorithmParameters {
				if _, set := req.AlgorithmParameters[k]; !set {
					req.AlgorithmParameters[k] = v
				}
			}
			if maxMinutes > 0 {
				req.MaxExecutionTimeMinutes = maxMinutes
			}

			opts := []core.Option{core.WithLogger(app.logger)}
			if seed != 0 {
				opts = append(opts, core.WithSeed(seed))
			}
			if forced := app.cfg.ForcedDaysOff(req.StartDate, req.EndDate); len(forced) > 0 {
				opts = append(opts, core.WithForcedDaysOff(forced))
			}

			plan, err := core.Optimize(app.ctx, req, opts...)
			if err != nil {
				return fmt.Errorf("optimize: %w", err)
			}

			fmt.Printf("\nPlan %s (%s)\n", plan.PlanID, plan.AlgorithmUsed)
			fmt.Printf("  feasible:           %t\n", plan.Feasible)
			fmt.Printf("  fitness:            %.1f\n", plan.FitnessScore)
			fmt.Printf("  hard violations:    %d\n", plan.HardConstraintViolations)
			fmt.Printf("  soft violations:    %d\n", plan.SoftConstraintViolations)
			fmt.Printf("  assignments:        %d\n", plan.TotalAssignments)
			fmt.Printf("  task coverage:      %.1f%%\n", plan.TaskCoverageRate*100)
			fmt.Printf("  staff utilization:  %.1f%%\n", plan.StaffUtilizationRate*100)
			fmt.Printf("  unassigned tasks:   %v\n", plan.UnassignedTasks)
			fmt.Printf("  underutilized:      %v\n", plan.UnderutilizedStaff)
			fmt.Printf("  execution time:     %dms\n", plan.ExecutionTimeMs)
			fmt.Printf("  termination:        %v\n\n", plan.AlgorithmMetadata["termination_reason"])

			if outPath == "" {
				return nil
			}
			data, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal plan: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}
			fmt.Printf("Full plan written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Pin the run's RNG seed (0 = derive deterministically from the request)")
	cmd.Flags().Float64Var(&maxMinutes, "max-minutes", 0, "Override the request's execution time budget")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the full plan as JSON to this path")

	return cmd
}
