package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/netplan-sim/resilience-sim/sim/engine"
	"github.com/netplan-sim/resilience-sim/sim/metrics"
	"github.com/netplan-sim/resilience-sim/sim/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string  // Run file
	planPath   string  // Plan file for validate
	horizon    float64 // Overrides horizon_hours when > 0
	seed       int64   // Overrides the run file seed when set
	logLevel   string  // Log verbosity level
	traceOut   string  // Step trace JSON output
	metricsOut string  // Prometheus text output
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "resilience-sim",
	Short: "Discrete-event resilience simulator for network plans",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd simulates the run file and prints the summary
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a resilience simulation and print its summary as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		e, err := cfg.NewEngine()
		if err != nil {
			logrus.Fatalf("Unable to set up the run: %v", err)
		}
		summary, err := runEngine(e)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := summary.WriteJSON(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Writing summary: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// exportCmd simulates the run file and prints the final state as a plan
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a resilience simulation and write the final state as a net plan",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		e, err := cfg.NewEngine()
		if err != nil {
			logrus.Fatalf("Unable to set up the run: %v", err)
		}
		if _, err := runEngine(e); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := sim.WriteNetPlan(cmd.OutOrStdout(), e.State().ConvertToNetPlan()); err != nil {
			logrus.Fatalf("Writing plan: %v", err)
		}
	},
}

// validateCmd checks a plan file
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a net plan is consistent",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validatePlan(cmd.OutOrStdout(), planPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func loadConfig(cmd *cobra.Command) *RunConfig {
	cfg, err := LoadRunConfig(configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if horizon > 0 {
		cfg.Engine.HorizonHours = horizon
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if traceOut != "" {
		cfg.Engine.TraceLevel = trace.TraceLevelSteps
	}
	return cfg
}

// runEngine runs e, writing the trace and metrics files the flags ask for.
func runEngine(e *engine.Engine) (*engine.Summary, error) {
	reg := prometheus.NewRegistry()
	if metricsOut != "" {
		e.SetMetrics(metrics.NewCollector(reg))
	}
	summary, runErr := e.Run()
	if traceOut != "" {
		if err := writeFile(traceOut, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(e.Trace())
		}); err != nil {
			return nil, err
		}
	}
	if metricsOut != "" {
		if err := writeFile(metricsOut, func(w io.Writer) error { return metrics.WriteText(w, reg) }); err != nil {
			return nil, err
		}
	}
	return summary, runErr
}

func validatePlan(out io.Writer, path string) error {
	plan, err := sim.LoadNetPlan(path)
	if err != nil {
		return err
	}
	state, err := sim.NewNetState(plan, sim.DefaultConfig())
	if err != nil {
		return err
	}
	if err := state.CheckValidity(sim.DefaultPrecisionFactor, false, false); err != nil {
		logrus.Warnf("initial state: %v", err)
	}
	_, err = fmt.Fprintf(out, "%s: %d nodes, %d links, %d demands, %d SRGs, %d routes, %d segments\n",
		path, len(plan.Nodes), len(plan.Links), len(plan.Demands), len(plan.SRGs), state.NumRoutes(), state.NumSegments())
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, c := range []*cobra.Command{runCmd, exportCmd} {
		c.Flags().StringVar(&configPath, "config", "run.yaml", "Run configuration file")
		c.Flags().Float64Var(&horizon, "horizon", 0, "Simulation horizon in hours (overrides the run file)")
		c.Flags().Int64Var(&seed, "seed", 0, "Seed for random event generation (overrides the run file)")
		c.Flags().StringVar(&traceOut, "trace-out", "", "Write the step trace as JSON to this file")
		c.Flags().StringVar(&metricsOut, "metrics-out", "", "Write the final Prometheus metrics to this file")
	}
	validateCmd.Flags().StringVar(&planPath, "plan", "plan.yaml", "Net plan file")

	rootCmd.AddCommand(runCmd, exportCmd, validateCmd)
}
