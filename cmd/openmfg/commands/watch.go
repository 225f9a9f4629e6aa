package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openmfg/openmfg/pkg/config"
	"github.com/openmfg/openmfg/pkg/telemetry"
)

func newWatchCommand() *cobra.Command {
	var (
		strict      bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Watch facility definitions and revalidate on change",
		Long: `Watch one or more facility definition files or directories and
rebuild the facility whenever a definition changes on disk.

Each successful rebuild reports the facility summary; invalid
definitions are logged and the previous state is kept. With
--metrics, requirement check outcomes are exposed on a Prometheus
endpoint. The command runs until interrupted.`,
		Example: `  # Watch a single definition file
  openmfg watch ./plant.yaml

  # Watch a directory, checking requirements and serving metrics
  openmfg watch --strict --metrics :9090 ./facilities/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tel, err := newWatchTelemetry(metricsAddr)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = tel.Shutdown(shutdownCtx)
			}()
			if err := tel.StartMetricsServer(); err != nil {
				return err
			}

			loader := config.NewLoader(log.Logger)
			watcher := config.NewWatcher(loader, log.Logger)
			defer watcher.Close()

			reload := func(facility *config.Facility) error {
				fmt.Printf("facility %q rebuilt: %d locations, %d products, %d jobs\n",
					facility.Name, len(facility.Locations), len(facility.Products), len(facility.Jobs))
				if strict {
					return reportUnsatisfied(facility, tel)
				}
				return nil
			}

			if err := watcher.Watch(ctx, args, reload); err != nil {
				return err
			}

			log.Info().Strs("paths", args).Msg("Watching for definition changes")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "also check job requirements after each rebuild")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")

	return cmd
}

// newWatchTelemetry assembles the telemetry stack for the watch loop.
// Metrics stay disabled unless an address is given.
func newWatchTelemetry(metricsAddr string) (*telemetry.Telemetry, error) {
	cfg := telemetry.DefaultConfig()
	cfg.Logging.Output = "stderr"
	cfg.Metrics.Enabled = metricsAddr != ""
	cfg.Metrics.ListenAddress = metricsAddr
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return telemetry.NewTelemetry(cfg)
}

// reportUnsatisfied checks every job action at its own location,
// prints the missing requirements and records the outcomes.
func reportUnsatisfied(facility *config.Facility, tel *telemetry.Telemetry) error {
	for _, job := range facility.Jobs {
		for _, action := range job.Actions() {
			location, err := resolveLocation(facility, action, "")
			if err != nil {
				return err
			}

			timer := telemetry.NewTimer()
			ok, missing := action.CheckRequirements(location.Snapshot())

			outcome := "satisfied"
			if !ok {
				outcome = "unsatisfied"
			}
			tel.Metrics.RecordCheckDuration(outcome, timer.Duration())

			unmet := make(map[string]bool, len(missing))
			for _, m := range missing {
				unmet[m] = true
			}
			for _, req := range action.Requirements() {
				reqOutcome := "satisfied"
				if unmet[req.String()] {
					reqOutcome = "unsatisfied"
				}
				tel.Metrics.RecordRequirementCheck(string(req.Kind()), reqOutcome)
			}

			if ok {
				continue
			}
			_ = tel.Events.PublishRequirementUnsatisfied(job.ID, action.ID, location.ID, missing)
			for _, m := range missing {
				fmt.Printf("  %s @ %s missing %s\n", action.Name, location.Name, m)
			}
		}
	}
	return nil
}
