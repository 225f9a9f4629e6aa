package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openmfg/openmfg/pkg/config"
	"github.com/openmfg/openmfg/pkg/engine"
	"github.com/openmfg/openmfg/pkg/stores"
	"github.com/openmfg/openmfg/pkg/telemetry"
)

func newJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage production jobs",
		Long: `Inspect and transition production jobs.

Job state is persisted in a SQLite database (--db). Lifecycle
transitions load the job from a facility definition, apply the
transition through the engine and persist the result.`,
	}

	cmd.AddCommand(newJobsListCommand())
	cmd.AddCommand(newJobsShowCommand())
	cmd.AddCommand(newJobsTransitionCommand("start", "Start a planned job",
		func(j *engine.Job, _ string) error { return j.Start() }))
	cmd.AddCommand(newJobsTransitionCommand("hold", "Put a job on hold",
		func(j *engine.Job, reason string) error { j.PutOnHold(reason); return nil }))
	cmd.AddCommand(newJobsTransitionCommand("resume", "Resume a job on hold",
		func(j *engine.Job, _ string) error { return j.Resume() }))
	cmd.AddCommand(newJobsTransitionCommand("complete", "Mark a job completed",
		func(j *engine.Job, _ string) error { j.Complete(); return nil }))
	cmd.AddCommand(newJobsTransitionCommand("cancel", "Cancel a job",
		func(j *engine.Job, reason string) error { j.Cancel(reason); return nil }))

	return cmd
}

// openStore opens, initializes and migrates the job database.
func openStore(ctx context.Context) (*stores.SQLiteStore, error) {
	store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newJobsListCommand() *cobra.Command {
	var (
		statusFilter string
		limit        int
		offset       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted jobs",
		Example: `  # List all jobs
  openmfg jobs list

  # Only jobs currently in progress
  openmfg jobs list --status in_progress`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var status *engine.JobStatus
			if statusFilter != "" {
				s := engine.JobStatus(statusFilter)
				if err := s.Validate(); err != nil {
					return err
				}
				status = &s
			}

			records, err := store.ListJobs(ctx, status, limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(records)
			}

			if len(records) == 0 {
				fmt.Println("no jobs found")
				return nil
			}
			fmt.Printf("%-36s  %-12s  %-8s  %6s  %s\n", "ID", "STATUS", "PRIORITY", "PROG", "DUE")
			for _, rec := range records {
				fmt.Printf("%-36s  %-12s  %-8s  %5.1f%%  %s\n",
					rec.ID, rec.Status, rec.Priority, rec.Progress,
					rec.DueDate.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "filter by job status")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of jobs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of jobs to skip")

	return cmd
}

func newJobsShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job with its actions and allocations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			jobID := args[0]

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.GetJob(ctx, jobID)
			if err != nil {
				return err
			}
			actions, err := store.ListActionsByJob(ctx, jobID)
			if err != nil {
				return err
			}
			allocations, err := store.ListAllocationsByJob(ctx, jobID)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"job":         rec,
					"actions":     actions,
					"allocations": allocations,
				})
			}

			fmt.Printf("job       %s\n", rec.ID)
			fmt.Printf("customer  %s\n", rec.CustomerID)
			fmt.Printf("status    %s\n", rec.Status)
			fmt.Printf("priority  %s\n", rec.Priority)
			fmt.Printf("progress  %.1f%%\n", rec.Progress)
			fmt.Printf("due       %s\n", rec.DueDate.Format(time.RFC3339))
			if rec.StartDate != nil {
				fmt.Printf("started   %s\n", rec.StartDate.Format(time.RFC3339))
			}
			if rec.CompletionDate != nil {
				fmt.Printf("finished  %s\n", rec.CompletionDate.Format(time.RFC3339))
			}

			allocated := make(map[string]string, len(allocations))
			for _, alloc := range allocations {
				allocated[alloc.ActionID] = alloc.ResourceID
			}

			fmt.Printf("\nactions (%d):\n", len(actions))
			for _, action := range actions {
				fmt.Printf("  %2d. %-20s %-12s %-12s", action.SequenceNr, action.Name, action.Type, action.Status)
				if resource, ok := allocated[action.ID]; ok {
					fmt.Printf("  -> %s", resource)
				}
				fmt.Println()
			}
			return nil
		},
	}

	return cmd
}

// newJobsTransitionCommand builds a lifecycle subcommand. The job is
// rebuilt from the facility definition, rehydrated from the database,
// transitioned through the engine and persisted back. The resulting
// lifecycle event goes through the event publisher, which appends it
// to the job event log.
func newJobsTransitionCommand(verb, short string, transition func(*engine.Job, string) error) *cobra.Command {
	var (
		facilityPath string
		reason       string
	)

	cmd := &cobra.Command{
		Use:     fmt.Sprintf("%s <job-id>", verb),
		Short:   short,
		Example: fmt.Sprintf("  openmfg jobs %s job-widget-1 -f ./plant.yaml", verb),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			jobID := args[0]

			loader := config.NewLoader(log.Logger)
			cfg, err := loader.Load(facilityPath)
			if err != nil {
				return err
			}
			facility, err := loader.Build(cfg)
			if err != nil {
				return err
			}

			job, err := facility.Registry.Job(jobID)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			// A rebuilt job always comes out planned; replay the
			// persisted state before transitioning. A job missing
			// from the store has never been transitioned.
			if err := stores.RestoreJob(ctx, store, job); err != nil && !errors.Is(err, stores.ErrNotFound) {
				return err
			}

			events, err := newTransitionEvents(ctx, store)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = events.Shutdown(shutdownCtx)
			}()

			if err := transition(job, reason); err != nil {
				return err
			}

			if err := store.SaveJob(ctx, job); err != nil {
				return err
			}

			publishTransition(events, verb, job, reason)

			fmt.Printf("job %s is now %s\n", job.ID, job.Status())
			return nil
		},
	}

	cmd.Flags().StringVarP(&facilityPath, "file", "f", "", "facility definition file (required)")
	_ = cmd.MarkFlagRequired("file")
	if verb == "hold" || verb == "cancel" {
		cmd.Flags().StringVar(&reason, "reason", "", "reason for the transition")
	}

	return cmd
}

// newTransitionEvents builds a synchronous event publisher whose
// subscriber appends each lifecycle event to the job event log.
func newTransitionEvents(ctx context.Context, store stores.Store) (*telemetry.EventPublisher, error) {
	cfg := telemetry.DefaultConfig().Events
	cfg.EnableAsync = false
	events, err := telemetry.NewEventPublisher(cfg)
	if err != nil {
		return nil, err
	}
	events.Subscribe(func(event telemetry.Event) {
		if err := store.AppendEvent(ctx, toStoreEvent(event)); err != nil {
			log.Warn().Err(err).Str("event_type", event.Type).Msg("Failed to record job event")
		}
	}, nil)
	return events, nil
}

// toStoreEvent converts a telemetry event to its persisted form.
func toStoreEvent(event telemetry.Event) *stores.Event {
	rec := &stores.Event{
		Level:     stores.EventLevel(event.Level),
		Message:   event.Message,
		Timestamp: event.Timestamp,
	}
	if event.JobID != "" {
		jobID := event.JobID
		rec.JobID = &jobID
	}
	if event.ActionID != "" {
		actionID := event.ActionID
		rec.ActionID = &actionID
	}
	return rec
}

// publishTransition emits the lifecycle event matching a transition
// verb. Publish failures are logged, not fatal; the transition itself
// has already been persisted.
func publishTransition(events *telemetry.EventPublisher, verb string, job *engine.Job, reason string) {
	var err error
	switch verb {
	case "start":
		err = events.PublishJobStarted(job.ID, string(job.Priority))
	case "hold":
		err = events.PublishJobOnHold(job.ID, reason)
	case "resume":
		err = events.PublishJobResumed(job.ID)
	case "complete":
		var duration time.Duration
		if start, end := job.StartDate(), job.CompletionDate(); start != nil && end != nil {
			duration = end.Sub(*start)
		}
		err = events.PublishJobCompleted(job.ID, duration)
	case "cancel":
		err = events.PublishJobCancelled(job.ID, reason)
	}
	if err != nil {
		log.Warn().Err(err).Str("verb", verb).Msg("Failed to publish job event")
	}
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
