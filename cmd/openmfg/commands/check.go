package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openmfg/openmfg/pkg/config"
	"github.com/openmfg/openmfg/pkg/engine"
	"github.com/openmfg/openmfg/pkg/model"
)

func newCheckCommand() *cobra.Command {
	var (
		actionName   string
		locationName string
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check action requirements against location snapshots",
		Long: `Build a facility and verify that each action's requirements are
satisfied by the resources present at its location.

Without flags, every action of every job is checked at its own
location. Use --action to check a single action by name, and
--location to check against a specific location instead of the
action's own.

In strict mode, requirement kinds without a satisfaction rule fail
instead of being skipped, and any unsatisfied action makes the
command exit non-zero.`,
		Example: `  # Check all job actions
  openmfg check ./plant.yaml

  # Check one action against a specific location
  openmfg check ./plant.yaml --action cut-frame --location workshop

  # Fail on any unsatisfied or uncheckable requirement
  openmfg check ./plant.yaml --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			log.Info().
				Str("path", path).
				Str("action", actionName).
				Str("location", locationName).
				Bool("strict", strict).
				Msg("Checking requirements")

			loader := config.NewLoader(log.Logger)
			cfg, err := loader.Load(path)
			if err != nil {
				return err
			}
			facility, err := loader.Build(cfg)
			if err != nil {
				return err
			}

			checker := &engine.Checker{Strict: strict, Logger: log.Logger}

			unsatisfied := 0
			checked := 0
			for _, job := range facility.Jobs {
				for _, action := range job.Actions() {
					if actionName != "" && action.Name != actionName {
						continue
					}

					location, err := resolveLocation(facility, action, locationName)
					if err != nil {
						return err
					}

					ok, missing, err := checker.CheckAll(action, location.Snapshot())
					if err != nil {
						return fmt.Errorf("action %q: %w", action.Name, err)
					}
					checked++

					if ok {
						fmt.Printf("ok    %-20s @ %s\n", action.Name, location.Name)
						continue
					}
					unsatisfied++
					fmt.Printf("MISS  %-20s @ %s\n", action.Name, location.Name)
					for _, m := range missing {
						fmt.Printf("        missing %s\n", m)
					}
				}
			}

			if checked == 0 {
				return fmt.Errorf("no actions matched")
			}

			fmt.Printf("\n%d checked, %d unsatisfied\n", checked, unsatisfied)
			if strict && unsatisfied > 0 {
				return fmt.Errorf("%d actions unsatisfied", unsatisfied)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actionName, "action", "", "check only the named action")
	cmd.Flags().StringVar(&locationName, "location", "", "check against this location instead of the action's own")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on uncheckable kinds and unsatisfied actions")

	return cmd
}

// resolveLocation picks the location to check an action against. An
// explicit --location name wins; otherwise the action's own location
// reference is used.
func resolveLocation(facility *config.Facility, action *engine.Action, override string) (*model.Location, error) {
	if override != "" {
		location, ok := facility.Locations[override]
		if !ok {
			return nil, fmt.Errorf("unknown location %q", override)
		}
		return location, nil
	}

	for _, location := range facility.Locations {
		if location.ID == action.LocationID {
			return location, nil
		}
	}
	return nil, fmt.Errorf("action %q has no resolvable location, use --location", action.Name)
}
