package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openmfg/openmfg/pkg/config"
)

func newValidateCommand() *cobra.Command {
	var parseOnly bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a facility definition file",
		Long: `Validate a YAML facility definition.

This command checks:
  - YAML syntax validity
  - Schema conformance (required fields, enum values, ranges)
  - Cross-references (routes, products, requirement kinds)

By default the facility is also fully built, which catches dangling
references that schema validation alone cannot see.`,
		Example: `  # Validate and build a facility definition
  openmfg validate ./plant.yaml

  # Schema check only, skip the build
  openmfg validate --parse-only ./plant.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			log.Info().
				Str("path", path).
				Bool("parse_only", parseOnly).
				Msg("Validating facility definition")

			loader := config.NewLoader(log.Logger)
			cfg, err := loader.Load(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if parseOnly {
				fmt.Printf("%s: definition is valid (%d locations, %d products, %d jobs)\n",
					path, len(cfg.Locations), len(cfg.Products), len(cfg.Jobs))
				return nil
			}

			facility, err := loader.Build(cfg)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}

			fmt.Printf("%s: facility %q is valid\n", path, facility.Name)
			fmt.Printf("  locations: %d\n", len(facility.Locations))
			fmt.Printf("  storages:  %d\n", len(facility.Storages))
			fmt.Printf("  routes:    %d\n", len(facility.Routes))
			fmt.Printf("  products:  %d\n", len(facility.Products))
			fmt.Printf("  jobs:      %d\n", len(facility.Jobs))

			return nil
		},
	}

	cmd.Flags().BoolVar(&parseOnly, "parse-only", false, "schema validation only, skip building the facility")

	return cmd
}
