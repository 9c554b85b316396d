package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/slotfinder/internal/application/usecases"
	"github.com/example/slotfinder/internal/infrastructure/config"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and print the search plan without calling the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			plan, err := usecases.BuildPlan(cfg, time.Now())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config:       %s\n", opts.configPath)
			fmt.Fprintf(w, "date:         %s\n", plan.Criteria.Date)
			for _, t := range plan.Targets {
				fmt.Fprintf(w, "target:       %s\n", t)
			}
			if len(plan.Criteria.Facilities) > 0 {
				fmt.Fprintf(w, "facilities:   %s\n", strings.Join(plan.Criteria.Facilities, ", "))
			}
			vaccine := plan.Criteria.ResourceType
			if vaccine == "" {
				vaccine = "any"
			}
			fmt.Fprintf(w, "vaccine:      %s (dose %d)\n", vaccine, plan.Criteria.Dose)
			fmt.Fprintf(w, "subjects:     %d\n", len(plan.Auth.SubjectIDs))
			fmt.Fprintf(w, "delay:        %s\n", plan.Delay)
			fmt.Fprintf(w, "max attempts: %d\n", plan.MaxAttempts)
			color.New(color.FgGreen).Fprintln(w, "OK")
			return nil
		},
	}
}
