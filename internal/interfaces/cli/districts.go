package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/slotfinder/internal/infrastructure/cowin"
	"github.com/example/slotfinder/internal/internaltypes"
)

func newDistrictsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "districts [state]",
		Short: "List states, or the districts of one state (by id or name)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadOrDefault(opts.configPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(cfg, opts.logger(cmd, ""))

			states, err := client.States(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 0 {
				fmt.Fprintln(tw, "ID\tSTATE")
				for _, s := range states {
					fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.Name)
				}
				return nil
			}

			state, err := findState(states, args[0])
			if err != nil {
				return err
			}
			districts, err := client.Districts(ctx, state.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tDISTRICT")
			for _, d := range districts {
				fmt.Fprintf(tw, "%d\t%s\n", d.ID, d.Name)
			}
			return nil
		},
	}
}

func findState(states []cowin.State, arg string) (cowin.State, error) {
	arg = strings.TrimSpace(arg)
	id, idErr := strconv.Atoi(arg)
	for _, s := range states {
		if (idErr == nil && s.ID == id) || strings.EqualFold(s.Name, arg) {
			return s, nil
		}
	}
	return cowin.State{}, fmt.Errorf("state %q: %w", arg, internaltypes.ErrNotFound)
}
