package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCmd wipes every persisted score field, including all-time counters.
func NewResetCmd(configPath *string) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all score data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to reset without --yes")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			engine, _, _, closeStore, err := newEngine(ctx, *configPath)
			if err != nil {
				return err
			}
			defer closeStore()
			engine.ResetAllData(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "all score data erased")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm erasing all data")
	return cmd
}
