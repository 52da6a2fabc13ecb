package cmd

import (
	"fmt"

	"github.com/kebairia/catbackup/internal/operations"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var token string

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the disk token and make sure the destination folder exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			// No prompt here: check is meant for scripts
			tok, _, err := operations.ResolveToken(cmd.Context(), cfg, token, nil)
			if err != nil {
				return err
			}

			om := operations.NewOperationManager(cfg, tok, operations.WithLogger(log))
			if err := om.Preflight(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token is valid, folder %q is ready\n", om.Folder())
			return nil
		},
	}

	checkCmd.Flags().StringVarP(&token, "token", "t", "", "disk token (overrides config, env and vault)")
	return checkCmd
}
