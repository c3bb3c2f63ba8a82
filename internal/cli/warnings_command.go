package cli

import (
	"github.com/spf13/cobra"
)

func (r *RootCommand) newWarningsCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "warnings",
		Short: "Show budget and long session warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, container, err := r.openServices()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			userID, err := lookupUser(ctx, repo, email)
			if err != nil {
				return err
			}

			warnings, err := container.WarningService.GetWarnings(ctx, userID)
			if err != nil {
				return r.errors.Handle("evaluate warnings", err)
			}

			if len(warnings) == 0 {
				printf(cmd, "No warnings\n")
				return nil
			}
			for _, w := range warnings {
				printf(cmd, "[%s] %s\n", w.Type, w.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "user", "", "Email address of the user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
