package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"timeledger/internal/domain"
	"timeledger/internal/repository/sqldb"
)

func (r *RootCommand) newUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var email string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Long: `Register a user and print an API token for it.

The password is read from the terminal without echo, or from the first line
of standard input when it is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.config.RequireJWTSecret(); err != nil {
				return err
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			repo, container, err := r.openServices()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			result, err := container.AuthService.Register(ctx, email, password)
			if err != nil {
				return r.errors.Handle("register user", err)
			}

			printf(cmd, "Created user %s (%s)\n", result.User.Email, result.User.UserID)
			printf(cmd, "Token: %s\n", result.Token)
			return nil
		},
	}
	addCmd.Flags().StringVar(&email, "email", "", "Email address of the user")
	_ = addCmd.MarkFlagRequired("email")

	userCmd.AddCommand(addCmd)
	return userCmd
}

// readPassword prompts on a terminal, otherwise reads one line of input
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// lookupUser resolves an email address to the id of a registered user
func lookupUser(ctx context.Context, repo sqldb.Repository, email string) (string, error) {
	user, err := repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
