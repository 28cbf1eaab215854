package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage back-office users",
	}
	cmd.AddCommand(newUsersCreateCmd(opts))
	return cmd
}

func newUsersCreateCmd(opts *rootOptions) *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a back-office user",
		Long:  "Create a user able to sign in to the back office. Without --password a random one is generated and printed once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			user, pw, err := a.auth.CreateUser(cmd.Context(), email, name, password)
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created user %s (%s)\n", user.Email, user.ID)
			if password == "" {
				fmt.Fprintf(out, "Generated password: %s\n", pw)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address used to sign in")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password (generated when empty)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
