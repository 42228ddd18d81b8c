package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-app/ember-go/internal/api"
)

func newLoginCmd(app *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s", api.ErrorMessage(err))
			}

			if user != nil {
				app.balances.SyncFromUser(user.UserBalances)
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Name)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged in")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and delete stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.api.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
