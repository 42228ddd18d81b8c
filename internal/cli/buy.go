package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-app/ember-go/internal/api"
)

func newBuyCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Spend or purchase monetizable resources",
	}
	cmd.AddCommand(newBuyGemsCmd(app), newBoostCmd(app), newLetterCmd(app))
	return cmd
}

func newBuyGemsCmd(app *app) *cobra.Command {
	var packID string

	cmd := &cobra.Command{
		Use:   "gems",
		Short: "Purchase a gem pack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.api.PurchaseGems(cmd.Context(), packID)
			if err != nil {
				return fmt.Errorf("%s", api.ErrorMessage(err))
			}

			app.balances.SyncFromUser(user.UserBalances)
			fmt.Fprintf(cmd.OutOrStdout(), "Gems: %d\n", app.balances.Snapshot().Gems)
			return nil
		},
	}

	cmd.Flags().StringVar(&packID, "pack", "small", "gem pack id")
	return cmd
}

func newBoostCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "booster",
		Short: "Activate a profile booster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Optimistic local decrement; the caller checks sufficiency.
			if app.balances.Snapshot().Boosters == 0 {
				return fmt.Errorf("no boosters owned")
			}
			app.balances.DeductBooster()

			user, err := app.api.ActivateBooster(cmd.Context())
			if err != nil {
				// The optimistic decrement is not rolled back; re-sync from
				// the server instead.
				if me, meErr := app.api.Me(cmd.Context()); meErr == nil {
					app.balances.SyncFromUser(me.UserBalances)
				}
				return fmt.Errorf("%s", api.ErrorMessage(err))
			}

			app.balances.SyncFromUser(user.UserBalances)
			snap := app.balances.Snapshot()
			if snap.ActiveBoost != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Boost active until %s\n", snap.ActiveBoost.ExpiresAt.Format("15:04:05"))
			}
			return nil
		},
	}
}

func newLetterCmd(app *app) *cobra.Command {
	var recipientID, text string

	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Send a letter to an unmatched profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.balances.Snapshot().Letters == 0 {
				return fmt.Errorf("no letters owned")
			}
			app.balances.DeductLetter()

			user, err := app.api.SendLetter(cmd.Context(), recipientID, text)
			if err != nil {
				if me, meErr := app.api.Me(cmd.Context()); meErr == nil {
					app.balances.SyncFromUser(me.UserBalances)
				}
				return fmt.Errorf("%s", api.ErrorMessage(err))
			}

			app.balances.SyncFromUser(user.UserBalances)
			fmt.Fprintf(cmd.OutOrStdout(), "Letter sent, %d remaining\n", app.balances.Snapshot().Letters)
			return nil
		},
	}

	cmd.Flags().StringVar(&recipientID, "to", "", "recipient profile id")
	cmd.Flags().StringVar(&text, "text", "", "letter text")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}
