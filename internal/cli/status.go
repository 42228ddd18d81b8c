package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ember-app/ember-go/internal/api"
)

func newStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current balance snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.api.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", api.ErrorMessage(err))
			}

			app.balances.SyncFromUser(user.UserBalances)
			snap := app.balances.Snapshot()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(out, "  gems:     %d\n", snap.Gems)
			fmt.Fprintf(out, "  boosters: %d\n", snap.Boosters)
			fmt.Fprintf(out, "  letters:  %d\n", snap.Letters)
			if app.balances.BoostActive() {
				fmt.Fprintf(out, "  boost:    active until %s\n", snap.ActiveBoost.ExpiresAt.Format("15:04:05"))
			} else {
				fmt.Fprintln(out, "  boost:    none")
			}
			if snap.ReferralCode != "" {
				fmt.Fprintf(out, "  referral: %s (redeemed: %t)\n", snap.ReferralCode, snap.ReferralRedeemed)
			}
			return nil
		},
	}
}
