package auth

import (
	"errors"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}

		if !c.Client.Session().Active() {
			c.UI.Infof("no active session")
			return nil
		}

		if err := c.Client.Logout(); err != nil {
			return err
		}
		c.UI.Successf("logged out")
		return nil
	},
}
