package auth

import (
	"errors"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/types"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session state and server reachability",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}

		sess := c.Client.Session()
		if sess.Active() {
			c.UI.Infof("logged in as %s", sess.Login())
		} else {
			c.UI.Infof("not logged in")
		}

		if err := c.Client.Health(cmd.Context()); err != nil {
			c.UI.Warnf("server %s unreachable: %v", c.Cfg.ServerAddress, err)
			return nil
		}
		c.UI.Successf("server %s is up", c.Cfg.ServerAddress)
		return nil
	},
}
