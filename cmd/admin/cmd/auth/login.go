package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/types"
	"travelex/internal/app/client/api"
)

var loginName string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend",
	Long: `Authenticate against the backend.

The session token is stored under the config dir so later invocations
reuse it until it expires or you log out.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}

		login := loginName
		if login == "" {
			var err error
			login, err = c.UI.PromptLine("Login")
			if err != nil {
				return err
			}
		}
		if login == "" {
			return errors.New("login must not be empty")
		}

		password, err := c.UI.PromptSecret("Password")
		if err != nil {
			return err
		}

		if err := c.Client.Login(cmd.Context(), login, password); err != nil {
			var authErr *api.AuthError
			if errors.As(err, &authErr) {
				return errors.New("invalid credentials")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		c.UI.Successf("logged in as %s", login)
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginName, "login", "l", "", "operator login")
}
