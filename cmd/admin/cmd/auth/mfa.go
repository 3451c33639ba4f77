package auth

import (
	"errors"
	"regexp"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/types"
	"travelex/internal/domain/mfa"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

var MFACmd = &cobra.Command{
	Use:   "mfa",
	Short: "Manage two-factor authentication",
}

var mfaEnrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll an authenticator app",
	Long: `Enroll an authenticator app.

The server issues a TOTP secret; load it into your authenticator and
confirm with a generated code. Leaving the code empty cancels the
enrollment.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}
		if err := c.RequireLogin(); err != nil {
			return err
		}

		wiz := mfa.NewWizard()

		enrollment, err := c.Client.BeginMFA(cmd.Context())
		if err != nil {
			return err
		}
		if err := wiz.Begin(enrollment); err != nil {
			return err
		}

		c.UI.Infof("Secret:  %s", enrollment.Secret)
		c.UI.Infof("URL:     %s", enrollment.OTPAuthURL)
		c.UI.Infof("Add the secret to your authenticator app, then enter a code.")

		code, err := c.UI.PromptLine("Code (empty to cancel)")
		if err != nil {
			return err
		}
		if code == "" {
			if err := wiz.Cancel(); err != nil {
				return err
			}
			c.UI.Infof("enrollment cancelled")
			return nil
		}
		if !codePattern.MatchString(code) {
			return errors.New("code must be six digits")
		}

		if err := c.Client.ConfirmMFA(cmd.Context(), code); err != nil {
			return err
		}
		if err := wiz.Confirm(); err != nil {
			return err
		}

		c.UI.Successf("two-factor authentication is active")
		return nil
	},
}

func init() {
	MFACmd.AddCommand(mfaEnrollCmd)
}
