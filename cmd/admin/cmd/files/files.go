// Package files exposes receipt upload and stored-file download.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/types"
)

var downloadTo string

var Cmd = &cobra.Command{
	Use:   "files",
	Short: "Upload receipts and download stored files",
}

var uploadCmd = &cobra.Command{
	Use:   "upload PATH",
	Short: "Upload a receipt file",
	Long: `Upload a receipt file.

The server prints the stored name; attach it to an expense with
--set receipt_file=NAME.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}
		if err := c.RequireLogin(); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		stored, err := c.Client.UploadFile(cmd.Context(), "/api/receipts", filepath.Base(args[0]), f)
		if err != nil {
			return err
		}

		c.UI.Successf("stored as %s (%d bytes)", stored.Name, stored.Size)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download NAME",
	Short: "Download a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}
		if err := c.RequireLogin(); err != nil {
			return err
		}

		target := downloadTo
		if target == "" {
			target = args[0]
		}

		out, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()

		if err := c.Client.DownloadFile(cmd.Context(), args[0], out); err != nil {
			os.Remove(target)
			return err
		}

		c.UI.Successf("saved to %s", target)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadTo, "output", "o", "", "output path, defaults to the stored name")

	Cmd.AddCommand(uploadCmd, downloadCmd)
}
