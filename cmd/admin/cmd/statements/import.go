// Package statements drives the card-statement import wizard from the
// terminal: upload, group review, alert pre-check, commit.
package statements

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/terminal"
	"travelex/cmd/admin/cmd/types"
	"travelex/internal/app/client/api"
	"travelex/internal/collection"
	"travelex/internal/domain/statement"
)

var (
	importFile     string
	acceptProposed bool
)

var Cmd = &cobra.Command{
	Use:   "statements",
	Short: "Import card statements",
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a card-statement CSV file",
	Long: `Import a card-statement CSV file.

The server parses the file, matches cardholders to known users and
consolidates transactions into per-traveler groups. You review the
groups, pick which to include, and the commit turns each included group
into one prepayment plus one expense per transaction.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := types.From(cmd.Context())
		if c == nil {
			return errors.New("command context not initialized")
		}
		if err := c.RequireLogin(); err != nil {
			return err
		}

		wiz := statement.NewWizard()

		imp, err := upload(cmd, c, wiz)
		if err != nil {
			return err
		}

		c.UI.Infof("%s: %d transactions, %d matched", imp.Filename, imp.TotalCount, imp.MatchedCount)
		printGroups(c.UI, wiz.Groups())

		if !acceptProposed {
			if err := review(c.UI, wiz); err != nil {
				return err
			}
		}

		if err := wiz.ToConfirm(); err != nil {
			return err
		}

		ok, err := confirmCommit(cmd, c, wiz)
		if err != nil {
			return err
		}
		if !ok {
			if err := wiz.Back(); err != nil {
				return err
			}
			c.UI.Infof("commit cancelled, nothing was created")
			return nil
		}

		report, err := c.Client.CommitStatement(cmd.Context(), imp.ID, wiz.Decisions())
		if err != nil {
			if stepErr := wiz.CommitFailed(); stepErr != nil {
				return stepErr
			}
			return err
		}
		if err := wiz.CommitDone(); err != nil {
			return err
		}

		printReport(c.UI, report)
		return nil
	},
}

func upload(cmd *cobra.Command, c *types.Container, wiz *statement.Wizard) (statement.Import, error) {
	f, err := os.Open(importFile)
	if err != nil {
		return statement.Import{}, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	if err := wiz.BeginUpload(); err != nil {
		return statement.Import{}, err
	}

	imp, err := c.Client.UploadStatement(cmd.Context(), filepath.Base(importFile), f)
	if err != nil {
		if stepErr := wiz.UploadFailed(); stepErr != nil {
			return statement.Import{}, stepErr
		}
		return statement.Import{}, err
	}

	groups, err := c.Client.StatementGroups(cmd.Context(), imp.ID)
	if err != nil {
		if stepErr := wiz.UploadFailed(); stepErr != nil {
			return statement.Import{}, stepErr
		}
		return statement.Import{}, err
	}

	if err := wiz.UploadDone(imp, groups); err != nil {
		return statement.Import{}, err
	}
	return imp, nil
}

// review walks the operator over every group. Matched groups default to
// included, unmatched to excluded; either can be overridden.
func review(ui *terminal.UI, wiz *statement.Wizard) error {
	for i, g := range wiz.Groups() {
		def := "Y/n"
		if !g.Matched {
			def = "y/N"
		}
		answer, err := ui.PromptLine(fmt.Sprintf("Include group %d, %s %.2f %s? [%s]",
			i+1, g.Cardholder, g.Total, g.Currency, def))
		if err != nil {
			return err
		}

		include := g.Matched
		switch strings.ToLower(answer) {
		case "y", "yes":
			include = true
		case "n", "no":
			include = false
		}

		decision := statement.Decision{GroupIndex: i, Include: include}
		if include {
			purpose, err := ui.PromptLine("  Purpose (empty for default)")
			if err != nil {
				return err
			}
			decision.Purpose = purpose

			raw, err := ui.PromptLine("  Category id (empty to skip)")
			if err != nil {
				return err
			}
			if raw != "" {
				id, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("invalid category id %q", raw)
				}
				decision.CategoryID = id
			}
		}

		if err := wiz.Decide(decision); err != nil {
			return err
		}
	}
	return nil
}

// confirmCommit runs the batch alert pre-check over the included group
// totals and then asks for the final go-ahead.
func confirmCommit(cmd *cobra.Command, c *types.Container, wiz *statement.Wizard) (bool, error) {
	groups := wiz.Groups()
	included := wiz.Included()

	var cands []api.AlertCandidate
	var total int
	for _, d := range included {
		g := groups[d.GroupIndex]
		cands = append(cands, api.AlertCandidate{
			Collection: "prepayments",
			Currency:   g.Currency,
			Amount:     g.Total,
		})
		total += len(g.Transactions)
	}

	ok, err := c.Gate.AllowBatch(cmd.Context(), c.Client, cands)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	return c.UI.Confirm(cmd.Context(), commitPrompt(len(included), total))
}

func commitPrompt(groups, transactions int) collection.Prompt {
	return collection.Prompt{
		Title: "Commit statement import",
		Message: fmt.Sprintf("Create prepayments and expenses for %d group(s), %d transaction(s)?",
			groups, transactions),
		ConfirmLabel: "Commit",
		CancelLabel:  "Cancel",
		Severity:     collection.SeverityWarning,
	}
}

func printGroups(ui *terminal.UI, groups []statement.Group) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCARDHOLDER\tCURRENCY\tTOTAL\tTX\tMATCHED\t")
	for i, g := range groups {
		matched := "yes"
		if !g.Matched {
			matched = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\t%s\t\n",
			i+1, g.Cardholder, g.Currency, g.Total, len(g.Transactions), matched)
	}
	_ = w.Flush()
	ui.Infof("")
}

func printReport(ui *terminal.UI, report statement.Report) {
	ui.Successf("created %d prepayments and %d expenses",
		report.CreatedPrepayments, report.CreatedExpenses)
	if report.ErrorCount == 0 {
		return
	}

	ui.Warnf("%d of %d rows failed:", report.ErrorCount, report.ValidCount+report.ErrorCount)
	for _, re := range report.RowErrors {
		if re.Field != "" {
			ui.Infof("  row %d, %s: %s", re.Row, re.Field, re.Message)
			continue
		}
		ui.Infof("  row %d: %s", re.Row, re.Message)
	}
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to the statement CSV")
	_ = importCmd.MarkFlagRequired("file")
	importCmd.Flags().BoolVarP(&acceptProposed, "yes", "y", false, "accept the server's proposed selection without review")

	Cmd.AddCommand(importCmd)
}
