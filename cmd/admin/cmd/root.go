package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	authcmd "travelex/cmd/admin/cmd/auth"
	filescmd "travelex/cmd/admin/cmd/files"
	"travelex/cmd/admin/cmd/resource"
	statementscmd "travelex/cmd/admin/cmd/statements"
	"travelex/cmd/admin/cmd/terminal"
	"travelex/cmd/admin/cmd/types"
	"travelex/internal/app/client/api"
	"travelex/internal/app/client/config"
	"travelex/internal/app/client/session"
	"travelex/internal/collection"
	"travelex/internal/domain/category"
	"travelex/internal/domain/expense"
	"travelex/internal/domain/location"
	"travelex/internal/domain/prepayment"
	"travelex/internal/domain/supplier"
	"travelex/internal/utils/logger"
	"travelex/internal/validation"
)

var (
	serverURL   string
	periodStart string
	periodEnd   string
)

var rootCmd = &cobra.Command{
	Use:   "travelex",
	Short: "Travelex admin CLI",
	Long: `Travelex admin CLI.

Manages travel expenses, prepayments and the supporting reference data
against the Travelex backend, including card-statement imports.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg := config.MustLoad()
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log := logger.New(cfg.Env)
	sess := session.New(cfg.SessionPath)
	client, err := api.New(cfg, sess, log)
	if err != nil {
		return err
	}
	ui := terminal.New()

	start, end, err := resolvePeriod()
	if err != nil {
		return err
	}

	cmd.SetContext(types.With(cmd.Context(), &types.Container{
		Cfg:         cfg,
		Log:         log,
		Client:      client,
		UI:          ui,
		Gate:        collection.NewGate(client, ui, log),
		PeriodStart: start,
		PeriodEnd:   end,
	}))
	return nil
}

// resolvePeriod parses the period flags; unset bounds default to the current
// calendar year.
func resolvePeriod() (time.Time, time.Time, error) {
	year, err := strconv.Atoi(time.Now().UTC().Format("2006"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	if periodStart != "" {
		start, err = time.Parse("2006-01-02", periodStart)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --period-start: %w", err)
		}
	}
	if periodEnd != "" {
		end, err = time.Parse("2006-01-02", periodEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --period-end: %w", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--period-end precedes --period-start")
	}
	return start, end, nil
}

func expensesCmd() *cobra.Command {
	return resource.Command(resource.Spec[expense.Expense]{
		Use:            "expenses",
		Label:          "expense",
		Path:           expense.Path,
		Rules:          expense.Rules,
		DraftOf:        expense.DraftOf,
		AlertCandidate: expense.AlertCandidate,
		Header:         []string{"ID", "DESCRIPTION", "AMOUNT", "CUR", "DATE", "DOC"},
		Columns: func(e expense.Expense) []string {
			return []string{
				strconv.Itoa(e.ID),
				e.Description,
				fmt.Sprintf("%.2f", e.Amount),
				e.Currency,
				e.ExpenseDate.Format("2006-01-02"),
				string(e.DocumentType),
			}
		},
	})
}

func prepaymentsCmd() *cobra.Command {
	return resource.Command(resource.Spec[prepayment.Prepayment]{
		Use:            "prepayments",
		Label:          "prepayment",
		Path:           prepayment.Path,
		Rules:          prepayment.Rules,
		DraftOf:        prepayment.DraftOf,
		AlertCandidate: prepayment.AlertCandidate,
		Header:         []string{"ID", "TRAVELER", "PURPOSE", "AMOUNT", "CUR", "FROM", "TO", "STATUS"},
		Columns: func(p prepayment.Prepayment) []string {
			return []string{
				strconv.Itoa(p.ID),
				p.Traveler,
				p.Purpose,
				fmt.Sprintf("%.2f", p.Amount),
				p.Currency,
				p.StartDate.Format("2006-01-02"),
				p.EndDate.Format("2006-01-02"),
				string(p.Status),
			}
		},
	})
}

func suppliersCmd() *cobra.Command {
	return resource.Command(resource.Spec[supplier.Supplier]{
		Use:     "suppliers",
		Label:   "supplier",
		Path:    supplier.Path,
		Rules:   func(_, _ time.Time) validation.RuleSet { return supplier.Rules() },
		DraftOf: supplier.DraftOf,
		Header:  []string{"ID", "NAME", "TAX ID", "COUNTRY", "ACTIVE"},
		Columns: func(s supplier.Supplier) []string {
			return []string{
				strconv.Itoa(s.ID),
				s.Name,
				s.TaxID,
				s.Country,
				strconv.FormatBool(s.Active),
			}
		},
	})
}

func categoriesCmd() *cobra.Command {
	return resource.Command(resource.Spec[category.Category]{
		Use:     "categories",
		Label:   "category",
		Path:    category.Path,
		Rules:   func(_, _ time.Time) validation.RuleSet { return category.Rules() },
		DraftOf: category.DraftOf,
		Header:  []string{"ID", "NAME", "CODE", "ACTIVE"},
		Columns: func(c category.Category) []string {
			return []string{
				strconv.Itoa(c.ID),
				c.Name,
				c.Code,
				strconv.FormatBool(c.Active),
			}
		},
	})
}

func locationsCmd() *cobra.Command {
	return resource.Command(resource.Spec[location.Location]{
		Use:     "locations",
		Label:   "location",
		Path:    location.Path,
		Rules:   func(_, _ time.Time) validation.RuleSet { return location.Rules() },
		DraftOf: location.DraftOf,
		Header:  []string{"ID", "CITY", "COUNTRY", "CUR"},
		Columns: func(l location.Location) []string {
			return []string{
				strconv.Itoa(l.ID),
				l.City,
				l.Country,
				l.Currency,
			}
		},
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend address, host:port")
	rootCmd.PersistentFlags().StringVar(&periodStart, "period-start", "", "accounting period start, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&periodEnd, "period-end", "", "accounting period end, YYYY-MM-DD")

	authCmd := &cobra.Command{Use: "auth", Short: "Authentication"}
	authCmd.AddCommand(authcmd.LoginCmd, authcmd.LogoutCmd, authcmd.StatusCmd, authcmd.MFACmd)

	rootCmd.AddCommand(
		authCmd,
		expensesCmd(),
		prepaymentsCmd(),
		suppliersCmd(),
		categoriesCmd(),
		locationsCmd(),
		statementscmd.Cmd,
		filescmd.Cmd,
	)
}
