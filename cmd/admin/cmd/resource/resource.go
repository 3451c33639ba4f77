// Package resource builds the per-collection CRUD command tree. Every
// editable collection gets the same five subcommands, typed through the
// collection controller so the CLI and a future GUI share one behavior.
package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"travelex/cmd/admin/cmd/types"
	"travelex/internal/app/client/api"
	"travelex/internal/collection"
	"travelex/internal/validation"
)

// Spec wires one backend collection into the command tree.
type Spec[T api.Row] struct {
	// Use is the plural command name ("expenses").
	Use string
	// Label is the singular human-readable name used in prompts.
	Label string
	Path  string
	// Rules builds the client-side rule set; ungated collections ignore the
	// period bounds.
	Rules   func(periodStart, periodEnd time.Time) validation.RuleSet
	DraftOf func(T) validation.Draft
	// AlertCandidate is nil for collections without threshold checks.
	AlertCandidate func(validation.Draft) (api.AlertCandidate, bool)
	Header         []string
	Columns        func(T) []string
}

// Command returns the parent command with list/get/create/edit/delete.
func Command[T api.Row](spec Spec[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.Use,
		Short: fmt.Sprintf("Manage %s", spec.Use),
	}
	cmd.AddCommand(
		listCmd(spec),
		getCmd(spec),
		createCmd(spec),
		editCmd(spec),
		deleteCmd(spec),
	)
	return cmd
}

func deps(cmd *cobra.Command) (*types.Container, error) {
	c := types.From(cmd.Context())
	if c == nil {
		return nil, errors.New("command context not initialized")
	}
	if err := c.RequireLogin(); err != nil {
		return nil, err
	}
	return c, nil
}

func controller[T api.Row](spec Spec[T], c *types.Container) *collection.Controller[T] {
	var gate *collection.Gate
	if spec.AlertCandidate != nil {
		gate = c.Gate
	}
	return collection.NewController(collection.Config[T]{
		Label:          spec.Label,
		Remote:         api.NewResource[T](c.Client, spec.Path),
		Rules:          spec.Rules(c.PeriodStart, c.PeriodEnd),
		DraftOf:        spec.DraftOf,
		AlertCandidate: spec.AlertCandidate,
		Confirmer:      c.UI,
		Notifier:       c.UI,
		Gate:           gate,
		Log:            c.Log,
	})
}

func listCmd[T api.Row](spec Spec[T]) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", spec.Use),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := deps(cmd)
			if err != nil {
				return err
			}

			ctrl := controller(spec, c)
			if err := ctrl.Load(cmd.Context(), nil); err != nil {
				return err
			}

			rows := ctrl.Rows()
			if asJSON {
				return printJSON(rows)
			}

			if len(rows) == 0 {
				c.UI.Infof("no %s found", spec.Use)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, h := range spec.Header {
				fmt.Fprintf(w, "%s\t", h)
			}
			fmt.Fprintln(w)
			for _, row := range rows {
				for _, col := range spec.Columns(row) {
					fmt.Fprintf(w, "%s\t", col)
				}
				fmt.Fprintln(w)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			c.UI.Infof("\n%d %s", len(rows), spec.Use)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func getCmd[T api.Row](spec Spec[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show one %s", spec.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := deps(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			row, err := api.NewResource[T](c.Client, spec.Path).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(row)
		},
	}
}

func createCmd[T api.Row](spec Spec[T]) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", spec.Label),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := deps(cmd)
			if err != nil {
				return err
			}
			draft, err := ParseDraft(sets)
			if err != nil {
				return err
			}

			ctrl := controller(spec, c)
			if errs := ctrl.Validate(draft); !errs.Empty() {
				c.UI.RowFailed(0, &api.ValidationError{Fields: errs})
				return errors.New("validation failed")
			}

			row, err := ctrl.AddRow(cmd.Context(), draft)
			if err != nil {
				return saveOutcome(c, err)
			}

			c.UI.Successf("created %s #%d", spec.Label, row.RowID())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment name=value, repeatable")
	return cmd
}

func editCmd[T api.Row](spec Spec[T]) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: fmt.Sprintf("Edit a %s", spec.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := deps(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			changes, err := ParseDraft(sets)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				return errors.New("nothing to change, pass at least one --set")
			}

			ctrl := controller(spec, c)
			if err := ctrl.Load(cmd.Context(), nil); err != nil {
				return err
			}

			ed, ok := ctrl.Editor(id)
			if !ok {
				return fmt.Errorf("%s #%d not found", spec.Label, id)
			}
			if err := ed.StartEdit(); err != nil {
				return err
			}
			for name, value := range changes {
				if err := ed.SetField(name, value); err != nil {
					return err
				}
			}

			if err := ctrl.SaveEdit(cmd.Context(), ed); err != nil {
				if errors.Is(err, collection.ErrValidationFailed) {
					c.UI.RowFailed(id, &api.ValidationError{Fields: ed.Errors()})
					return err
				}
				return saveOutcome(c, err)
			}

			c.UI.Successf("saved %s #%d", spec.Label, id)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment name=value, repeatable")
	return cmd
}

func deleteCmd[T api.Row](spec Spec[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s", spec.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := deps(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := controller(spec, c).RemoveRow(cmd.Context(), id); err != nil {
				return saveOutcome(c, err)
			}

			c.UI.Successf("deleted %s #%d", spec.Label, id)
			return nil
		},
	}
}

// saveOutcome maps a mutation error to its CLI exit. A cancel is a normal
// outcome; remote failures were already printed by the notifier.
func saveOutcome(c *types.Container, err error) error {
	if errors.Is(err, collection.ErrCancelled) {
		c.UI.Infof("cancelled")
		return nil
	}
	return err
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
