// Package types carries the shared dependencies of every admin command
// through the cobra command context.
package types

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"travelex/cmd/admin/cmd/terminal"
	"travelex/internal/app/client/api"
	"travelex/internal/app/client/config"
	"travelex/internal/collection"
)

// ErrNotLoggedIn is returned by commands that need an active session.
var ErrNotLoggedIn = errors.New("not logged in, run \"travelex auth login\" first")

type ctxKey int

const containerKey ctxKey = iota

// Container is built once in the root command's PersistentPreRunE and read
// by every subcommand.
type Container struct {
	Cfg    *config.Config
	Log    *slog.Logger
	Client *api.Client
	UI     *terminal.UI
	Gate   *collection.Gate

	// PeriodStart and PeriodEnd bound the accounting period open for entry;
	// expense and prepayment drafts are validated against them.
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func With(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerKey, c)
}

// From extracts the container; nil when the root setup never ran.
func From(ctx context.Context) *Container {
	c, _ := ctx.Value(containerKey).(*Container)
	return c
}

// RequireLogin guards commands that talk to authenticated endpoints.
func (c *Container) RequireLogin() error {
	if !c.Client.Session().Active() {
		return ErrNotLoggedIn
	}
	return nil
}
