// Package terminal is the interactive surface of the admin CLI: confirmation
// prompts, failure notices and line/secret input. It implements the
// collection.Confirmer and collection.Notifier contracts.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"travelex/internal/app/client/api"
	"travelex/internal/collection"
)

var (
	success = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	danger  = color.New(color.FgRed, color.Bold)
)

type UI struct {
	in  *bufio.Reader
	out io.Writer
}

func New() *UI {
	return &UI{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewFor builds a UI over explicit streams. Used by tests.
func NewFor(in io.Reader, out io.Writer) *UI {
	return &UI{in: bufio.NewReader(in), out: out}
}

// Confirm renders the prompt and blocks until the operator answers. Anything
// but an explicit yes is a cancel.
func (u *UI) Confirm(_ context.Context, p collection.Prompt) (bool, error) {
	c := warn
	if p.Severity == collection.SeverityDanger {
		c = danger
	}

	c.Fprintln(u.out, p.Title)
	fmt.Fprintln(u.out, p.Message)
	fmt.Fprintf(u.out, "%s? [y/N]: ", p.ConfirmLabel)

	line, err := u.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read operator answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (u *UI) LoadFailed(err error) {
	danger.Fprintf(u.out, "failed to load: %v\n", err)
	fmt.Fprintln(u.out, "The last fetched data is still shown; retry when the server is reachable.")
}

func (u *UI) RowFailed(id int, err error) {
	var verr *api.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		if id == 0 {
			danger.Fprintln(u.out, "validation failed:")
		} else {
			danger.Fprintf(u.out, "row #%d failed validation:\n", id)
		}
		u.FieldErrors(verr.Fields)
		return
	}

	if id == 0 {
		danger.Fprintf(u.out, "operation failed: %v\n", err)
		return
	}
	danger.Fprintf(u.out, "row #%d failed: %v\n", id, err)
}

// FieldErrors prints field-level messages next to their field names, in
// stable order.
func (u *UI) FieldErrors(fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(u.out, "  %s: %s\n", name, fields[name])
	}
}

func (u *UI) Successf(format string, args ...any) {
	success.Fprintf(u.out, format+"\n", args...)
}

func (u *UI) Warnf(format string, args ...any) {
	warn.Fprintf(u.out, format+"\n", args...)
}

func (u *UI) Infof(format string, args ...any) {
	fmt.Fprintf(u.out, format+"\n", args...)
}

// PromptLine reads one line of input. Empty input is returned as-is; the
// caller decides whether that means "keep the default".
func (u *UI) PromptLine(label string) (string, error) {
	fmt.Fprintf(u.out, "%s: ", label)
	line, err := u.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword is a seam for tests; the terminal read cannot be driven
// through a pipe.
var readPassword = term.ReadPassword

// PromptSecret reads a line without echoing it.
func (u *UI) PromptSecret(label string) (string, error) {
	fmt.Fprintf(u.out, "%s: ", label)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(u.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(secret), nil
}
