package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("blob not found")

// Store persists uploaded files (receipts, card statements) under
// server-generated names.
type Store interface {
	Save(ctx context.Context, r io.Reader) (name string, size int64, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Presigner is the optional capability of stores that can hand out
// short-lived direct download URLs instead of streaming through the server.
type Presigner interface {
	PresignGet(ctx context.Context, name string) (string, error)
}

// newKey is date-prefixed so a bucket listing stays usable. No path
// separators: the key travels as one URL segment.
func newKey() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString())
}
