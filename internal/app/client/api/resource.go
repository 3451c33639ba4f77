package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"travelex/internal/validation"
)

// Row is a server-authoritative record with a stable server-assigned id.
type Row interface {
	RowID() int
}

// Resource is the typed CRUD client for one backend collection. It is the
// single uniform shape the whole admin surface is built on.
type Resource[T Row] struct {
	client *Client
	path   string
}

func NewResource[T Row](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

// List returns all rows, in server order. All-or-nothing: a failed call
// returns no partial result.
func (r *Resource[T]) List(ctx context.Context, filter url.Values) ([]T, error) {
	path := r.path
	if len(filter) > 0 {
		path += "?" + filter.Encode()
	}

	var resp listResponse[T]
	if err := r.client.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Get fetches a single row by id.
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var row T
	if err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, nil, &row); err != nil {
		return row, err
	}
	return row, nil
}

// Create submits draft fields; the server assigns the id and echoes the full
// row. Each attempt carries an Idempotency-Key so an operator retry after a
// transport failure cannot double-insert.
func (r *Resource[T]) Create(ctx context.Context, fields validation.Draft) (T, error) {
	var row T
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	if err := r.client.do(ctx, http.MethodPost, r.path, fields, headers, &row); err != nil {
		return row, err
	}
	return row, nil
}

// Update replaces the row's editable fields; the server echoes the stored row.
func (r *Resource[T]) Update(ctx context.Context, id int, fields validation.Draft) (T, error) {
	var row T
	if err := r.client.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", r.path, id), fields, nil, &row); err != nil {
		return row, err
	}
	return row, nil
}

// Delete removes the row. NotFound is reported as-is; the caller decides
// whether that counts as success (it does for the collection controller).
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.client.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil, nil)
}
