package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// StoredFile references an uploaded file by the name the server stored it
// under; usable in later authenticated downloads and as a row field value.
type StoredFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// UploadFile posts a file as multipart form data to the given upload path
// (receipts, statement files).
func (c *Client) UploadFile(ctx context.Context, path, filename string, r io.Reader) (StoredFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return StoredFile{}, fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return StoredFile{}, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", c.userAgent)
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return StoredFile{}, &NetworkError{Err: err}
	}

	var stored StoredFile
	if err := c.parseResponse(resp, &stored); err != nil {
		return StoredFile{}, err
	}
	return stored, nil
}

// DownloadFile streams a stored file into w.
func (c *Client) DownloadFile(ctx context.Context, name string, w io.Writer) error {
	path := "/api/files/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return c.errorFor(resp, body)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &NetworkError{Err: err}
	}
	return nil
}
