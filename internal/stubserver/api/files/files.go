package files

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	serverauth "travelex/internal/stubserver/auth"
	"travelex/internal/stubserver/blob"
)

// maxUploadBytes caps statement and receipt uploads.
const maxUploadBytes = 32 << 20

// Handler serves multipart uploads and raw downloads. These two routes live
// on plain chi: huma's typed bodies fit JSON, not file streams.
type Handler struct {
	blobs  blob.Store
	secret []byte
	log    *slog.Logger
}

func NewHandler(blobs blob.Store, secret []byte, log *slog.Logger) *Handler {
	return &Handler{
		blobs:  blobs,
		secret: secret,
		log:    log.With("component", "files_handler"),
	}
}

func (h *Handler) SetupRoutes(mux *chi.Mux) {
	// Statement files and receipts share the upload shape; the path only
	// decides what the client does with the stored name afterwards.
	mux.Post("/api/statements", h.upload)
	mux.Post("/api/receipts", h.upload)
	mux.Get("/api/files/{name}", h.download)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	name, size, err := h.blobs.Save(r.Context(), file)
	if err != nil {
		h.log.Error("failed to store upload", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.log.Info("file stored", "name", name, "bytes", size)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"name": name, "size": size})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	if r.URL.Query().Get("presign") == "1" {
		h.presign(w, r, name)
		return
	}

	rc, err := h.blobs.Open(r.Context(), name)
	if errors.Is(err, blob.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		h.log.Error("failed to open blob", "name", name, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Error("download interrupted", "name", name, "error", err)
	}
}

// presign answers ?presign=1 with a direct download URL when the store can
// issue one. Local stores cannot; the client falls back to streaming.
func (h *Handler) presign(w http.ResponseWriter, r *http.Request, name string) {
	p, ok := h.blobs.(blob.Presigner)
	if !ok {
		h.writeError(w, http.StatusUnprocessableEntity, "store does not support presigned downloads")
		return
	}

	u, err := p.PresignGet(r.Context(), name)
	if errors.Is(err, blob.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		h.log.Error("failed to presign download", "name", name, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to presign download")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"url": u})
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		h.writeError(w, http.StatusUnauthorized, "missing bearer token")
		return false
	}
	if _, err := serverauth.UserIDFromToken(strings.TrimPrefix(header, "Bearer "), h.secret); err != nil {
		h.writeError(w, http.StatusUnauthorized, "token expired or invalid")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
