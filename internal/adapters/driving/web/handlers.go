package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Form field names of POST /api/ask.
const (
	fieldText     = "text"
	fieldQuestion = "question"
	fieldFile     = "file"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.cfg.Version})
}

// handleAsk answers a multipart form with text, question and an optional file.
// Dispatcher failures are ordinary 200 responses with ok=false; only a
// malformed or oversized request is an HTTP error.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB)})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form: " + err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	req := domain.AskRequest{
		Text:     r.FormValue(fieldText),
		Question: r.FormValue(fieldQuestion),
	}

	file, header, err := r.FormFile(fieldFile)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid file: " + err.Error()})
		return
	default:
		defer file.Close()
		upload, cleanup, err := spool(file, header)
		if err != nil {
			logger.Error("web: spool upload %q: %v", header.Filename, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not store upload"})
			return
		}
		defer cleanup()
		req.File = upload
	}

	res := s.ask.Ask(r.Context(), req)
	writeJSON(w, http.StatusOK, res.View())
}

// spool writes an uploaded part to its own temporary directory.
// The client file name is kept only as Upload.Name.
func spool(file multipart.File, header *multipart.FileHeader) (*domain.Upload, func(), error) {
	dir, err := os.MkdirTemp("", "askdoc-upload-")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("web: remove %s: %v", dir, err)
		}
	}

	path := filepath.Join(dir, "upload")
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		cleanup()
		return nil, nil, err
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return nil, nil, err
	}

	return &domain.Upload{Name: header.Filename, Path: path}, cleanup, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("web: encode response: %v", err)
	}
}
