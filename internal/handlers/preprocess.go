package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"trainprep/internal/codec"
	"trainprep/internal/inference"
	"trainprep/internal/logging"
	"trainprep/internal/schema"
)

// maxUploadBytes caps uploaded image size at 10MB.
const maxUploadBytes = 10 << 20

// errUploadTooLarge marks an upload that exceeds maxUploadBytes.
// Surfaced as 413 rather than letting a truncated file fail decode with
// a misleading error.
var errUploadTooLarge = errors.New("upload exceeds size limit")

// PreprocessResponse describes a preprocessed inference batch.
type PreprocessResponse struct {
	Shape      [4]int    `json:"shape"`
	Normalized bool      `json:"normalized"`
	Values     []float32 `json:"values,omitempty"`
}

// Preprocess accepts a multipart image upload and returns the
// inference-ready tensor batch: resized, normalized into [0, 1], with a
// leading batch dimension of 1. The full value slice is only included
// when include_values=true; it is large.
func (h *Handlers) Preprocess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, "failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, "no image file provided; use 'image' as the form field name", http.StatusBadRequest)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.Warn("failed to close uploaded file: %v", closeErr)
		}
	}()

	if err := schema.Text("filename", header.Filename); err != nil {
		writeError(w, err)
		return
	}

	size, err := h.requestedSize(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// The codec works on paths, so spool the upload to a temp file
	// that lives exactly as long as this request.
	tmpPath, cleanup, err := spoolUpload(file, header.Filename)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			writeJSONError(w, "image exceeds the 10MB upload limit", http.StatusRequestEntityTooLarge)
			return
		}
		logging.Error("failed to spool upload: %v", err)
		writeJSONError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	batch, err := inference.Prepare(tmpPath, size)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := PreprocessResponse{
		Shape:      batch.Shape(),
		Normalized: batch.Normalized,
	}
	if r.FormValue("include_values") == "true" {
		resp.Values = batch.Data
	}

	writeJSON(w, resp)
}

// requestedSize reads optional height/width form fields, falling back
// to the configured target size.
func (h *Handlers) requestedSize(r *http.Request) (codec.Size, error) {
	size := h.config.TargetSize

	if v := r.FormValue("height"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = 0
		}
		size.Height = n
	}
	if v := r.FormValue("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = 0
		}
		size.Width = n
	}

	if err := schema.TargetSize(size.Height, size.Width); err != nil {
		return codec.Size{}, err
	}
	return size, nil
}

func spoolUpload(file io.Reader, filename string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "trainprep-upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil {
			logging.Warn("failed to remove temp upload %s: %v", tmp.Name(), err)
		}
	}

	// Read one byte past the limit so an oversize upload is detected
	// instead of silently truncated.
	n, err := io.Copy(tmp, io.LimitReader(file, maxUploadBytes+1))
	if err == nil && n > maxUploadBytes {
		err = errUploadTooLarge
	}
	if err != nil {
		if closeErr := tmp.Close(); closeErr != nil {
			logging.Warn("failed to close temp upload: %v", closeErr)
		}
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return tmp.Name(), cleanup, nil
}
