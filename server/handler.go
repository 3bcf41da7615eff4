// Package server exposes the conversion engine over HTTP: a multipart upload
// endpoint returning the produced document and a health probe.
package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hdc/config"
	"hdc/convert"
	"hdc/htmldoc"
)

const (
	// uploadField is the multipart form field carrying the page markup.
	uploadField = "html"

	docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Handler routes conversion requests through a bounded worker pool.
type Handler struct {
	cfg  *config.ServerConfig
	doc  *config.DocumentConfig
	pool *convert.Pool
	log  *zap.Logger
}

// NewHandler builds the HTTP handler set around a converter pool.
func NewHandler(cfg *config.Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("server")
	conv := convert.New(&cfg.Document, log)
	return &Handler{
		cfg:  &cfg.Server,
		doc:  &cfg.Document,
		pool: convert.NewPool(conv, cfg.Server.Workers),
		log:  log,
	}
}

// Mux returns the route table.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert", h.handleConvert)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(zap.String("request", uuid.NewString()))

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "missing form field %q", uploadField)
		return
	}
	defer file.Close()

	if !acceptableContentType(header.Header.Get("Content-Type")) {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Warn("Unable to read upload", zap.Error(err))
		writeError(w, http.StatusBadRequest, "unable to read upload")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	content, err := htmldoc.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "undecodable upload")
		return
	}

	out, err := h.pool.Convert(r.Context(), content)
	if err != nil {
		var convErr *convert.ConversionError
		switch {
		case errors.As(err, &convErr):
			log.Warn("Conversion failed", zap.String("file", header.Filename), zap.Error(err))
			writeError(w, http.StatusBadRequest, "%v", convErr)
		case errors.Is(err, r.Context().Err()):
			// client went away while waiting for a worker slot
			log.Debug("Request canceled", zap.String("file", header.Filename))
		default:
			log.Error("Conversion error", zap.String("file", header.Filename), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	srcName := filepath.Base(header.Filename)
	if srcName == "." || srcName == "/" {
		srcName = "document.html"
	}
	name := convert.OutputName(srcName, h.doc.FileNameTransliterate)
	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", fmt.Sprint(len(out)))
	if _, err := w.Write(out); err != nil {
		log.Debug("Unable to write response", zap.Error(err))
		return
	}

	log.Info("Document served", zap.String("file", header.Filename), zap.String("output", name), zap.Int("size", len(out)))
}

// acceptableContentType allows the part to be sent as markup, plain text or
// with no declared type at all.
func acceptableContentType(ct string) bool {
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	switch strings.ToLower(mt) {
	case "text/html", "text/plain", "application/octet-stream":
		return true
	}
	return false
}

func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, format+"\n", args...)
}
