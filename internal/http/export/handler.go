package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finviz/internal/export"
	"github.com/MrJamesThe3rd/finviz/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.csv)
	r.Get("/report", h.report)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	if _, err := h.svc.WriteCSV(r.Context(), &buf); err != nil {
		slog.ErrorContext(r.Context(), "failed to export csv", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to export transactions")

		return
	}

	download(w, "text/csv", export.Filename(time.Now(), "csv"), buf.Bytes())
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	if err := h.svc.Report(r.Context(), &buf); err != nil {
		slog.ErrorContext(r.Context(), "failed to build report", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to export transactions")

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(r.Context(), "failed to write report", "error", err)
	}
}

func download(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write download", "error", err)
	}
}
