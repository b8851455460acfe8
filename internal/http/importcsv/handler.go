package importcsv

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finviz/internal/http/respond"
	"github.com/MrJamesThe3rd/finviz/internal/importer"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int    `json:"imported"`
	Format   string `json:"format"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "Failed to parse upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), file)

	switch {
	case err == nil:
		respond.JSON(w, http.StatusCreated, importResponse{
			Imported: len(result.Transactions),
			Format:   result.Profile,
		})
	case errors.Is(err, importer.ErrUnrecognized):
		respond.Error(w, http.StatusBadRequest, "Unrecognized CSV format")
	case transaction.IsValidation(err):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "failed to import transactions", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to import transactions")
	}
}
