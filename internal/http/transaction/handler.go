package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finviz/internal/http/respond"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

const (
	msgNotFound   = "Transaction not found"
	msgBadRequest = "Invalid request body"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list transactions", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch transactions")

		return
	}

	respond.JSON(w, http.StatusOK, NewResponseList(txs))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), req.payload())
	if err != nil {
		h.fail(w, r, err, "Failed to create transaction")
		return
	}

	respond.JSON(w, http.StatusCreated, NewResponse(tx))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if _, err := h.svc.Update(r.Context(), id, req.payload()); err != nil {
		h.fail(w, r, err, "Failed to update transaction")
		return
	}

	respond.Message(w, "Transaction updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "Failed to delete transaction")
		return
	}

	respond.Message(w, "Transaction deleted successfully")
}

// parseID writes a 404 for ids that cannot name a stored transaction.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, msgNotFound)
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var verr *transaction.ValidationError

	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, transaction.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgNotFound)
	default:
		slog.ErrorContext(r.Context(), internalMsg, "error", err)
		respond.Error(w, http.StatusInternalServerError, internalMsg)
	}
}
