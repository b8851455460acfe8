package summary

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finviz/internal/http/respond"
	"github.com/MrJamesThe3rd/finviz/internal/summary"
)

type Handler struct {
	svc *summary.Service
}

func NewHandler(svc *summary.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/monthly", h.monthly)
}

type totalsResponse struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type summaryResponse struct {
	CurrentMonth totalsResponse `json:"currentMonth"`
	Overall      totalsResponse `json:"overall"`
}

type monthResponse struct {
	Label    string  `json:"label"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

func toTotals(t summary.Totals) totalsResponse {
	return totalsResponse{
		Income:   t.Income.InexactFloat64(),
		Expenses: t.Expenses.InexactFloat64(),
		Balance:  t.Balance.InexactFloat64(),
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute summary", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch transactions")

		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		CurrentMonth: toTotals(sum.CurrentMonth),
		Overall:      toTotals(sum.Overall),
	})
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.Monthly(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute monthly series", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch transactions")

		return
	}

	resp := make([]monthResponse, len(series))
	for i, m := range series {
		resp[i] = monthResponse{
			Label:    m.Label,
			Year:     m.Year,
			Month:    int(m.Month),
			Income:   m.Income.InexactFloat64(),
			Expenses: m.Expenses.InexactFloat64(),
			Net:      m.Net.InexactFloat64(),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
