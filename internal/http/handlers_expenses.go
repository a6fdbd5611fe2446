package http

import (
	"log/slog"
	"net/http"

	"kolipanel/internal/core"
	"kolipanel/internal/expense"
)

type expensesResponse struct {
	Expenses      core.ExpenseConfig `json:"expenses"`
	TotalMonthly  float64            `json:"totalMonthly"`
	PerMinuteRate float64            `json:"perMinuteRate"`
}

func (s *Server) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	cfg := s.expenses.GetAll(r.Context())
	writeJSON(w, http.StatusOK, expensesResponse{
		Expenses:      cfg,
		TotalMonthly:  cfg.Total(),
		PerMinuteRate: cfg.Total() / expense.WorkingMinutesPerMonth,
	})
}

func (s *Server) handlePutExpenses(w http.ResponseWriter, r *http.Request) {
	var cfg core.ExpenseConfig
	if err := decodeJSON(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.expenses.ReplaceAll(r.Context(), cfg); err != nil {
		slog.ErrorContext(r.Context(), "Update expenses failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not save expense config")
		return
	}
	s.handleGetExpenses(w, r)
}
