package http

import (
	"log/slog"
	"net/http"
	"strings"

	"kolipanel/internal/core"
)

// saleResponse adds the push key to the wire form of a sale.
type saleResponse struct {
	ID string `json:"id"`
	core.Sale
}

func toResponses(sales []core.Sale) []saleResponse {
	out := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, saleResponse{ID: s.ID, Sale: s})
	}
	return out
}

const (
	orderRecorded      = "recorded"
	orderChronological = "chronological"
)

// listSales serves ledger reads through the short-lived cache.
func (s *Server) listSales(r *http.Request, order string) []core.Sale {
	if sales, ok := s.salesCache.Get(order); ok {
		return sales
	}
	var sales []core.Sale
	if order == orderChronological {
		sales = s.ledger.ListChronological(r.Context())
	} else {
		sales = s.ledger.ListAll(r.Context())
	}
	s.salesCache.Set(order, sales)
	return sales
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var in core.SaleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	calc := core.Calculate(core.CalcInput{
		GrossRevenue:      in.GrossRevenue,
		MaterialCost:      in.MaterialCost,
		ProductionMinutes: in.ProductionMinutes,
		TaxRatePercent:    in.TaxRatePercent,
		ExpensePerMinute:  s.expenses.PerMinuteRate(r.Context()),
	})

	sale, err := s.ledger.Create(r.Context(), in, calc)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create sale failed", "error", err, "company", in.CompanyName)
		writeError(w, http.StatusBadGateway, "could not record sale")
		return
	}

	s.salesCache.Purge()
	writeJSON(w, http.StatusCreated, saleResponse{ID: sale.ID, Sale: sale})
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	order := orderRecorded
	if strings.TrimSpace(r.URL.Query().Get("order")) == orderChronological {
		order = orderChronological
	}
	writeJSON(w, http.StatusOK, toResponses(s.listSales(r, order)))
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, "missing sale id")
		return
	}
	if !s.ledger.Delete(r.Context(), id) {
		writeError(w, http.StatusBadGateway, "could not delete sale")
		return
	}
	s.salesCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
