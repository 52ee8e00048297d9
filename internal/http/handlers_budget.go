package http

import (
	"net/http"
	"strings"

	"budgetbook/internal/core"
)

type budgetDTO struct {
	TotalBudget      string `json:"total_budget"`
	TotalBudgetCents int64  `json:"total_budget_cents"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.rec.Budget(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, budgetDTO{
		TotalBudget:      b.Total.FormatDecimal(),
		TotalBudgetCents: b.Total.Cents,
	})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	cents, err := parseBudgetAmount(req.TotalBudget)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
		return
	}
	if err := s.rec.SetBudget(r.Context(), core.Budget{Total: core.Money{Cents: cents}}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.reportCache.Purge()
	s.writeJSON(w, http.StatusOK, budgetDTO{
		TotalBudget:      core.Money{Cents: cents}.FormatDecimal(),
		TotalBudgetCents: cents,
	})
}

// parseBudgetAmount accepts a decimal budget figure. Unlike transaction
// amounts, zero is allowed: it clears the budget.
func parseBudgetAmount(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	switch trimmed {
	case "0", "0.0", "0.00", "0,0", "0,00":
		return 0, nil
	}
	return core.ParseDecimalToCents(trimmed)
}
