package http

import (
	"net/http"
	"time"

	"budgetbook/internal/reconcile"
)

type summaryDTO struct {
	TotalBudget      string `json:"total_budget"`
	TotalBudgetCents int64  `json:"total_budget_cents"`
	TotalSpent       string `json:"total_spent"`
	TotalSpentCents  int64  `json:"total_spent_cents"`
	Remaining        string `json:"remaining"`
	RemainingCents   int64  `json:"remaining_cents"`
}

type dashboardResponse struct {
	Summary            summaryDTO       `json:"summary"`
	RecentTransactions []transactionDTO `json:"recent_transactions"`
	Source             string           `json:"source"`
	SheetsConnected    bool             `json:"sheets_connected"`
	LastSync           string           `json:"last_sync,omitempty"`
}

const recentTransactionCount = 5

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	online := boolQuery(r, "refresh")

	sum, src, err := s.rec.BudgetSummary(r.Context(), online)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// An online summary already merged remote rows into the cache, so the
	// recent list reads locally either way.
	recent, err := s.rec.Transactions(r.Context(), reconcile.Options{
		Window: reconcile.WindowAll,
		Limit:  recentTransactionCount,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := dashboardResponse{
		Summary: summaryDTO{
			TotalBudget:      sum.TotalBudget.FormatDecimal(),
			TotalBudgetCents: sum.TotalBudget.Cents,
			TotalSpent:       sum.TotalSpent.FormatDecimal(),
			TotalSpentCents:  sum.TotalSpent.Cents,
			Remaining:        sum.Remaining.FormatDecimal(),
			RemainingCents:   sum.Remaining.Cents,
		},
		RecentTransactions: toTransactionDTOs(recent.Transactions),
		Source:             string(src),
		SheetsConnected:    s.sess.SheetsConnected(),
	}
	if last := s.rec.LastSync(r.Context()); !last.IsZero() {
		resp.LastSync = last.UTC().Format(time.RFC3339)
	}
	s.writeJSON(w, http.StatusOK, resp)
}
