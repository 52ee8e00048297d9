package http

import (
	"net/http"
	"strconv"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/reconcile"
)

type transactionDTO struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp,omitempty"`
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:          t.ID,
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      t.Amount.FormatDecimal(),
		AmountCents: t.Amount.Cents,
		Kind:        string(t.Kind),
		Category:    t.Category,
	}
	if !t.Timestamp.IsZero() {
		dto.Timestamp = t.Timestamp.UTC().Format(time.RFC3339)
	}
	return dto
}

func toTransactionDTOs(txns []core.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionDTO(t))
	}
	return out
}

type transactionListResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	Source       string           `json:"source"`
	SyncedAt     string           `json:"synced_at,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	window, err := reconcile.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_window", err.Error())
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative number")
			return
		}
		limit = n
	}

	res, err := s.rec.Transactions(r.Context(), reconcile.Options{
		Online: boolQuery(r, "refresh"),
		Window: window,
		Limit:  limit,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listResponse(res))
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
		return
	}

	receipt, err := s.rec.AddTransaction(r.Context(), core.Transaction{
		Date:        date,
		Description: req.Description,
		Amount:      core.Money{Cents: cents},
		Kind:        core.Kind(req.Kind),
		Category:    req.Category,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// Derived reports are stale now.
	s.reportCache.Purge()

	s.writeJSON(w, http.StatusCreated, struct {
		Transaction transactionDTO `json:"transaction"`
		Synced      bool           `json:"synced"`
		Message     string         `json:"message"`
	}{toTransactionDTO(receipt.Transaction), receipt.Synced, receipt.Message})
}

func listResponse(res reconcile.FetchResult) transactionListResponse {
	out := transactionListResponse{
		Transactions: toTransactionDTOs(res.Transactions),
		Source:       string(res.Source),
	}
	if !res.SyncedAt.IsZero() {
		out.SyncedAt = res.SyncedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func boolQuery(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
