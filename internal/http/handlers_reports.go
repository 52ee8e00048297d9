package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"budgetbook/internal/reconcile"
)

type categorySliceDTO struct {
	Name        string  `json:"name"`
	Amount      string  `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Percentage  float64 `json:"percentage"`
	Color       string  `json:"color"`
}

type monthPointDTO struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Label      string `json:"label"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	window, err := reconcile.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_window", err.Error())
		return
	}
	online := boolQuery(r, "refresh")

	// An explicit refresh always recomputes; it repopulates the cache for
	// later non-refresh reads instead of being served from it.
	key := fmt.Sprintf("breakdown|%s", window)
	if !online {
		if raw, ok := s.reportCache.Get(key); ok {
			s.writeRaw(w, raw)
			return
		}
	}

	slices, src, err := s.rec.CategoryBreakdown(r.Context(), online, window)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	dtos := make([]categorySliceDTO, 0, len(slices))
	for _, sl := range slices {
		dtos = append(dtos, categorySliceDTO{
			Name:        sl.Name,
			Amount:      sl.Amount.FormatDecimal(),
			AmountCents: sl.Amount.Cents,
			Percentage:  sl.Percentage,
			Color:       sl.Color,
		})
	}
	s.writeReport(w, r, key, src, struct {
		Categories []categorySliceDTO `json:"categories"`
		Source     string             `json:"source"`
	}{dtos, string(src)})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	online := boolQuery(r, "refresh")

	key := "trend"
	if !online {
		if raw, ok := s.reportCache.Get(key); ok {
			s.writeRaw(w, raw)
			return
		}
	}

	points, src, err := s.rec.MonthlyTrend(r.Context(), online)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	dtos := make([]monthPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, monthPointDTO{
			Year:       p.Year,
			Month:      int(p.Month),
			Label:      p.Label,
			Total:      p.Total.FormatDecimal(),
			TotalCents: p.Total.Cents,
		})
	}
	s.writeReport(w, r, key, src, struct {
		Months []monthPointDTO `json:"months"`
		Source string          `json:"source"`
	}{dtos, string(src)})
}

// writeReport renders a report payload and caches it unless the data came
// from a degraded fallback read, which should be retried soon.
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, key string, src reconcile.Source, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if src != reconcile.SourceFallback {
		s.reportCache.Set(key, raw)
	}
	s.writeRaw(w, raw)
}

func (s *Server) writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		s.logger.Error("response write failed", "error", err)
	}
}
