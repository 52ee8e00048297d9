// Package reconcile merges the on-device cache with the remote sheet. It owns
// the fallback policy: reads degrade to the cache silently, writes succeed as
// long as the device copy is durable.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
	"budgetbook/internal/sheets"
	"budgetbook/internal/store"
)

// Options controls a transaction fetch. Online=false answers from the cache
// without touching the network. Limit>0 truncates the filtered list, newest
// first.
type Options struct {
	Online bool
	Window Window
	Limit  int
}

// Reconciler coordinates the local store and the remote sheet. A nil sheet
// means no remote is configured; offline reads still work.
type Reconciler struct {
	store     store.Store
	sheet     sheets.Client
	logger    *log.Logger
	clock     func() time.Time
	weekStart time.Weekday

	// mu serializes read-modify-write cycles on the cached transaction list.
	mu sync.Mutex
}

func New(st store.Store, sheet sheets.Client, logger *log.Logger, weekStart time.Weekday) *Reconciler {
	return &Reconciler{
		store:     st,
		sheet:     sheet,
		logger:    logger.WithComponent(log.ComponentReconcile),
		clock:     time.Now,
		weekStart: weekStart,
	}
}

// Transactions returns the transaction list for the given window. Offline
// requests answer from the cache. Online requests read the remote sheet,
// merge it into the cache and report SourceMerged; if the remote call fails
// the cache answers with SourceFallback and no error. The only error an
// online request can surface is ErrNotConfigured.
func (r *Reconciler) Transactions(ctx context.Context, opts Options) (FetchResult, error) {
	if !opts.Online {
		local := r.loadCache(ctx)
		return r.result(ctx, local, SourceLocal, opts), nil
	}
	if r.sheet == nil {
		return FetchResult{}, ErrNotConfigured
	}

	rows, err := r.sheet.ReadRange(ctx, sheets.RangeTransactions)
	if err != nil {
		r.logger.WarnContext(ctx, "remote read failed, serving cache",
			log.FieldOperation, log.OpFallback,
			log.FieldRange, sheets.RangeTransactions,
			log.FieldError, err)
		local := r.loadCache(ctx)
		return r.result(ctx, local, SourceFallback, opts), nil
	}
	remote := sheets.DecodeTransactions(rows)

	merged, syncedAt := r.mergeIntoCache(ctx, remote)
	res := r.result(ctx, merged, SourceMerged, opts)
	res.SyncedAt = syncedAt
	return res, nil
}

// AddTransaction validates and stores a new record. The remote sheet is tried
// first; on success the record is mirrored into the cache, on any remote
// failure it is kept on device only. The operation fails only on invalid
// input or a local storage failure.
func (r *Reconciler) AddTransaction(ctx context.Context, t core.Transaction) (Receipt, error) {
	if err := t.Validate(); err != nil {
		return Receipt{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = r.clock().UTC()
	}

	synced := false
	if r.sheet != nil {
		err := r.sheet.AppendRows(ctx, sheets.RangeTransactionsAppend, [][]any{sheets.EncodeTransaction(t)})
		if err != nil {
			r.logger.WarnContext(ctx, "remote append failed, keeping record on device",
				log.FieldOperation, log.OpAppend,
				log.FieldDescription, t.Description,
				log.FieldError, err)
		} else {
			synced = true
		}
	}

	if err := r.storeLocal(ctx, t); err != nil {
		return Receipt{}, err
	}

	r.logger.InfoContext(ctx, "transaction added",
		log.FieldCategory, t.Category,
		log.FieldAmountCents, t.Amount.Cents,
		log.FieldSuccess, synced)
	msg := msgAddedRemote
	if !synced {
		msg = msgSavedLocally
	}
	return Receipt{Transaction: t, Synced: synced, Message: msg}, nil
}

// Budget returns the stored budget figure, zero when none was ever set.
func (r *Reconciler) Budget(ctx context.Context) (core.Budget, error) {
	var b core.Budget
	if _, err := store.GetJSON(ctx, r.store, store.KeyBudget, &b); err != nil {
		return core.Budget{}, fmt.Errorf("load budget: %w", err)
	}
	return b, nil
}

// SetBudget overwrites the budget figure wholesale.
func (r *Reconciler) SetBudget(ctx context.Context, b core.Budget) error {
	if b.Total.Cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := store.SetJSON(ctx, r.store, store.KeyBudget, b); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

// BudgetSummary computes the headline budget view. Online requests fetch the
// budget figure and the transaction rows concurrently; either failing drops
// the whole request back to the cache.
func (r *Reconciler) BudgetSummary(ctx context.Context, online bool) (core.BudgetSummary, Source, error) {
	if !online {
		budget, err := r.Budget(ctx)
		if err != nil {
			return core.BudgetSummary{}, "", err
		}
		return core.Summarize(r.loadCache(ctx), budget), SourceLocal, nil
	}
	if r.sheet == nil {
		return core.BudgetSummary{}, "", ErrNotConfigured
	}

	var budgetRows, txnRows [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgetRows, err = r.sheet.ReadRange(gctx, sheets.RangeBudget)
		return err
	})
	g.Go(func() error {
		var err error
		txnRows, err = r.sheet.ReadRange(gctx, sheets.RangeTransactions)
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.WarnContext(ctx, "remote summary fetch failed, serving cache",
			log.FieldOperation, log.OpFallback,
			log.FieldError, err)
		budget, berr := r.Budget(ctx)
		if berr != nil {
			return core.BudgetSummary{}, "", berr
		}
		return core.Summarize(r.loadCache(ctx), budget), SourceFallback, nil
	}

	budget := parseBudgetRows(budgetRows)
	if err := store.SetJSON(ctx, r.store, store.KeyBudget, budget); err != nil {
		r.logger.WarnContext(ctx, "budget cache update failed",
			log.FieldKey, store.KeyBudget,
			log.FieldError, err)
	}
	merged, _ := r.mergeIntoCache(ctx, sheets.DecodeTransactions(txnRows))
	return core.Summarize(merged, budget), SourceMerged, nil
}

// CategoryBreakdown returns the expense pie-chart slices for the window.
func (r *Reconciler) CategoryBreakdown(ctx context.Context, online bool, w Window) ([]core.CategorySlice, Source, error) {
	res, err := r.Transactions(ctx, Options{Online: online, Window: w})
	if err != nil {
		return nil, "", err
	}
	return core.BreakdownByCategory(res.Transactions), res.Source, nil
}

// MonthlyTrend returns the chronological per-month expense series.
func (r *Reconciler) MonthlyTrend(ctx context.Context, online bool) ([]core.MonthPoint, Source, error) {
	res, err := r.Transactions(ctx, Options{Online: online, Window: WindowAll})
	if err != nil {
		return nil, "", err
	}
	return core.MonthlySeries(res.Transactions), res.Source, nil
}

// mergeIntoCache unions remote records into the cached list and records the
// sync instant. Cache write failures are logged, not fatal: the merged list
// is still correct in memory and will be rebuilt on the next sync.
func (r *Reconciler) mergeIntoCache(ctx context.Context, remote []core.Transaction) ([]core.Transaction, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	local := r.loadCache(ctx)
	merged := Merge(local, remote)
	syncedAt := r.clock().UTC()
	if err := store.SetJSON(ctx, r.store, store.KeyTransactions, merged); err != nil {
		r.logger.WarnContext(ctx, "transaction cache update failed",
			log.FieldKey, store.KeyTransactions,
			log.FieldError, err)
		return merged, syncedAt
	}
	if err := store.SetJSON(ctx, r.store, store.KeyLastSync, syncedAt); err != nil {
		r.logger.WarnContext(ctx, "last-sync update failed",
			log.FieldKey, store.KeyLastSync,
			log.FieldError, err)
	}
	r.logger.DebugContext(ctx, "cache merged",
		log.FieldOperation, log.OpMerge,
		log.FieldCount, len(merged),
		log.FieldSyncedAt, syncedAt)
	return merged, syncedAt
}

// storeLocal appends one record to the cached list, deduplicating against an
// identical existing record. Unlike cache refreshes this is an explicit save,
// so a storage failure is surfaced to the caller.
func (r *Reconciler) storeLocal(ctx context.Context, t core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	local := r.loadCache(ctx)
	merged := Merge(local, []core.Transaction{t})
	if err := store.SetJSON(ctx, r.store, store.KeyTransactions, merged); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

// loadCache reads the cached transaction list. Storage failures degrade to an
// empty list; reads must never fail outright.
func (r *Reconciler) loadCache(ctx context.Context) []core.Transaction {
	var txns []core.Transaction
	ok, err := store.GetJSON(ctx, r.store, store.KeyTransactions, &txns)
	if err != nil {
		r.logger.WarnContext(ctx, "transaction cache read failed",
			log.FieldKey, store.KeyTransactions,
			log.FieldError, err)
		return nil
	}
	if !ok {
		return nil
	}
	return txns
}

// LastSync returns the stored instant of the last successful merge, zero if
// the device never synced.
func (r *Reconciler) LastSync(ctx context.Context) time.Time {
	var ts time.Time
	if _, err := store.GetJSON(ctx, r.store, store.KeyLastSync, &ts); err != nil {
		return time.Time{}
	}
	return ts
}

func (r *Reconciler) result(ctx context.Context, txns []core.Transaction, src Source, opts Options) FetchResult {
	filtered := filterWindow(txns, opts.Window, r.clock(), r.weekStart)
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	return FetchResult{
		Transactions: filtered,
		Source:       src,
		SyncedAt:     r.LastSync(ctx),
	}
}

// parseBudgetRows extracts the budget figure from the Budget!A2:B2 row pair
// (label, amount). Anything unparseable means a zero budget.
func parseBudgetRows(rows [][]string) core.Budget {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return core.Budget{}
	}
	cents, ok := core.ParseSignedCents(rows[0][1])
	if !ok || cents < 0 {
		return core.Budget{}
	}
	return core.Budget{Total: core.Money{Cents: cents}}
}
