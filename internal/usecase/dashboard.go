package usecase

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"ops-hub/internal/domain"
)

// HomeDashboard derives the home-screen counters from the backend
// collections: a push subscription over well statuses plus one-shot
// fetches of tickets and invoices. Fetch failures degrade the display
// silently; the prior counter values stay in place.
type HomeDashboard struct {
	store    domain.CollectionStore
	logger   *slog.Logger
	onUpdate func(domain.DashboardSummary)

	mu      sync.RWMutex
	summary domain.DashboardSummary
	stop    func()
}

// NewHomeDashboard creates the home dashboard aggregator. onUpdate, when
// non-nil, is invoked after every counter recomputation.
func NewHomeDashboard(store domain.CollectionStore, logger *slog.Logger, onUpdate func(domain.DashboardSummary)) *HomeDashboard {
	return &HomeDashboard{
		store:    store,
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// Mount opens the well-status subscription and runs the two one-shot
// fetches concurrently. Only the subscription holds a resource; Unmount
// must release it.
func (d *HomeDashboard) Mount(ctx context.Context) error {
	stop, err := d.store.SubscribeCollection(ctx, domain.CollectionWells, d.onWells)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.stop = stop
	d.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.fetchTickets(gCtx)
		return nil
	})
	g.Go(func() error {
		d.fetchInvoices(gCtx)
		return nil
	})
	return g.Wait()
}

// Unmount releases the well-status subscription. The one-shot fetches
// have nothing to release.
func (d *HomeDashboard) Unmount() {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Summary returns the latest derived counters.
func (d *HomeDashboard) Summary() domain.DashboardSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.summary
}

// onWells recomputes the well counters from a fresh snapshot.
func (d *HomeDashboard) onWells(records []domain.Record) {
	total := len(records)
	down := 0
	for _, rec := range records {
		if domain.WellStatusFromRecord(rec).Down() {
			down++
		}
	}

	d.publish(func(s *domain.DashboardSummary) {
		s.WellCount = total
		s.DownCount = down
	})
}

func (d *HomeDashboard) fetchTickets(ctx context.Context) {
	records, err := d.store.FetchCollection(ctx, domain.CollectionTickets, domain.FetchLimit)
	if err != nil {
		// Degrade silently; the prior count stays in place.
		d.logger.Warn("ticket fetch failed", "error", err)
		return
	}

	d.publish(func(s *domain.DashboardSummary) {
		s.TicketCount = len(records)
	})
}

func (d *HomeDashboard) fetchInvoices(ctx context.Context) {
	records, err := d.store.FetchCollection(ctx, domain.CollectionInvoices, domain.FetchLimit)
	if err != nil {
		d.logger.Warn("invoice fetch failed", "error", err)
		return
	}

	open := 0
	for _, rec := range records {
		if domain.InvoiceStatusFromRecord(rec) == domain.InvoiceStatusOpen {
			open++
		}
	}

	d.publish(func(s *domain.DashboardSummary) {
		s.InvoiceCount = len(records)
		s.OpenInvoices = open
	})
}

// publish applies a counter mutation and notifies the observer outside
// the lock.
func (d *HomeDashboard) publish(apply func(*domain.DashboardSummary)) {
	d.mu.Lock()
	apply(&d.summary)
	snapshot := d.summary
	d.mu.Unlock()

	if d.onUpdate != nil {
		d.onUpdate(snapshot)
	}
}
