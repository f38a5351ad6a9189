package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-hub/internal/domain"
)

// mockCollections implements domain.CollectionStore for testing. Push
// snapshots are driven through the captured callback.
type mockCollections struct {
	fetches   map[string][]domain.Record
	fetchErrs map[string]error
	onWells   func([]domain.Record)
	stopped   bool
}

func newMockCollections() *mockCollections {
	return &mockCollections{
		fetches:   make(map[string][]domain.Record),
		fetchErrs: make(map[string]error),
	}
}

func (m *mockCollections) FetchCollection(_ context.Context, name string, limit int) ([]domain.Record, error) {
	if err := m.fetchErrs[name]; err != nil {
		return nil, err
	}
	records := m.fetches[name]
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *mockCollections) SubscribeCollection(_ context.Context, name string, onSnapshot func([]domain.Record)) (func(), error) {
	if name == domain.CollectionWells {
		m.onWells = onSnapshot
	}
	return func() { m.stopped = true }, nil
}

func records(n int, data func(i int) map[string]any) []domain.Record {
	out := make([]domain.Record, n)
	for i := range out {
		out[i] = domain.Record{ID: string(rune('a' + i)), Data: data(i)}
	}
	return out
}

func TestHomeDashboard_WellCounters(t *testing.T) {
	// 10 wells: 3 with the explicit flag, 1 more with the DOWN level.
	store := newMockCollections()
	d := NewHomeDashboard(store, slog.Default(), nil)
	require.NoError(t, d.Mount(context.Background()))

	store.onWells(records(10, func(i int) map[string]any {
		data := map[string]any{"currentLevel": "NORMAL"}
		if i < 3 {
			data["isDown"] = true
		}
		if i == 3 {
			data["currentLevel"] = domain.LevelDown
		}
		return data
	}))

	summary := d.Summary()
	assert.Equal(t, 10, summary.WellCount)
	assert.Equal(t, 4, summary.DownCount)
}

func TestHomeDashboard_WellPushRecomputes(t *testing.T) {
	store := newMockCollections()
	d := NewHomeDashboard(store, slog.Default(), nil)
	require.NoError(t, d.Mount(context.Background()))

	store.onWells(records(5, func(int) map[string]any {
		return map[string]any{"isDown": true}
	}))
	assert.Equal(t, 5, d.Summary().DownCount)

	// A later push replaces the snapshot entirely.
	store.onWells(records(2, func(int) map[string]any {
		return map[string]any{}
	}))
	summary := d.Summary()
	assert.Equal(t, 2, summary.WellCount)
	assert.Equal(t, 0, summary.DownCount)
}

func TestHomeDashboard_TicketAndInvoiceCounts(t *testing.T) {
	store := newMockCollections()
	store.fetches[domain.CollectionTickets] = records(7, func(int) map[string]any {
		return map[string]any{}
	})
	store.fetches[domain.CollectionInvoices] = records(4, func(i int) map[string]any {
		status := "paid"
		if i%2 == 0 {
			status = domain.InvoiceStatusOpen
		}
		return map[string]any{"status": status}
	})

	d := NewHomeDashboard(store, slog.Default(), nil)
	require.NoError(t, d.Mount(context.Background()))

	summary := d.Summary()
	assert.Equal(t, 7, summary.TicketCount)
	assert.Equal(t, 4, summary.InvoiceCount)
	assert.Equal(t, 2, summary.OpenInvoices)
}

func TestHomeDashboard_FetchFailureDegradesSilently(t *testing.T) {
	// A failed ticket fetch keeps the default count and surfaces nothing.
	store := newMockCollections()
	store.fetchErrs[domain.CollectionTickets] = domain.ErrCollectionFetch
	store.fetches[domain.CollectionInvoices] = records(3, func(int) map[string]any {
		return map[string]any{"status": domain.InvoiceStatusOpen}
	})

	d := NewHomeDashboard(store, slog.Default(), nil)
	err := d.Mount(context.Background())

	require.NoError(t, err, "fetch failures never propagate")
	summary := d.Summary()
	assert.Equal(t, 0, summary.TicketCount)
	assert.Equal(t, 3, summary.InvoiceCount)
}

func TestHomeDashboard_UnmountReleasesSubscription(t *testing.T) {
	store := newMockCollections()
	d := NewHomeDashboard(store, slog.Default(), nil)
	require.NoError(t, d.Mount(context.Background()))

	d.Unmount()
	assert.True(t, store.stopped)

	// Unmounting twice is safe.
	d.Unmount()
}

func TestHomeDashboard_NotifiesObserver(t *testing.T) {
	store := newMockCollections()
	var last domain.DashboardSummary
	d := NewHomeDashboard(store, slog.Default(), func(s domain.DashboardSummary) { last = s })
	require.NoError(t, d.Mount(context.Background()))

	store.onWells(records(3, func(int) map[string]any {
		return map[string]any{"isDown": true}
	}))

	assert.Equal(t, 3, last.WellCount)
	assert.Equal(t, 3, last.DownCount)
}
