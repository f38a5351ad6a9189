package domain

// Collection names owned by the remote document store.
const (
	CollectionWells    = "wells"
	CollectionTickets  = "tickets"
	CollectionInvoices = "invoices"
)

// LevelDown is the sentinel level classification that marks a well as down
// even when its explicit down flag is not set.
const LevelDown = "DOWN"

// InvoiceStatusOpen marks an invoice as not yet settled.
const InvoiceStatusOpen = "open"

// FetchLimit caps one-shot collection fetches on the home dashboard.
const FetchLimit = 1000

// Record is a raw document from a backend collection.
type Record struct {
	ID   string
	Data map[string]any
}

// WellStatus is the well-monitoring view of a record.
type WellStatus struct {
	ID           string
	Name         string
	IsDown       bool
	CurrentLevel string
}

// Down reports whether the well counts as down: either the explicit flag
// is set or the level classification equals the DOWN sentinel. The two
// signals are kept as an OR; backend data does not guarantee they agree.
func (w WellStatus) Down() bool {
	return w.IsDown || w.CurrentLevel == LevelDown
}

// WellStatusFromRecord extracts the well fields from a raw record.
// Missing or mistyped fields read as zero values.
func WellStatusFromRecord(rec Record) WellStatus {
	w := WellStatus{ID: rec.ID}
	if v, ok := rec.Data["name"].(string); ok {
		w.Name = v
	}
	if v, ok := rec.Data["isDown"].(bool); ok {
		w.IsDown = v
	}
	if v, ok := rec.Data["currentLevel"].(string); ok {
		w.CurrentLevel = v
	}
	return w
}

// InvoiceStatusFromRecord extracts the status field from an invoice record.
func InvoiceStatusFromRecord(rec Record) string {
	if v, ok := rec.Data["status"].(string); ok {
		return v
	}
	return ""
}

// DashboardSummary holds the derived counters shown on the home screen.
// Counters are recomputed from collection snapshots and never persisted.
type DashboardSummary struct {
	WellCount    int
	DownCount    int
	TicketCount  int
	InvoiceCount int
	OpenInvoices int
}
