package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"ops-hub/internal/domain"
)

func TestRecordDashboard(t *testing.T) {
	RecordDashboard(domain.DashboardSummary{
		WellCount:    12,
		DownCount:    3,
		TicketCount:  40,
		InvoiceCount: 25,
		OpenInvoices: 7,
	})

	assert.Equal(t, 12.0, testutil.ToFloat64(WellsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(WellsDown))
	assert.Equal(t, 40.0, testutil.ToFloat64(TicketsTotal))
	assert.Equal(t, 25.0, testutil.ToFloat64(InvoicesTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(InvoicesOpen))
}

func TestRecordSignIn(t *testing.T) {
	before := testutil.ToFloat64(SignInsTotal.WithLabelValues("success"))
	RecordSignIn("success")
	assert.Equal(t, before+1, testutil.ToFloat64(SignInsTotal.WithLabelValues("success")))
}
