package handler

import (
	"net/http"

	"ops-hub/internal/domain"
	"ops-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// DashboardHandler handles /dashboard, serving the aggregated counters
// for the home screen.
type DashboardHandler struct {
	dashboard *usecase.HomeDashboard
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *usecase.HomeDashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// dashboardResponse represents the dashboard counters.
type dashboardResponse struct {
	Wells struct {
		Total int `json:"total"`
		Down  int `json:"down"`
	} `json:"wells"`
	Tickets struct {
		Total int `json:"total"`
	} `json:"tickets"`
	Invoices struct {
		Total int `json:"total"`
		Open  int `json:"open"`
	} `json:"invoices"`
}

func toDashboardResponse(summary domain.DashboardSummary) dashboardResponse {
	var resp dashboardResponse
	resp.Wells.Total = summary.WellCount
	resp.Wells.Down = summary.DownCount
	resp.Tickets.Total = summary.TicketCount
	resp.Invoices.Total = summary.InvoiceCount
	resp.Invoices.Open = summary.OpenInvoices
	return resp
}

// Handle processes the /dashboard endpoint.
func (h *DashboardHandler) Handle(c echo.Context) error {
	return c.JSON(http.StatusOK, toDashboardResponse(h.dashboard.Summary()))
}
