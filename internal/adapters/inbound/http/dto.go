package httpadapter

import (
	"strings"
	"time"

	"github.com/sweetshop/sweetshop/internal/adapters/inbound/wire"
	"github.com/sweetshop/sweetshop/internal/application"
	"github.com/sweetshop/sweetshop/internal/domain"
)

// Request and response bodies specific to the REST API. Shared resource
// views live in package wire.
type (
	createOrderRequest struct {
		CustomerName  string                    `json:"customerName"`
		CustomerPhone string                    `json:"customerPhone"`
		ScheduledFor  string                    `json:"scheduledFor"`
		Lines         []domain.OrderLineRequest `json:"lines"`
	}

	updateStatusRequest struct {
		Status string `json:"status"`
	}

	createCategoryRequest struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	loginResponse struct {
		AccessToken string    `json:"accessToken"`
		ExpiresAt   time.Time `json:"expiresAt"`
	}

	dashboardResponse struct {
		Message        string         `json:"message"`
		User           domain.Claims  `json:"user"`
		OrdersByStatus map[string]int `json:"ordersByStatus"`
		TotalOrders    int            `json:"totalOrders"`
	}
)

// toDomain converts the wire request. A missing scheduledFor is left zero for
// domain validation to report.
func (r createOrderRequest) toDomain() (domain.OrderCreateRequest, error) {
	req := domain.OrderCreateRequest{
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Lines:         r.Lines,
	}
	raw := strings.TrimSpace(r.ScheduledFor)
	if raw == "" {
		return req, nil
	}
	at, err := wire.ParseTimestamp(raw, false)
	if err != nil {
		return req, domain.NewValidationError("scheduledFor", "must be an ISO-8601 timestamp")
	}
	req.ScheduledFor = at
	return req, nil
}

func toDashboardResponse(d *application.Dashboard) dashboardResponse {
	byStatus := make(map[string]int, len(d.OrdersByStatus))
	for st, n := range d.OrdersByStatus {
		byStatus[string(st)] = n
	}
	return dashboardResponse{
		Message:        d.Message,
		User:           d.User,
		OrdersByStatus: byStatus,
		TotalOrders:    d.TotalOrders,
	}
}
