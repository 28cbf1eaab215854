package application

import (
	"context"
	"fmt"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// Dashboard is the back-office landing summary.
type Dashboard struct {
	Message        string
	User           domain.Claims
	OrdersByStatus map[domain.OrderStatus]int
	TotalOrders    int
}

type DashboardService struct {
	orders domain.OrderRepository
}

func NewDashboardService(orders domain.OrderRepository) *DashboardService {
	return &DashboardService{orders: orders}
}

func (s *DashboardService) Summary(ctx context.Context, user domain.Claims) (*Dashboard, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting orders: %w", err)
	}

	byStatus := make(map[domain.OrderStatus]int, len(domain.ValidOrderStatuses))
	total := 0
	for _, st := range domain.ValidOrderStatuses {
		byStatus[st] = counts[st]
		total += counts[st]
	}
	return &Dashboard{
		Message:        "Welcome to the dashboard",
		User:           user,
		OrdersByStatus: byStatus,
		TotalOrders:    total,
	}, nil
}
