package tui_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sweetshop/sweetshop/internal/adapters/outbound/tui"
	"github.com/sweetshop/sweetshop/internal/domain"
)

var placed = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "0b7c9f3e-order",
		CustomerName:  "Ada Lovelace",
		CustomerPhone: "555-0100",
		ScheduledFor:  placed.Add(48 * time.Hour),
		Status:        domain.OrderStatusConfirmed,
		OrderTotal:    decimal.RequireFromString("46"),
		Lines: []domain.OrderLine{
			{ProductName: "Lemon Tart", Quantity: 2, UnitPriceAtOrderTime: decimal.RequireFromString("10.5"), LineTotal: decimal.RequireFromString("21")},
			{ProductName: "Chocolate Cake", Quantity: 1, UnitPriceAtOrderTime: decimal.RequireFromString("25"), LineTotal: decimal.RequireFromString("25")},
		},
		CreatedAt: placed,
	}
}

func TestRenderOrder_Receipt(t *testing.T) {
	output := tui.RenderOrder(sampleOrder())
	assert.Contains(t, output, "0b7c9f3e-order")
	assert.Contains(t, output, "CONFIRMED")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "Lemon Tart")
	assert.Contains(t, output, "10.50")
	assert.Contains(t, output, "21.00")
	assert.Contains(t, output, "46.00")
	assert.Contains(t, output, "2026-03-03 09:30")
}

func TestRenderOrder_NoLines(t *testing.T) {
	o := sampleOrder()
	o.Lines = nil
	o.OrderTotal = decimal.Zero
	output := tui.RenderOrder(o)
	assert.Contains(t, output, "No items.")
	assert.Contains(t, output, "0.00")
}

func TestRenderOrderPage(t *testing.T) {
	page := &domain.OrderPage{
		Data:       []domain.Order{*sampleOrder()},
		Pagination: domain.NewPagination(11, 2, 10),
	}
	output := tui.RenderOrderPage(page)
	assert.Contains(t, output, "page 2 of 2")
	assert.Contains(t, output, "11 total")
	assert.Contains(t, output, "Ada Lovelace")
	assert.Contains(t, output, "46.00")
}

func TestRenderOrderPage_Empty(t *testing.T) {
	output := tui.RenderOrderPage(&domain.OrderPage{Pagination: domain.NewPagination(0, 1, 10)})
	assert.Contains(t, output, "No orders found.")
	assert.Contains(t, output, "page 1 of 1")
}

func TestRenderProducts(t *testing.T) {
	output := tui.RenderProducts([]domain.Product{
		{Name: "Brownie", Category: "cake", UnitPrice: decimal.RequireFromString("3.5"), Active: true},
		{Name: "Old Muffin", Category: "muffin", UnitPrice: decimal.RequireFromString("1"), Active: false},
	})
	assert.Contains(t, output, "2 products")
	assert.Contains(t, output, "Brownie")
	assert.Contains(t, output, "3.50")
	assert.Contains(t, output, "Old Muffin")
}

func TestRenderStatusChange(t *testing.T) {
	output := tui.RenderStatusChange(sampleOrder(), placed)
	assert.Contains(t, output, "0b7c9f3e-order")
	assert.Contains(t, output, "CONFIRMED")
}
