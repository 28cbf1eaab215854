package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Any status may follow any other.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatuses enumerates all recognized order statuses.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus normalises s to upper case and checks it is a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range ValidOrderStatuses {
		if st == v {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: %s)", s, joinStatuses())
}

func joinStatuses() string {
	names := make([]string, len(ValidOrderStatuses))
	for i, s := range ValidOrderStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

const maxPhoneLength = 12

// MaxLineQuantity bounds a single line so every line and order total stays
// representable by the persistence layer.
const MaxLineQuantity = 100_000

// OrderLineRequest is one requested (product, quantity) pair.
type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderCreateRequest is the client input for placing an order. Prices are
// never accepted from the client.
type OrderCreateRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	ScheduledFor  time.Time          `json:"scheduledFor"`
	Lines         []OrderLineRequest `json:"lines"`
}

// Validate reports every malformed field at once.
func (r OrderCreateRequest) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(r.CustomerName) == "" {
		verr.Add("customerName", "is required")
	}
	phone := strings.TrimSpace(r.CustomerPhone)
	switch {
	case phone == "":
		verr.Add("customerPhone", "is required")
	case len(phone) > maxPhoneLength:
		verr.Add("customerPhone", fmt.Sprintf("must be at most %d characters", maxPhoneLength))
	}
	if r.ScheduledFor.IsZero() {
		verr.Add("scheduledFor", "is required")
	}
	for i, l := range r.Lines {
		if strings.TrimSpace(l.ProductID) == "" {
			verr.Add(fmt.Sprintf("lines[%d].productId", i), "is required")
		}
		switch {
		case l.Quantity < 0:
			verr.Add(fmt.Sprintf("lines[%d].quantity", i), "must not be negative")
		case l.Quantity > MaxLineQuantity:
			verr.Add(fmt.Sprintf("lines[%d].quantity", i), fmt.Sprintf("must be at most %d", MaxLineQuantity))
		}
	}
	return verr.Err()
}

// OrderLine is a priced line. UnitPriceAtOrderTime and LineTotal are
// snapshots and never change after the order is created.
type OrderLine struct {
	ID                   string
	Position             int
	ProductID            string
	ProductName          string
	Quantity             int
	UnitPriceAtOrderTime decimal.Decimal
	LineTotal            decimal.Decimal
}

// Order is the aggregate root. OrderTotal equals the sum of line totals.
type Order struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	ScheduledFor  time.Time
	Status        OrderStatus
	OrderTotal    decimal.Decimal
	Lines         []OrderLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder assembles a pending order from a validated request and its priced lines.
func NewOrder(id string, req OrderCreateRequest, lines []OrderLine, total decimal.Decimal, now time.Time) *Order {
	return &Order{
		ID:            id,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		ScheduledFor:  req.ScheduledFor.UTC(),
		Status:        OrderStatusPending,
		OrderTotal:    total,
		Lines:         lines,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListOrdersFilter selects a page of orders. Date bounds apply only when both are set.
type ListOrdersFilter struct {
	Page      int
	Limit     int
	Status    OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	ProductID string
}

// Normalize clamps out-of-range paging values to the defaults instead of
// rejecting them and upper-cases the status.
func (f ListOrdersFilter) Normalize() ListOrdersFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	f.Status = OrderStatus(strings.ToUpper(strings.TrimSpace(string(f.Status))))
	f.ProductID = strings.TrimSpace(f.ProductID)
	return f
}

// HasDateRange reports whether the createdAt range filter applies.
func (f ListOrdersFilter) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// Offset is the number of rows to skip for the current page. It saturates at
// math.MaxInt instead of overflowing.
func (f ListOrdersFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// Matches reports whether o satisfies every filter except paging.
func (f ListOrdersFilter) Matches(o *Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.HasDateRange() && (o.CreatedAt.Before(*f.StartDate) || o.CreatedAt.After(*f.EndDate)) {
		return false
	}
	if f.ProductID != "" {
		found := false
		for _, l := range o.Lines {
			if l.ProductID == f.ProductID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Pagination describes the page returned by a listing.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total/limit).
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = total / limit
		if total%limit != 0 {
			pages++
		}
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// OrderPage is one page of orders.
type OrderPage struct {
	Data       []Order
	Pagination Pagination
}
