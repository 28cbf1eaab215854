// Package wire holds the JSON views shared by the inbound adapters. Money is
// always a fixed-scale decimal string, never a JSON number.
package wire

import (
	"time"

	"github.com/sweetshop/sweetshop/internal/domain"
)

type OrderLine struct {
	ID                   string `json:"id"`
	Position             int    `json:"position"`
	ProductID            string `json:"productId"`
	ProductName          string `json:"productName"`
	Quantity             int    `json:"quantity"`
	UnitPriceAtOrderTime string `json:"unitPriceAtOrderTime"`
	LineTotal            string `json:"lineTotal"`
}

type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	ScheduledFor  time.Time   `json:"scheduledFor"`
	Status        string      `json:"status"`
	OrderTotal    string      `json:"orderTotal"`
	Lines         []OrderLine `json:"lines"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type OrderPage struct {
	Data       []Order           `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnitPrice   string    `json:"unitPrice"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromOrder(o *domain.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{
			ID:                   l.ID,
			Position:             l.Position,
			ProductID:            l.ProductID,
			ProductName:          l.ProductName,
			Quantity:             l.Quantity,
			UnitPriceAtOrderTime: domain.FormatMoney(l.UnitPriceAtOrderTime),
			LineTotal:            domain.FormatMoney(l.LineTotal),
		})
	}
	return Order{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		ScheduledFor:  o.ScheduledFor,
		Status:        string(o.Status),
		OrderTotal:    domain.FormatMoney(o.OrderTotal),
		Lines:         lines,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func FromOrderPage(p *domain.OrderPage) OrderPage {
	data := make([]Order, 0, len(p.Data))
	for i := range p.Data {
		data = append(data, FromOrder(&p.Data[i]))
	}
	return OrderPage{Data: data, Pagination: p.Pagination}
}

func FromProduct(p *domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   domain.FormatMoney(p.UnitPrice),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromProducts(items []domain.Product) []Product {
	out := make([]Product, 0, len(items))
	for i := range items {
		out = append(out, FromProduct(&items[i]))
	}
	return out
}

func FromCategory(c *domain.Category) Category {
	return Category{ID: c.ID, Name: c.Name, Icon: c.Icon, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func FromCategories(items []domain.Category) []Category {
	out := make([]Category, 0, len(items))
	for i := range items {
		out = append(out, FromCategory(&items[i]))
	}
	return out
}

// ParseTimestamp accepts RFC 3339 or a bare YYYY-MM-DD date. A bare date is
// midnight UTC, or the last instant of that day when endOfDay is set.
func ParseTimestamp(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
