package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 500

// MaxUnitPrice is the largest catalog price the stores can hold.
var MaxUnitPrice = decimal.RequireFromString("9999999999.99")

// Product is a catalog entry. UnitPrice is exact at MoneyScale.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Category    string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductInput carries the fields of a new product. UnitPrice is a decimal string.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unitPrice"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	Active      *bool  `json:"active"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	UnitPrice   *string `json:"unitPrice"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"imageUrl"`
	Active      *bool   `json:"active"`
}

// NewProduct validates in and builds an active-by-default product.
func NewProduct(id string, in ProductInput, now time.Time) (*Product, error) {
	verr := &ValidationError{}
	price, err := ParseMoney(in.UnitPrice)
	if err != nil {
		verr.Add("unitPrice", err.Error())
	}
	p := &Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		UnitPrice:   price,
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.validateInto(verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply merges patch into p and re-validates.
func (p *Product) Apply(patch ProductPatch, now time.Time) error {
	verr := &ValidationError{}
	next := *p
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.UnitPrice != nil {
		price, err := ParseMoney(*patch.UnitPrice)
		if err != nil {
			verr.Add("unitPrice", err.Error())
		} else {
			next.UnitPrice = price
		}
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.ImageURL != nil {
		next.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.Active != nil {
		next.Active = *patch.Active
	}
	next.validateInto(verr)
	if err := verr.Err(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*p = next
	return nil
}

// Validate checks the invariants of an already-built product.
func (p *Product) Validate() error {
	verr := &ValidationError{}
	if p.UnitPrice.IsNegative() {
		verr.Add("unitPrice", "amount must not be negative")
	}
	p.validateInto(verr)
	return verr.Err()
}

func (p *Product) validateInto(verr *ValidationError) {
	if p.UnitPrice.GreaterThan(MaxUnitPrice) {
		verr.Add("unitPrice", "amount must be at most "+FormatMoney(MaxUnitPrice))
	}
	if p.Name == "" {
		verr.Add("name", "is required")
	}
	if len([]rune(p.Description)) > maxDescriptionLength {
		verr.Add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	if p.Category == "" {
		verr.Add("category", "is required")
	}
	if p.ImageURL != "" && !isHTTPURL(p.ImageURL) {
		verr.Add("imageUrl", "must be an absolute http(s) URL")
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
