package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetshop/sweetshop/internal/domain"
)

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestNewProduct(t *testing.T) {
	p, err := domain.NewProduct("p1", domain.ProductInput{
		Name:      " Brigadeiro Gourmet ",
		UnitPrice: "3.50",
		Category:  "doces",
		ImageURL:  "https://cdn.example.com/brigadeiro.png",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, "Brigadeiro Gourmet", p.Name)
	assert.Equal(t, "3.50", domain.FormatMoney(p.UnitPrice))
	assert.True(t, p.Active)
	assert.Equal(t, now, p.CreatedAt)
}

func TestNewProduct_Inactive(t *testing.T) {
	inactive := false
	p, err := domain.NewProduct("p1", domain.ProductInput{Name: "Beijinho", UnitPrice: "3", Category: "doces", Active: &inactive}, now)
	require.NoError(t, err)
	assert.False(t, p.Active)
}

func TestNewProduct_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		in    domain.ProductInput
		field string
	}{
		{"missing name", domain.ProductInput{UnitPrice: "1", Category: "c"}, "name"},
		{"missing price", domain.ProductInput{Name: "n", Category: "c"}, "unitPrice"},
		{"float garbage", domain.ProductInput{Name: "n", UnitPrice: "1,50", Category: "c"}, "unitPrice"},
		{"negative price", domain.ProductInput{Name: "n", UnitPrice: "-1.00", Category: "c"}, "unitPrice"},
		{"too many decimals", domain.ProductInput{Name: "n", UnitPrice: "1.005", Category: "c"}, "unitPrice"},
		{"price too large", domain.ProductInput{Name: "n", UnitPrice: "10000000000.00", Category: "c"}, "unitPrice"},
		{"missing category", domain.ProductInput{Name: "n", UnitPrice: "1"}, "category"},
		{"long description", domain.ProductInput{Name: "n", UnitPrice: "1", Category: "c", Description: strings.Repeat("x", 501)}, "description"},
		{"relative image", domain.ProductInput{Name: "n", UnitPrice: "1", Category: "c", ImageURL: "/img.png"}, "imageUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewProduct("p", tt.in, now)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestProduct_Apply(t *testing.T) {
	p, err := domain.NewProduct("p1", domain.ProductInput{Name: "Quindim", UnitPrice: "4.50", Category: "doces"}, now)
	require.NoError(t, err)

	price := "5.00"
	later := now.Add(time.Hour)
	require.NoError(t, p.Apply(domain.ProductPatch{UnitPrice: &price}, later))
	assert.Equal(t, "5.00", domain.FormatMoney(p.UnitPrice))
	assert.Equal(t, "Quindim", p.Name)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestProduct_ApplyInvalidLeavesProductUntouched(t *testing.T) {
	p, err := domain.NewProduct("p1", domain.ProductInput{Name: "Quindim", UnitPrice: "4.50", Category: "doces"}, now)
	require.NoError(t, err)

	empty := ""
	err = p.Apply(domain.ProductPatch{Name: &empty}, now.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, "Quindim", p.Name)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestParseMoney(t *testing.T) {
	d, err := domain.ParseMoney("8.5")
	require.NoError(t, err)
	assert.Equal(t, "8.50", domain.FormatMoney(d))

	_, err = domain.ParseMoney("abc")
	assert.Error(t, err)
}

func TestNewCategory(t *testing.T) {
	c, err := domain.NewCategory("c1", "Trufas", "🍫", now)
	require.NoError(t, err)
	assert.Equal(t, "Trufas", c.Name)

	_, err = domain.NewCategory("c2", "", "", now)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestCategory_Apply(t *testing.T) {
	c, err := domain.NewCategory("c1", "Trufas", "🍫", now)
	require.NoError(t, err)

	name := "Bombons"
	require.NoError(t, c.Apply(domain.CategoryPatch{Name: &name}, now.Add(time.Minute)))
	assert.Equal(t, "Bombons", c.Name)
	assert.Equal(t, "🍫", c.Icon)
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, domain.ValidateCredentials("Admin@Example.com", "Admin", "s3cretpass"))
	assert.Error(t, domain.ValidateCredentials("not-an-email", "Admin", "s3cretpass"))
	assert.Error(t, domain.ValidateCredentials("a@b.c", "", "s3cretpass"))
	assert.Error(t, domain.ValidateCredentials("a@b.c", "Admin", "short"))
	assert.Equal(t, "admin@example.com", domain.NormalizeEmail(" Admin@Example.com "))
}

func TestMissingProductsError(t *testing.T) {
	err := &domain.MissingProductsError{IDs: []string{"a", "b"}}
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
	assert.Equal(t, "product not found: a, b", err.Error())
}

func TestValidationError_Err(t *testing.T) {
	verr := &domain.ValidationError{}
	assert.NoError(t, verr.Err())
	verr.Add("name", "is required")
	assert.EqualError(t, verr.Err(), "validation failed: name: is required")
}
