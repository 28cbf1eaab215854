package domain

import (
	"strings"
	"time"
)

type Category struct {
	ID        string
	Name      string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryPatch struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

func NewCategory(id, name, icon string, now time.Time) (*Category, error) {
	c := &Category{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Icon:      strings.TrimSpace(icon),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) Apply(patch CategoryPatch, now time.Time) error {
	next := *c
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Icon != nil {
		next.Icon = strings.TrimSpace(*patch.Icon)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*c = next
	return nil
}

func (c *Category) Validate() error {
	verr := &ValidationError{}
	if c.Name == "" {
		verr.Add("name", "is required")
	}
	if c.Icon == "" {
		verr.Add("icon", "is required")
	}
	return verr.Err()
}
