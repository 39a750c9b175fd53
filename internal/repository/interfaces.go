package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/trainhub/internal/domain"
)

var (
	// ErrNotFound is returned when no plan matches the requested id.
	ErrNotFound = errors.New("session plan not found")
	// ErrAmbiguousID is returned when a short id prefix matches several plans.
	ErrAmbiguousID = errors.New("session plan id is ambiguous")
)

// PlanSummary is a list row: a plan without its agenda.
type PlanSummary struct {
	ID            string
	Title         string
	TotalDuration int
	ItemCount     int
	UpdatedAt     string
}

// PlanRepo persists session plans together with their ordered agenda.
type PlanRepo interface {
	Create(ctx context.Context, p *domain.SessionPlan) error
	GetByID(ctx context.Context, id string) (*domain.SessionPlan, error)
	// FindByPrefix resolves a full id or a unique id prefix such as the
	// eight-character display id.
	FindByPrefix(ctx context.Context, prefix string) (*domain.SessionPlan, error)
	List(ctx context.Context) ([]PlanSummary, error)
	// Update replaces the plan row and its whole agenda.
	Update(ctx context.Context, p *domain.SessionPlan) error
	Delete(ctx context.Context, id string) error
}
