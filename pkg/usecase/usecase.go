package usecase

import (
	"time"

	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
)

// UseCases wires the poll, quota and billing logic onto a repository
type UseCases struct {
	repo    interfaces.Repository
	billing interfaces.BillingService
	plans   model.PlanCatalog
	now     func() time.Time
}

type Option func(*UseCases)

// WithBilling enables the subscription use case
func WithBilling(billing interfaces.BillingService) Option {
	return func(uc *UseCases) {
		uc.billing = billing
	}
}

// WithPlans replaces the built-in plan catalog
func WithPlans(plans model.PlanCatalog) Option {
	return func(uc *UseCases) {
		uc.plans = plans
	}
}

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		plans: model.DefaultPlanCatalog,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
