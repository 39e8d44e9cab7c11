package interfaces

import (
	"context"

	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

// BillingService is the external billing collaborator. On success the
// caller applies the plan's allowance to the team; the provider's own
// correctness is out of scope.
type BillingService interface {
	// CreateSubscription updates the customer's email and payment source,
	// then opens a subscription on the given plan.
	CreateSubscription(ctx context.Context, customerID, email, sourceToken string, planID types.PlanID) error
}
