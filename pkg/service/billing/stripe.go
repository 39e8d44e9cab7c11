package billing

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// stripeService implements interfaces.BillingService against the Stripe API
type stripeService struct {
	api *client.API
}

var _ interfaces.BillingService = &stripeService{}

// New creates a Stripe-backed billing service
func New(secretKey string) (interfaces.BillingService, error) {
	if secretKey == "" {
		return nil, goerr.New("Stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &stripeService{api: api}, nil
}

// CreateSubscription attaches the payment source and email to the customer,
// then opens a subscription on the plan's price. Both calls must succeed
// before the caller applies the plan to the team.
func (s *stripeService) CreateSubscription(ctx context.Context, customerID, email, sourceToken string, planID types.PlanID) error {
	if customerID == "" {
		return goerr.New("team has no billing customer", goerr.V("planID", planID))
	}

	customerParams := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
		Source: stripe.String(sourceToken),
	}

	if _, err := s.api.Customers.Update(customerID, customerParams); err != nil {
		return goerr.Wrap(err, "failed to update billing customer", goerr.V("customerID", customerID))
	}

	subscriptionParams := &stripe.SubscriptionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(string(planID))},
		},
	}

	if _, err := s.api.Subscriptions.New(subscriptionParams); err != nil {
		return goerr.Wrap(err, "failed to create subscription",
			goerr.V("customerID", customerID),
			goerr.V("planID", planID),
		)
	}

	return nil
}
