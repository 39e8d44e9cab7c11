package config

import (
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/service/billing"
	"github.com/urfave/cli/v3"
)

// Stripe holds CLI flags for the billing provider
type Stripe struct {
	secretKey string
}

// Flags returns CLI flags for Stripe configuration
func (s *Stripe) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "stripe-secret-key",
			Usage:       "Stripe API secret key (subscriptions are disabled when empty)",
			Category:    "Billing",
			Sources:     cli.EnvVars("POLLWIZ_STRIPE_SECRET_KEY"),
			Destination: &s.secretKey,
		},
	}
}

// IsConfigured reports whether a secret key was provided
func (s *Stripe) IsConfigured() bool {
	return s.secretKey != ""
}

// Configure builds the billing service
func (s *Stripe) Configure() (interfaces.BillingService, error) {
	return billing.New(s.secretKey)
}
