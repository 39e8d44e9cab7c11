package model

import (
	"time"

	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

// DefaultMaxCount is the free-tier monthly allowance applied when a team
// has never been assigned a plan.
const DefaultMaxCount = 5

// Team represents one chat-platform workspace: the unit of billing and quota.
type Team struct {
	ID               types.TeamID
	MaxCount         int
	ExpirationDate   *time.Time
	MonthlyCounts    map[string]int
	StripeCustomerID string
	CreatedAt        time.Time
}

// NewTeam creates a team record with an empty counter map
func NewTeam(id types.TeamID) *Team {
	return &Team{
		ID:            id,
		MonthlyCounts: map[string]int{},
		CreatedAt:     time.Now().UTC(),
	}
}

// MaxVotes returns the monthly allowance, defaulting to the free tier
// when no plan has been applied.
func (t *Team) MaxVotes() int {
	if t.MaxCount <= 0 {
		return DefaultMaxCount
	}
	return t.MaxCount
}

// CurrentMonthCount returns the chargeable-action count for the month of
// today. A missing key means zero.
func (t *Team) CurrentMonthCount(today time.Time) int {
	return t.MonthlyCounts[types.MonthKey(today)]
}

// IsExpired reports whether the team's trial or subscription has lapsed.
// The comparison is date-only and strict: today > expirationDate. An absent
// expiration date substitutes a sentinel one day in the future, so the
// answer stays "not expired" even across a day boundary.
func (t *Team) IsExpired(today time.Time) bool {
	day := types.DateOnly(today)

	expiration := day.AddDate(0, 0, 1)
	if t.ExpirationDate != nil {
		expiration = types.DateOnly(*t.ExpirationDate)
	}

	return day.After(expiration)
}
