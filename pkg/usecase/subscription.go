package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/utils/logging"
)

// CreateSubscription handles a successful checkout: the team is resolved
// from the caller's access token, the billing collaborator opens the
// subscription, and only then is the plan's allowance applied and the
// expiration date cleared. A billing failure leaves the team untouched.
func (uc *UseCases) CreateSubscription(ctx context.Context, accessToken, email, sourceToken string, planID types.PlanID) error {
	if uc.billing == nil {
		return goerr.New("billing service is not configured")
	}

	team, err := uc.ResolveTeamByAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := uc.billing.CreateSubscription(ctx, team.StripeCustomerID, email, sourceToken, planID); err != nil {
		return goerr.Wrap(err, "billing collaborator rejected subscription",
			goerr.V("teamID", team.ID),
			goerr.V("planID", planID),
		)
	}

	maxCount := uc.plans.MaxCount(planID)
	if err := uc.repo.Team().SetPlan(ctx, team.ID, maxCount); err != nil {
		return goerr.Wrap(err, "failed to apply plan",
			goerr.V("teamID", team.ID),
			goerr.V("planID", planID),
			goerr.V("maxCount", maxCount),
		)
	}

	logging.From(ctx).Info("subscription created",
		"team_id", team.ID,
		"plan_id", planID,
		"max_count", maxCount,
	)

	return nil
}

// StartTrial applies an expiration date the given number of days from
// today. Used when granting a workspace a time-boxed trial.
func (uc *UseCases) StartTrial(ctx context.Context, teamID types.TeamID, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, goerr.New("trial length must be positive", goerr.V("days", days))
	}

	if _, err := uc.repo.Team().GetOrCreate(ctx, teamID); err != nil {
		return time.Time{}, goerr.Wrap(err, "failed to resolve team", goerr.V("teamID", teamID))
	}

	expiration := types.DateOnly(uc.now()).AddDate(0, 0, days)
	if err := uc.repo.Team().SetExpiration(ctx, teamID, &expiration); err != nil {
		return time.Time{}, goerr.Wrap(err, "failed to set trial expiration", goerr.V("teamID", teamID))
	}

	logging.From(ctx).Info("trial started",
		"team_id", teamID,
		"expiration_date", expiration.Format(time.DateOnly),
	)

	return expiration, nil
}
