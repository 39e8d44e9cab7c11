package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

type teamRepository struct {
	mu    sync.Mutex
	teams map[types.TeamID]*model.Team
}

var _ interfaces.TeamRepository = &teamRepository{}

func newTeamRepository() *teamRepository {
	return &teamRepository{
		teams: make(map[types.TeamID]*model.Team),
	}
}

func copyTeam(t *model.Team) *model.Team {
	copied := *t
	copied.MonthlyCounts = make(map[string]int, len(t.MonthlyCounts))
	for k, v := range t.MonthlyCounts {
		copied.MonthlyCounts[k] = v
	}
	if t.ExpirationDate != nil {
		d := *t.ExpirationDate
		copied.ExpirationDate = &d
	}
	return &copied
}

func (r *teamRepository) GetOrCreate(ctx context.Context, id types.TeamID) (*model.Team, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if team, exists := r.teams[id]; exists {
		return copyTeam(team), nil
	}

	team := model.NewTeam(id)
	r.teams[id] = team
	return copyTeam(team), nil
}

func (r *teamRepository) Get(ctx context.Context, id types.TeamID) (*model.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, exists := r.teams[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
	}
	return copyTeam(team), nil
}

func (r *teamRepository) ConsumeQuota(ctx context.Context, id types.TeamID, month string, max int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, exists := r.teams[id]
	if !exists {
		return 0, goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
	}

	current := team.MonthlyCounts[month]
	if current >= max {
		return 0, goerr.Wrap(model.ErrQuotaExceeded, "monthly count at maximum",
			goerr.V("teamID", id),
			goerr.V("month", month),
			goerr.V("count", current),
			goerr.V("max", max),
		)
	}

	team.MonthlyCounts[month] = current + 1
	return current + 1, nil
}

func (r *teamRepository) SetExpiration(ctx context.Context, id types.TeamID, date *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, exists := r.teams[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
	}

	if date == nil {
		team.ExpirationDate = nil
		return nil
	}

	d := types.DateOnly(*date)
	team.ExpirationDate = &d
	return nil
}

func (r *teamRepository) SetPlan(ctx context.Context, id types.TeamID, maxCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, exists := r.teams[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
	}

	team.MaxCount = maxCount
	team.ExpirationDate = nil
	return nil
}
