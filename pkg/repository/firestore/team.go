package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const teamsCollection = "teams"

type teamRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.TeamRepository = &teamRepository{}

func newTeamRepository(client *firestore.Client) *teamRepository {
	return &teamRepository{client: client}
}

// teamDoc is the Firestore persistence model
type teamDoc struct {
	TeamID           string         `firestore:"team_id"`
	MaxCount         int            `firestore:"max_count"`
	ExpirationDate   *time.Time     `firestore:"expiration_date"`
	MonthlyCounts    map[string]int `firestore:"monthly_counts"`
	StripeCustomerID string         `firestore:"stripe_customer_id"`
	CreatedAt        time.Time      `firestore:"created_at"`
}

func (r *teamRepository) collection() *firestore.CollectionRef {
	name := teamsCollection
	if r.collectionPrefix != "" {
		name = r.collectionPrefix + "_" + name
	}
	return r.client.Collection(name)
}

func (r *teamRepository) toDoc(team *model.Team) *teamDoc {
	counts := team.MonthlyCounts
	if counts == nil {
		counts = map[string]int{}
	}
	return &teamDoc{
		TeamID:           string(team.ID),
		MaxCount:         team.MaxCount,
		ExpirationDate:   team.ExpirationDate,
		MonthlyCounts:    counts,
		StripeCustomerID: team.StripeCustomerID,
		CreatedAt:        team.CreatedAt,
	}
}

func (r *teamRepository) fromDoc(doc *teamDoc) *model.Team {
	counts := doc.MonthlyCounts
	if counts == nil {
		counts = map[string]int{}
	}
	return &model.Team{
		ID:               types.TeamID(doc.TeamID),
		MaxCount:         doc.MaxCount,
		ExpirationDate:   doc.ExpirationDate,
		MonthlyCounts:    counts,
		StripeCustomerID: doc.StripeCustomerID,
		CreatedAt:        doc.CreatedAt,
	}
}

// GetOrCreate returns the team, creating it inside a transaction on first
// reference. The document ID is the team ID itself, which makes the
// uniqueness invariant a property of the store.
func (r *teamRepository) GetOrCreate(ctx context.Context, id types.TeamID) (*model.Team, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	ref := r.collection().Doc(string(id))
	var result *model.Team

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				team := model.NewTeam(id)
				result = team
				return tx.Create(ref, r.toDoc(team))
			}
			return err
		}

		var doc teamDoc
		if err := snapshot.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal team", goerr.V("teamID", id))
		}
		result = r.fromDoc(&doc)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get or create team", goerr.V("teamID", id))
	}

	return result, nil
}

func (r *teamRepository) Get(ctx context.Context, id types.TeamID) (*model.Team, error) {
	snapshot, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
		}
		return nil, goerr.Wrap(err, "failed to get team", goerr.V("teamID", id))
	}

	var doc teamDoc
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal team", goerr.V("teamID", id))
	}

	return r.fromDoc(&doc), nil
}

// ConsumeQuota reads the month's counter and writes count+1 back within one
// transaction. The quota check lives inside the same transaction, so
// concurrent requests can never push the counter past max.
func (r *teamRepository) ConsumeQuota(ctx context.Context, id types.TeamID, month string, max int) (int, error) {
	ref := r.collection().Doc(string(id))
	var newCount int

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
			}
			return err
		}

		var doc teamDoc
		if err := snapshot.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal team", goerr.V("teamID", id))
		}

		current := doc.MonthlyCounts[month]
		if current >= max {
			return goerr.Wrap(model.ErrQuotaExceeded, "monthly count at maximum",
				goerr.V("teamID", id),
				goerr.V("month", month),
				goerr.V("count", current),
				goerr.V("max", max),
			)
		}

		newCount = current + 1
		return tx.Update(ref, []firestore.Update{
			{Path: "monthly_counts." + month, Value: newCount},
		})
	})
	if err != nil {
		return 0, err
	}

	return newCount, nil
}

func (r *teamRepository) SetExpiration(ctx context.Context, id types.TeamID, date *time.Time) error {
	var value interface{}
	if date != nil {
		d := types.DateOnly(*date)
		value = &d
	}

	_, err := r.collection().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "expiration_date", Value: value},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
		}
		return goerr.Wrap(err, "failed to set expiration date", goerr.V("teamID", id))
	}
	return nil
}

func (r *teamRepository) SetPlan(ctx context.Context, id types.TeamID, maxCount int) error {
	_, err := r.collection().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "max_count", Value: maxCount},
		{Path: "expiration_date", Value: nil},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "team not found", goerr.V("teamID", id))
		}
		return goerr.Wrap(err, "failed to apply plan", goerr.V("teamID", id), goerr.V("maxCount", maxCount))
	}
	return nil
}
