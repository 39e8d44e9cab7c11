package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/interfaces"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	UserID           string    `firestore:"user_id"`
	TeamID           string    `firestore:"team_id"`
	SlackAccessToken string    `firestore:"slack_access_token"`
	AccessToken      string    `firestore:"access_token"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	name := usersCollection
	if r.collectionPrefix != "" {
		name = r.collectionPrefix + "_" + name
	}
	return r.client.Collection(name)
}

// docID keys the document on (teamID, userID) so re-authorization always
// lands on the same record.
func docID(teamID types.TeamID, userID types.UserID) string {
	return string(teamID) + ":" + string(userID)
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:               types.UserID(doc.UserID),
		TeamID:           types.TeamID(doc.TeamID),
		SlackAccessToken: doc.SlackAccessToken,
		AccessToken:      doc.AccessToken,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

// Upsert creates the user on first authorization and overwrites the token
// fields on every later one.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	if err := user.ID.Validate(); err != nil {
		return nil, err
	}
	if err := user.TeamID.Validate(); err != nil {
		return nil, err
	}

	ref := r.collection().Doc(docID(user.TeamID, user.ID))
	now := time.Now().UTC()
	var result *model.User

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		createdAt := now
		if snapshot, err := tx.Get(ref); err == nil {
			var existing userDoc
			if err := snapshot.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal user", goerr.V("userID", user.ID))
			}
			createdAt = existing.CreatedAt
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		doc := &userDoc{
			UserID:           string(user.ID),
			TeamID:           string(user.TeamID),
			SlackAccessToken: user.SlackAccessToken,
			AccessToken:      user.AccessToken,
			CreatedAt:        createdAt,
			UpdatedAt:        now,
		}
		result = r.fromDoc(doc)
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert user",
			goerr.V("teamID", user.TeamID),
			goerr.V("userID", user.ID),
		)
	}

	return result, nil
}

// GetByAccessToken reverse-looks-up a user by this app's own credential.
// Relies on the access_token single-field index (see the migrate command).
func (r *userRepository) GetByAccessToken(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, goerr.Wrap(ErrNotFound, "empty access token")
	}

	iter := r.collection().Where("access_token", "==", accessToken).Limit(1).Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "no user for access token")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by access token")
	}

	var doc userDoc
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("docID", snapshot.Ref.ID))
	}

	return r.fromDoc(&doc), nil
}
