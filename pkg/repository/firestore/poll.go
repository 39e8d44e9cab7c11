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

const pollsCollection = "polls"

type pollRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.PollRepository = &pollRepository{}

func newPollRepository(client *firestore.Client) *pollRepository {
	return &pollRepository{client: client}
}

// optionDoc and pollDoc are the Firestore persistence models
type optionDoc struct {
	Value string   `firestore:"value"`
	Index int      `firestore:"index"`
	Votes []string `firestore:"votes"`
}

type pollDoc struct {
	CallbackID string      `firestore:"callback_id"`
	TeamID     string      `firestore:"team_id"`
	Question   string      `firestore:"question"`
	Anonymous  bool        `firestore:"anonymous"`
	Options    []optionDoc `firestore:"options"`
	CreatedBy  string      `firestore:"created_by"`
	ChannelID  string      `firestore:"channel_id"`
	CreatedAt  time.Time   `firestore:"created_at"`
}

func (r *pollRepository) collection() *firestore.CollectionRef {
	name := pollsCollection
	if r.collectionPrefix != "" {
		name = r.collectionPrefix + "_" + name
	}
	return r.client.Collection(name)
}

func (r *pollRepository) toDoc(poll *model.Poll) *pollDoc {
	options := make([]optionDoc, len(poll.Options))
	for i, opt := range poll.Options {
		votes := make([]string, len(opt.Votes))
		for j, v := range opt.Votes {
			votes[j] = string(v)
		}
		options[i] = optionDoc{
			Value: opt.Value,
			Index: opt.Index,
			Votes: votes,
		}
	}
	return &pollDoc{
		CallbackID: string(poll.CallbackID),
		TeamID:     string(poll.TeamID),
		Question:   poll.Question,
		Anonymous:  poll.Anonymous,
		Options:    options,
		CreatedBy:  string(poll.CreatedBy),
		ChannelID:  poll.ChannelID,
		CreatedAt:  poll.CreatedAt,
	}
}

func (r *pollRepository) fromDoc(doc *pollDoc) *model.Poll {
	options := make([]model.Option, len(doc.Options))
	for i, opt := range doc.Options {
		votes := make([]types.UserID, len(opt.Votes))
		for j, v := range opt.Votes {
			votes[j] = types.UserID(v)
		}
		options[i] = model.Option{
			Value: opt.Value,
			Index: opt.Index,
			Votes: votes,
		}
	}
	return &model.Poll{
		CallbackID: types.CallbackID(doc.CallbackID),
		TeamID:     types.TeamID(doc.TeamID),
		Question:   doc.Question,
		Anonymous:  doc.Anonymous,
		Options:    options,
		CreatedBy:  types.UserID(doc.CreatedBy),
		ChannelID:  doc.ChannelID,
		CreatedAt:  doc.CreatedAt,
	}
}

func (r *pollRepository) Create(ctx context.Context, poll *model.Poll) error {
	if poll.CallbackID == "" {
		return goerr.New("poll has no callback ID")
	}
	if len(poll.Options) == 0 {
		return goerr.New("poll has no options", goerr.V("callbackID", poll.CallbackID))
	}

	// Create (not Set) rejects a duplicate callback ID
	if _, err := r.collection().Doc(string(poll.CallbackID)).Create(ctx, r.toDoc(poll)); err != nil {
		return goerr.Wrap(err, "failed to create poll", goerr.V("callbackID", poll.CallbackID))
	}
	return nil
}

func (r *pollRepository) GetByCallbackID(ctx context.Context, id types.CallbackID) (*model.Poll, error) {
	snapshot, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "poll not found", goerr.V("callbackID", id))
		}
		return nil, goerr.Wrap(err, "failed to get poll", goerr.V("callbackID", id))
	}

	var doc pollDoc
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal poll", goerr.V("callbackID", id))
	}

	return r.fromDoc(&doc), nil
}

// RecordVote applies the vote through a read-modify-write transaction so
// concurrent presses on the same poll never lose each other's updates.
func (r *pollRepository) RecordVote(ctx context.Context, id types.CallbackID, optionIndex int, voter types.UserID) (*model.Poll, error) {
	ref := r.collection().Doc(string(id))
	var result *model.Poll

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "poll not found", goerr.V("callbackID", id))
			}
			return err
		}

		var doc pollDoc
		if err := snapshot.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal poll", goerr.V("callbackID", id))
		}

		poll := r.fromDoc(&doc)
		if err := poll.RecordVote(optionIndex, voter); err != nil {
			return err
		}

		result = poll
		return tx.Set(ref, r.toDoc(poll))
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes the poll. Deleting a missing poll reports ErrNotFound;
// callers treat that as already deleted.
func (r *pollRepository) Delete(ctx context.Context, id types.CallbackID) error {
	ref := r.collection().Doc(string(id))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "poll not found", goerr.V("callbackID", id))
			}
			return err
		}
		return tx.Delete(ref)
	})
}
