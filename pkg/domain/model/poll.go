package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
)

// Option is one selectable choice within a poll. Index matches the option's
// position in the parent poll and routes incoming button presses.
type Option struct {
	Value string
	Index int
	Votes []types.UserID
}

// Poll is one question with an ordered set of options, scoped to a team.
type Poll struct {
	CallbackID types.CallbackID
	TeamID     types.TeamID
	Question   string
	Anonymous  bool
	Options    []Option
	CreatedBy  types.UserID
	ChannelID  string
	CreatedAt  time.Time
}

// NewPoll builds a poll from parsed input with a fresh callback ID and
// empty vote lists.
func NewPoll(teamID types.TeamID, createdBy types.UserID, channelID string, input *PollInput) *Poll {
	options := make([]Option, len(input.Options))
	for i, value := range input.Options {
		options[i] = Option{
			Value: value,
			Index: i,
			Votes: []types.UserID{},
		}
	}

	return &Poll{
		CallbackID: types.NewCallbackID(),
		TeamID:     teamID,
		Question:   input.Question,
		Anonymous:  input.Anonymous,
		Options:    options,
		CreatedBy:  createdBy,
		ChannelID:  channelID,
		CreatedAt:  time.Now().UTC(),
	}
}

// RecordVote appends the voter to the chosen option. A voter holds at most
// one vote per poll: a second press on a different option moves the vote,
// a second press on the same option is a no-op.
func (p *Poll) RecordVote(optionIndex int, voter types.UserID) error {
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return goerr.Wrap(ErrInvalidOption, "vote references unknown option",
			goerr.V("optionIndex", optionIndex),
			goerr.V("optionCount", len(p.Options)),
		)
	}

	for i := range p.Options {
		votes := p.Options[i].Votes[:0:0]
		for _, v := range p.Options[i].Votes {
			if v != voter {
				votes = append(votes, v)
			}
		}
		p.Options[i].Votes = votes
	}

	p.Options[optionIndex].Votes = append(p.Options[optionIndex].Votes, voter)
	return nil
}

// VoterCount returns the total number of recorded votes
func (p *Poll) VoterCount() int {
	var n int
	for _, opt := range p.Options {
		n += len(opt.Votes)
	}
	return n
}

// Clone returns a deep copy. Repositories hand out copies so callers never
// share vote slices with the stored record.
func (p *Poll) Clone() *Poll {
	copied := *p
	copied.Options = make([]Option, len(p.Options))
	for i, opt := range p.Options {
		copied.Options[i] = Option{
			Value: opt.Value,
			Index: opt.Index,
			Votes: append([]types.UserID{}, opt.Votes...),
		}
	}
	return &copied
}
