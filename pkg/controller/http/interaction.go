package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	slackgo "github.com/slack-go/slack"

	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/service/slack"
	"github.com/pollwiz/pollwiz/pkg/usecase"
	"github.com/pollwiz/pollwiz/pkg/utils/async"
	"github.com/pollwiz/pollwiz/pkg/utils/errutil"
	"github.com/pollwiz/pollwiz/pkg/utils/logging"
)

const pollGoneText = "That poll no longer exists."

// handleInteraction handles button presses on poll messages. Slack expects a
// response within 3 seconds, so the handler acknowledges immediately and
// posts the re-rendered message to the interaction's response URL.
func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.slackService == nil {
		errutil.HandleHTTP(ctx, w, goerr.New("slack service is not configured"), http.StatusInternalServerError)
		return
	}

	var callback slackgo.InteractionCallback
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest)
		return
	}

	if len(callback.ActionCallback.AttachmentActions) == 0 {
		errutil.HandleHTTP(ctx, w, goerr.New("interaction carries no action"), http.StatusBadRequest)
		return
	}

	callbackID := types.CallbackID(callback.CallbackID)
	action := callback.ActionCallback.AttachmentActions[0]
	voter := types.UserID(callback.User.ID)
	responseURL := callback.ResponseURL

	w.WriteHeader(http.StatusOK)

	async.Dispatch(ctx, func(ctx context.Context) error {
		msg := s.processAction(ctx, callbackID, action, voter)
		if msg == nil {
			return nil
		}
		if err := s.slackService.PostResponse(ctx, responseURL, msg); err != nil {
			return goerr.Wrap(err, "failed to post interaction response",
				goerr.V("callbackID", callbackID),
			)
		}
		return nil
	})
}

// processAction applies the pressed button and returns the message to post
// back, or nil when no response is needed.
func (s *Server) processAction(ctx context.Context, callbackID types.CallbackID, action *slackgo.AttachmentAction, voter types.UserID) *slackgo.Msg {
	if action.Name == slack.DeleteActionName {
		if err := s.uc.DeletePoll(ctx, callbackID); err != nil {
			errutil.Handle(ctx, err, "failed to delete poll")
			return slack.Ephemeral("Failed to delete the poll. Please try again.")
		}
		return slack.RenderDeleted()
	}

	optionIndex, err := strconv.Atoi(action.Value)
	if err != nil {
		logging.From(ctx).Warn("interaction with non-numeric action value",
			"callback_id", callbackID,
			"value", action.Value,
		)
		return nil
	}

	poll, err := s.uc.HandleVote(ctx, callbackID, optionIndex, voter)
	if err != nil {
		if msg, ok := rejectionMessage(err); ok {
			return msg
		}
		if errors.Is(err, usecase.ErrPollNotFound) {
			return slack.Ephemeral(pollGoneText)
		}
		if errors.Is(err, model.ErrInvalidOption) {
			return slack.Ephemeral("That option is no longer available.")
		}
		errutil.Handle(ctx, err, "failed to handle vote")
		return slack.Ephemeral("Failed to record your vote. Please try again.")
	}

	return slack.RenderPollUpdate(poll)
}
