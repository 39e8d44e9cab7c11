package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	slackgo "github.com/slack-go/slack"

	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/service/slack"
	"github.com/pollwiz/pollwiz/pkg/utils/errutil"
	"github.com/pollwiz/pollwiz/pkg/utils/safe"
)

const (
	quotaExceededText = "Your team has used up its monthly poll allowance. Upgrade your plan to keep polling this month."
	teamExpiredText   = "Your team's trial has expired. Subscribe to a plan to keep making polls."
)

// handleSlashCommand handles the /poll slash command. The rendered poll (or
// an ephemeral rejection) is returned inline as the command response.
func (s *Server) handleSlashCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, err := slackgo.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	poll, err := s.uc.CreatePoll(ctx,
		types.TeamID(cmd.TeamID),
		types.UserID(cmd.UserID),
		cmd.ChannelID,
		cmd.Text,
	)
	if err != nil {
		if msg, ok := rejectionMessage(err); ok {
			writeMsg(w, r, msg)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeMsg(w, r, slack.RenderPoll(poll))
}

// rejectionMessage maps expected creation/vote failures to the ephemeral
// message shown to the caller. Unexpected errors return ok=false and are
// handled as server failures.
func rejectionMessage(err error) (*slackgo.Msg, bool) {
	switch {
	case errors.Is(err, model.ErrMalformedInput):
		return slack.Ephemeral(slack.UsageHint), true
	case errors.Is(err, model.ErrQuotaExceeded):
		return slack.Ephemeral(quotaExceededText), true
	case errors.Is(err, model.ErrTeamExpired):
		return slack.Ephemeral(teamExpiredText), true
	}
	return nil, false
}

func writeMsg(w http.ResponseWriter, r *http.Request, msg *slackgo.Msg) {
	data, err := json.Marshal(msg)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal slack message"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}
