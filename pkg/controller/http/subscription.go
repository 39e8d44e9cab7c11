package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/usecase"
	"github.com/pollwiz/pollwiz/pkg/utils/errutil"
	"github.com/pollwiz/pollwiz/pkg/utils/safe"
)

type subscriptionRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// handleCreateSubscription receives the checkout result from the billing
// page. The caller is identified by the access token issued during OAuth,
// carried in a cookie or a bearer header.
func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := requestAccessToken(r)
	if token == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing access token"), http.StatusUnauthorized)
		return
	}

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode subscription request"), http.StatusBadRequest)
		return
	}
	defer safe.Close(ctx, r.Body)

	if req.ID == "" || req.Plan == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("id and plan are required"), http.StatusBadRequest)
		return
	}

	err := s.uc.CreateSubscription(ctx, token, req.Email, req.ID, types.PlanID(req.Plan))
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthorized) {
			errutil.HandleHTTP(ctx, w, err, http.StatusUnauthorized)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	safe.Write(ctx, w, []byte(`{"status":"Created!"}`))
}

func requestAccessToken(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
