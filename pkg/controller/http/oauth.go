package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/utils/errutil"
	"github.com/pollwiz/pollwiz/pkg/utils/safe"
)

const accessTokenCookie = "access_token"

// handleOAuthCallback is the redirect target of the Slack OAuth flow. The
// authorization code is exchanged for tokens, the user and team are
// recorded, and the app's own access token lands in a cookie for the
// billing API.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing authorization code"), http.StatusBadRequest)
		return
	}

	auth, err := s.slackService.ExchangeOAuthCode(ctx, code)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	accessToken, err := s.uc.AuthorizeUser(ctx,
		types.TeamID(auth.TeamID),
		types.UserID(auth.UserID),
		auth.AccessToken,
	)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "text/html")
	safe.Write(ctx, w, []byte("<html><body>You have successfully installed the app. You can close this window.</body></html>"))
}
