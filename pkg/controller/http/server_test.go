package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	slackgo "github.com/slack-go/slack"

	httpctrl "github.com/pollwiz/pollwiz/pkg/controller/http"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	"github.com/pollwiz/pollwiz/pkg/repository/memory"
	slacksvc "github.com/pollwiz/pollwiz/pkg/service/slack"
	"github.com/pollwiz/pollwiz/pkg/usecase"
)

const testSigningSecret = "test-signing-secret"

type postedMessage struct {
	responseURL string
	msg         *slackgo.Msg
}

type stubSlackService struct {
	posts chan postedMessage
}

func newStubSlackService() *stubSlackService {
	return &stubSlackService{posts: make(chan postedMessage, 8)}
}

func (s *stubSlackService) ExchangeOAuthCode(ctx context.Context, code string) (*slacksvc.Authorization, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSlackService) PostResponse(ctx context.Context, responseURL string, msg *slackgo.Msg) error {
	s.posts <- postedMessage{responseURL: responseURL, msg: msg}
	return nil
}

func (s *stubSlackService) waitForPost(t *testing.T) postedMessage {
	t.Helper()
	select {
	case p := <-s.posts:
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("no message posted to response URL")
		return postedMessage{}
	}
}

func newTestServer(t *testing.T) (*httpctrl.Server, *usecase.UseCases, *stubSlackService) {
	t.Helper()

	repo := memory.New()
	uc := usecase.New(repo)
	stub := newStubSlackService()
	srv := httpctrl.New(uc,
		httpctrl.WithSlackService(stub),
		httpctrl.WithSlackSigningSecret(testSigningSecret),
	)
	return srv, uc, stub
}

func signedForm(t *testing.T, path string, form url.Values) *http.Request {
	t.Helper()

	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", computeSlackSignature(testSigningSecret, timestamp, body))
	return req
}

func TestSlashCommand(t *testing.T) {
	t.Run("creates a poll and responds in channel", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		req := signedForm(t, "/hooks/slack/command", url.Values{
			"command":    {"/poll"},
			"team_id":    {"T001"},
			"user_id":    {"U001"},
			"channel_id": {"C001"},
			"text":       {`"Lunch spot?" "Tacos" "Sushi"`},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var msg slackgo.Msg
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg)).Required()

		gt.Value(t, msg.ResponseType).Equal("in_channel")
		gt.Value(t, msg.Attachments[0].Title).Equal("Lunch spot?")
		gt.Array(t, msg.Attachments[0].Fields).Length(2)
	})

	t.Run("malformed text gets the usage hint", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		req := signedForm(t, "/hooks/slack/command", url.Values{
			"command":    {"/poll"},
			"team_id":    {"T001"},
			"user_id":    {"U001"},
			"channel_id": {"C001"},
			"text":       {"no quotes at all"},
		})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var msg slackgo.Msg
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg)).Required()

		gt.Value(t, msg.ResponseType).Equal("ephemeral")
		gt.Value(t, msg.Text).Equal(slacksvc.UsageHint)
		gt.Bool(t, msg.ReplaceOriginal).False()
	})

	t.Run("unsigned request is rejected", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command",
			strings.NewReader("text=whatever"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

func interactionForm(t *testing.T, callbackID string, action map[string]any) url.Values {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"type":         "interactive_message",
		"callback_id":  callbackID,
		"response_url": "https://hooks.slack.test/response",
		"user":         map[string]any{"id": "U_VOTER"},
		"actions":      []any{action},
	})
	gt.NoError(t, err).Required()

	return url.Values{"payload": {string(payload)}}
}

func TestInteraction(t *testing.T) {
	t.Run("vote press re-renders the poll", func(t *testing.T) {
		srv, uc, stub := newTestServer(t)
		ctx := context.Background()

		poll, err := uc.CreatePoll(ctx, "T001", "U_OWNER", "C001", `"Lunch spot?" "Tacos" "Sushi"`)
		gt.NoError(t, err).Required()

		req := signedForm(t, "/hooks/slack/interaction", interactionForm(t, string(poll.CallbackID), map[string]any{
			"name": "0", "value": "0", "type": "button",
		}))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		posted := stub.waitForPost(t)
		gt.Value(t, posted.responseURL).Equal("https://hooks.slack.test/response")
		gt.Bool(t, posted.msg.ReplaceOriginal).True()
		gt.Value(t, posted.msg.Attachments[0].Fields[0].Value).Equal("• Tacos `1`\n <@U_VOTER>")
	})

	t.Run("delete press removes the poll message", func(t *testing.T) {
		srv, uc, stub := newTestServer(t)
		ctx := context.Background()

		poll, err := uc.CreatePoll(ctx, "T001", "U_OWNER", "C001", `"Lunch spot?" "Tacos" "Sushi"`)
		gt.NoError(t, err).Required()

		req := signedForm(t, "/hooks/slack/interaction", interactionForm(t, string(poll.CallbackID), map[string]any{
			"name": slacksvc.DeleteActionName, "value": slacksvc.DeleteActionName, "type": "button",
		}))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		posted := stub.waitForPost(t)
		gt.Bool(t, posted.msg.DeleteOriginal).True()
	})

	t.Run("press on a deleted poll gets an ephemeral notice", func(t *testing.T) {
		srv, _, stub := newTestServer(t)

		req := signedForm(t, "/hooks/slack/interaction", interactionForm(t, "gone-poll", map[string]any{
			"name": "0", "value": "0", "type": "button",
		}))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		posted := stub.waitForPost(t)
		gt.Value(t, posted.msg.ResponseType).Equal("ephemeral")
		gt.Bool(t, posted.msg.ReplaceOriginal).False()
	})

	t.Run("garbage payload is a bad request", func(t *testing.T) {
		srv, _, _ := newTestServer(t)

		req := signedForm(t, "/hooks/slack/interaction", url.Values{"payload": {"not json"}})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestCreateSubscriptionEndpoint(t *testing.T) {
	newServer := func(t *testing.T, billing *recordingBilling) (*httpctrl.Server, *usecase.UseCases) {
		t.Helper()
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithBilling(billing))
		srv := httpctrl.New(uc,
			httpctrl.WithSlackService(newStubSlackService()),
			httpctrl.WithSlackSigningSecret(testSigningSecret),
		)
		return srv, uc
	}

	t.Run("token cookie authorizes the call", func(t *testing.T) {
		billing := &recordingBilling{}
		srv, uc := newServer(t, billing)
		ctx := context.Background()

		token, err := uc.AuthorizeUser(ctx, "T001", "U001", "xoxp-token")
		gt.NoError(t, err).Required()

		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions",
			strings.NewReader(`{"id":"tok_visa","email":"a@example.com","plan":"starter"}`))
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, strings.TrimSpace(rec.Body.String())).Equal(`{"status":"Created!"}`)
		gt.Number(t, billing.calls).Equal(1)
	})

	t.Run("bearer header works too", func(t *testing.T) {
		billing := &recordingBilling{}
		srv, uc := newServer(t, billing)
		ctx := context.Background()

		token, err := uc.AuthorizeUser(ctx, "T001", "U001", "xoxp-token")
		gt.NoError(t, err).Required()

		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions",
			strings.NewReader(`{"id":"tok_visa","email":"a@example.com","plan":"starter"}`))
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		srv, _ := newServer(t, &recordingBilling{})

		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions",
			strings.NewReader(`{"id":"tok_visa","email":"a@example.com","plan":"starter"}`))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		srv, _ := newServer(t, &recordingBilling{})

		req := httptest.NewRequest(http.MethodPost, "/api/subscriptions",
			strings.NewReader(`{"id":"tok_visa","email":"a@example.com","plan":"starter"}`))
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "bogus"})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})
}

type recordingBilling struct {
	calls int
}

func (b *recordingBilling) CreateSubscription(ctx context.Context, customerID, email, sourceToken string, planID types.PlanID) error {
	b.calls++
	return nil
}
