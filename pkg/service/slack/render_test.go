package slack_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/pollwiz/pollwiz/pkg/domain/types"
	slacksvc "github.com/pollwiz/pollwiz/pkg/service/slack"
)

func buildPoll(t *testing.T, text string) *model.Poll {
	t.Helper()

	input, err := model.ParsePoll(text)
	gt.NoError(t, err).Required()
	return model.NewPoll("T001", "U_OWNER", "C001", input)
}

func TestRenderPoll(t *testing.T) {
	t.Run("broadcasts to channel without replacing", func(t *testing.T) {
		poll := buildPoll(t, `"Lunch spot?" "Tacos" "Sushi"`)
		msg := slacksvc.RenderPoll(poll)

		gt.Value(t, msg.ResponseType).Equal("in_channel")
		gt.Bool(t, msg.ReplaceOriginal).False()
	})

	t.Run("first attachment carries question and option fields", func(t *testing.T) {
		poll := buildPoll(t, `"Lunch spot?" "Tacos" "Sushi"`)
		msg := slacksvc.RenderPoll(poll)

		primary := msg.Attachments[0]
		gt.Value(t, primary.Title).Equal("Lunch spot?")
		gt.Value(t, primary.CallbackID).Equal(string(poll.CallbackID))
		gt.Array(t, primary.Fields).Length(2)
		gt.Value(t, primary.Fields[0].Value).Equal("• Tacos")
		gt.Value(t, primary.Fields[1].Value).Equal("• Sushi")
		gt.Value(t, primary.Pretext).Equal("")
	})

	t.Run("anonymous poll announces itself in the pretext", func(t *testing.T) {
		poll := buildPoll(t, `"Raise?" "Yes" "No" anonymous`)
		msg := slacksvc.RenderPoll(poll)

		gt.Value(t, msg.Attachments[0].Pretext).Equal("This survey is anonymous")
	})

	t.Run("one button per option plus delete", func(t *testing.T) {
		poll := buildPoll(t, `"Lunch spot?" "Tacos" "Sushi" "Ramen"`)
		msg := slacksvc.RenderPoll(poll)

		var actionCount int
		for _, a := range msg.Attachments[1:] {
			actionCount += len(a.Actions)
		}
		gt.Number(t, actionCount).Equal(4)

		last := msg.Attachments[len(msg.Attachments)-1]
		deleteAction := last.Actions[len(last.Actions)-1]
		gt.Value(t, deleteAction.Name).Equal(slacksvc.DeleteActionName)
		gt.Value(t, deleteAction.Style).Equal("danger")
		if deleteAction.Confirm == nil {
			t.Fatal("delete button must carry a confirmation prompt")
		}
	})

	t.Run("actions never exceed five per attachment", func(t *testing.T) {
		poll := buildPoll(t, `"Q?" "a" "b" "c" "d" "e" "f" "g" "h" "i" "j" "k"`)
		msg := slacksvc.RenderPoll(poll)

		var actionCount int
		for _, a := range msg.Attachments[1:] {
			if len(a.Actions) > 5 {
				t.Errorf("attachment carries %d actions", len(a.Actions))
			}
			gt.Value(t, a.CallbackID).Equal(string(poll.CallbackID))
			actionCount += len(a.Actions)
		}

		// 11 options plus the delete button
		gt.Number(t, actionCount).Equal(12)
	})
}

func TestRenderVotes(t *testing.T) {
	t.Run("anonymous votes render as a bare count", func(t *testing.T) {
		poll := buildPoll(t, `"Raise?" "Yes" "No" anonymous`)
		for _, voter := range []types.UserID{"U1", "U2", "U3"} {
			gt.NoError(t, poll.RecordVote(0, voter)).Required()
		}

		msg := slacksvc.RenderPollUpdate(poll)
		gt.Bool(t, msg.ReplaceOriginal).True()

		line := msg.Attachments[0].Fields[0].Value
		gt.Value(t, line).Equal("• Yes `3`")
		if strings.Contains(line, "<@") {
			t.Errorf("anonymous rendering leaks voter mentions: %q", line)
		}
	})

	t.Run("attributed votes render count and mentions", func(t *testing.T) {
		poll := buildPoll(t, `"Lunch spot?" "Tacos" "Sushi"`)
		gt.NoError(t, poll.RecordVote(0, "U1")).Required()
		gt.NoError(t, poll.RecordVote(0, "U2")).Required()

		msg := slacksvc.RenderPollUpdate(poll)

		line := msg.Attachments[0].Fields[0].Value
		gt.Value(t, line).Equal("• Tacos `2`\n <@U1> <@U2>")
	})

	t.Run("options without votes stay bare", func(t *testing.T) {
		poll := buildPoll(t, `"Lunch spot?" "Tacos" "Sushi"`)
		gt.NoError(t, poll.RecordVote(0, "U1")).Required()

		msg := slacksvc.RenderPollUpdate(poll)
		gt.Value(t, msg.Attachments[0].Fields[1].Value).Equal("• Sushi")
	})
}

func TestRenderDeleted(t *testing.T) {
	msg := slacksvc.RenderDeleted()
	gt.Bool(t, msg.DeleteOriginal).True()
}

func TestEphemeral(t *testing.T) {
	msg := slacksvc.Ephemeral("only you can see this")
	gt.Value(t, msg.ResponseType).Equal("ephemeral")
	gt.Bool(t, msg.ReplaceOriginal).False()
	gt.Value(t, msg.Text).Equal("only you can see this")
}
