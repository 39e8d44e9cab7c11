package slack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pollwiz/pollwiz/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	// Slack rejects interactive attachments with more than 5 actions
	maxActionsPerAttachment = 5

	pollFallback     = "A new poll was made."
	anonymousPretext = "This survey is anonymous"

	responseTypeInChannel = "in_channel"
	responseTypeEphemeral = "ephemeral"
)

// DeleteActionName marks the trailing delete button; the interaction
// handler matches on it to distinguish deletion from votes.
const DeleteActionName = "delete-poll"

// UsageHint is shown when poll text cannot be parsed
const UsageHint = "To create a poll, quote the question and each option: " +
	"`/poll \"Lunch spot?\" \"Tacos\" \"Sushi\"`. " +
	"Add the word anonymous after the last option to hide voter names."

// RenderPoll produces the interactive message for a freshly created poll,
// broadcast to the channel without replacing anything.
func RenderPoll(poll *model.Poll) *slack.Msg {
	return &slack.Msg{
		ResponseType:    responseTypeInChannel,
		ReplaceOriginal: false,
		Attachments:     pollAttachments(poll),
	}
}

// RenderPollUpdate produces the re-render after a vote, replacing the
// original message in place.
func RenderPollUpdate(poll *model.Poll) *slack.Msg {
	return &slack.Msg{
		ResponseType:    responseTypeInChannel,
		ReplaceOriginal: true,
		Attachments:     pollAttachments(poll),
	}
}

// RenderDeleted replaces the poll message once the poll is removed
func RenderDeleted() *slack.Msg {
	return &slack.Msg{
		DeleteOriginal: true,
	}
}

// Ephemeral produces a caller-only message, leaving the original untouched
func Ephemeral(text string) *slack.Msg {
	return &slack.Msg{
		Text:            text,
		ResponseType:    responseTypeEphemeral,
		ReplaceOriginal: false,
	}
}

func pollAttachments(poll *model.Poll) []slack.Attachment {
	fields := make([]slack.AttachmentField, len(poll.Options))
	for i, opt := range poll.Options {
		fields[i] = slack.AttachmentField{
			Value: "• " + opt.Value + voteSuffix(opt, poll.Anonymous),
			Short: false,
		}
	}

	primary := slack.Attachment{
		Title:      poll.Question,
		Fields:     fields,
		MarkdownIn: []string{"fields"},
		Fallback:   pollFallback,
		CallbackID: string(poll.CallbackID),
	}
	if poll.Anonymous {
		primary.Pretext = anonymousPretext
	}

	attachments := []slack.Attachment{primary}

	actions := pollActions(poll)
	for start := 0; start < len(actions); start += maxActionsPerAttachment {
		end := start + maxActionsPerAttachment
		if end > len(actions) {
			end = len(actions)
		}
		attachments = append(attachments, slack.Attachment{
			Fallback:   pollFallback,
			CallbackID: string(poll.CallbackID),
			Actions:    actions[start:end],
		})
	}

	return attachments
}

// pollActions builds one vote button per option, value carrying the option
// index, plus the trailing delete button with its confirmation prompt.
func pollActions(poll *model.Poll) []slack.AttachmentAction {
	actions := make([]slack.AttachmentAction, 0, len(poll.Options)+1)
	for i, opt := range poll.Options {
		actions = append(actions, slack.AttachmentAction{
			Name:  strconv.Itoa(i),
			Text:  opt.Value,
			Type:  "button",
			Value: strconv.Itoa(i),
		})
	}

	actions = append(actions, slack.AttachmentAction{
		Name:  DeleteActionName,
		Text:  "Delete Poll",
		Type:  "button",
		Style: "danger",
		Value: DeleteActionName,
		Confirm: &slack.ConfirmationField{
			Title:       "Delete Poll?",
			Text:        "Are you sure you want to delete this poll? This cannot be undone.",
			OkText:      "Delete",
			DismissText: "No",
		},
	})

	return actions
}

func voteSuffix(opt model.Option, anonymous bool) string {
	if len(opt.Votes) == 0 {
		return ""
	}

	count := fmt.Sprintf(" `%d`", len(opt.Votes))
	if anonymous {
		return count
	}

	mentions := make([]string, len(opt.Votes))
	for i, voter := range opt.Votes {
		mentions[i] = "<@" + string(voter) + ">"
	}
	return count + "\n " + strings.Join(mentions, " ")
}
