package model

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// PollInput is the parsed form of a poll creation message
type PollInput struct {
	Question  string
	Options   []string
	Anonymous bool
}

var (
	smartQuotes   = strings.NewReplacer("“", `"`, "”", `"`)
	quotedSegment = regexp.MustCompile(`"(.*?)"`)
)

// ParsePoll extracts a question and options from free-form message text.
// The first double-quoted segment is the question, every following quoted
// segment is an option. Curly quotes are normalized before scanning. The
// poll is anonymous when the text surrounding the final quoted segment
// contains the word "anonymous".
//
// TODO: the trailing-text heuristic mis-triggers when a legitimate option
// mentions "anonymous" after the last quote; a dedicated flag syntax would
// fix this but breaks existing workspace habits.
func ParsePoll(text string) (*PollInput, error) {
	cleaned := smartQuotes.Replace(text)

	matches := quotedSegment.FindAllStringSubmatch(cleaned, -1)
	if len(matches) < 2 {
		return nil, goerr.Wrap(ErrMalformedInput, "need a quoted question and at least one quoted option",
			goerr.V("segments", len(matches)),
		)
	}

	question := matches[0][1]
	options := make([]string, 0, len(matches)-1)
	for _, m := range matches[1:] {
		options = append(options, m[1])
	}

	anonymous := strings.Contains(cleaned[strings.LastIndex(cleaned, `"`):], "anonymous")

	return &PollInput{
		Question:  question,
		Options:   options,
		Anonymous: anonymous,
	}, nil
}
