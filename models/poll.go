package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ambro17/slacker/core"
)

type Poll struct {
	ID        string    `db:"id"         json:"id"`
	Question  string    `db:"question"   json:"question"`
	Author    string    `db:"author"     json:"author"`
	Ended     bool      `db:"ended"      json:"ended"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Options []PollOption `db:"-" json:"options"`
}

type PollOption struct {
	ID     string `db:"id"      json:"id"`
	PollID string `db:"poll_id" json:"poll_id"`
	Number int    `db:"number"  json:"number"`
	Text   string `db:"text"    json:"text"`
	Votes  int    `db:"votes"   json:"votes"`
}

type Vote struct {
	PollID   string `db:"poll_id"   json:"poll_id"`
	OptionID string `db:"option_id" json:"option_id"`
	UserID   string `db:"user_id"   json:"user_id"`
	UserName string `db:"user_name" json:"user_name"`
}

const maxPollOptions = 10

// ParsePoll builds a poll from the free-text slash command argument.
//
// Format: <question>? <option>+
// Example: "best color? red blue green"
func ParsePoll(text, author string) (*Poll, error) {
	question, rest, found := strings.Cut(text, "?")
	if !found {
		return nil, core.NewDomainError(core.KindBadUsage, "Mal formato. Uso: `/poll pregunta? opcion1 opcion2`")
	}

	options := strings.Fields(rest)
	if len(options) == 0 {
		return nil, core.NewDomainError(core.KindBadUsage, "Te faltaron las opciones. `/poll pregunta? op1 op2 op3`")
	}
	if len(options) > maxPollOptions {
		return nil, core.NewDomainError(core.KindBadUsage, "Sólo puede haber %d opciones como máximo", maxPollOptions)
	}

	poll := &Poll{
		ID:       core.NewID("poll"),
		Question: strings.TrimSpace(question),
		Author:   author,
	}
	for i, op := range options {
		poll.Options = append(poll.Options, PollOption{
			ID:     core.NewID("op"),
			PollID: poll.ID,
			Number: i + 1,
			Text:   op,
		})
	}
	return poll, nil
}

// OptionByNumber returns the option with the given number, if any.
func (p *Poll) OptionByNumber(number int) (PollOption, bool) {
	for _, op := range p.Options {
		if op.Number == number {
			return op, true
		}
	}
	return PollOption{}, false
}

// String renders the poll as a Slack mrkdwn message with vote counts next
// to each option, sorted by option number.
func (p *Poll) String() string {
	options := make([]PollOption, len(p.Options))
	copy(options, p.Options)
	sort.Slice(options, func(i, j int) bool { return options[i].Number < options[j].Number })

	var b strings.Builder
	fmt.Fprintf(&b, "*%s?*", p.Question)
	for _, op := range options {
		fmt.Fprintf(&b, "\n%d. %s", op.Number, op.Text)
		if op.Votes > 0 {
			fmt.Fprintf(&b, " `%d`", op.Votes)
		}
	}
	return b.String()
}
