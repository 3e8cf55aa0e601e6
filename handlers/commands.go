package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/models"
)

// mentionPattern matches one escaped Slack mention, e.g. <@U123|john>.
var mentionPattern = regexp.MustCompile(`<@([^|>]+)\|([^>]*)>`)

type mention struct {
	UserID string
	Name   string
}

func parseTeamMention(text string) (string, []mention, error) {
	teamName, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	matches := mentionPattern.FindAllStringSubmatch(rest, -1)
	if teamName == "" || len(matches) == 0 {
		return "", nil, core.NewDomainError(core.KindBadUsage, "Bad usage. i.e /add_team t1 @john @carla")
	}

	members := make([]mention, 0, len(matches))
	for _, m := range matches {
		members = append(members, mention{UserID: m[1], Name: m[2]})
	}
	return teamName, members, nil
}

func (h *SlackHandler) handleFeriados(ctx context.Context, _ models.CommandInvocation) (Reply, error) {
	return InChannel(h.holidays.Remaining(ctx)), nil
}

func (h *SlackHandler) handleSubte(ctx context.Context, _ models.CommandInvocation) (Reply, error) {
	return InChannel(h.subte.Status(ctx)), nil
}

// handleHoypido answers the weekly menu, one day of it, or the specials.
func (h *SlackHandler) handleHoypido(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	arg := strings.TrimSpace(cmd.Text)
	switch {
	case arg == "":
		return InChannel(h.menu.Weekly(ctx)), nil
	case strings.EqualFold(arg, "especiales"):
		return InChannel(h.menu.Specials(ctx)), nil
	default:
		return InChannel(h.menu.ByDay(ctx, arg)), nil
	}
}

func (h *SlackHandler) handleDolar(ctx context.Context, _ models.CommandInvocation) (Reply, error) {
	return InChannel(h.dolar.Rates(ctx)), nil
}

// handlePoll creates a poll and posts it with one vote button per option.
func (h *SlackHandler) handlePoll(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	poll, err := h.polls.CreatePoll(ctx, cmd.Text, cmd.UserID)
	if err != nil {
		return Reply{}, err
	}
	return InChannelBlocks(poll.String(), PollBlocks(poll)), nil
}

// PollBlocks renders a poll as a section with the question and counts plus
// one numbered vote button per option. The actions block carries the poll
// id so the vote callback can find it.
func PollBlocks(poll *models.Poll) []slack.Block {
	text := slack.NewTextBlockObject(slack.MarkdownType, poll.String(), false, false)
	blocks := []slack.Block{slack.NewSectionBlock(text, nil, nil)}

	buttons := make([]slack.BlockElement, 0, len(poll.Options))
	for _, op := range poll.Options {
		label := slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("%d", op.Number), false, false)
		button := slack.NewButtonBlockElement(
			fmt.Sprintf("poll_vote:%d", op.Number),
			fmt.Sprintf("%d", op.Number),
			label,
		)
		buttons = append(buttons, button)
	}
	blocks = append(blocks, slack.NewActionBlock(poll.ID, buttons...))
	return blocks
}

func (h *SlackHandler) handleAddSticker(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	name, url, found := strings.Cut(strings.TrimSpace(cmd.Text), " ")
	if !found {
		return Ephemeral("Usage: `/add_sticker mymeme https://i.imgur.com/12345678.png`"), nil
	}
	if err := h.stickers.AddSticker(ctx, name, strings.TrimSpace(url), cmd.UserID); err != nil {
		return Reply{}, err
	}
	return Ephemeral(fmt.Sprintf("Sticker `%s` saved", name)), nil
}

// handleSendSticker looks the sticker up and answers with its image block.
func (h *SlackHandler) handleSendSticker(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	name := strings.TrimSpace(cmd.Text)
	if name == "" {
		return Ephemeral("Error. Usage: /sticker <sticker_name>"), nil
	}

	maybeSticker, err := h.stickers.GetStickerByName(ctx, name)
	if err != nil {
		return Reply{}, err
	}
	sticker, ok := maybeSticker.Get()
	if !ok {
		return Ephemeral(fmt.Sprintf("No sticker found under `%s`", name)), nil
	}

	title := slack.NewTextBlockObject(slack.PlainTextType, sticker.Name, false, false)
	return InChannelBlocks(sticker.Name, []slack.Block{
		slack.NewImageBlock(sticker.ImageURL, sticker.Name, "", title),
	}), nil
}

func (h *SlackHandler) handleListStickers(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	stickers, err := h.stickers.ListStickers(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(stickers) == 0 {
		return Ephemeral("No stickers added yet."), nil
	}

	header := slack.NewTextBlockObject(slack.MarkdownType,
		"*List of stickers*. You can send them with `/sticker <name>`", false, false)
	blocks := []slack.Block{slack.NewSectionBlock(header, nil, nil)}
	for _, sticker := range stickers {
		name := slack.NewTextBlockObject(slack.PlainTextType, sticker.Name, false, false)
		image := slack.NewImageBlockElement(sticker.ImageURL, sticker.Name)
		blocks = append(blocks, slack.NewSectionBlock(name, nil, slack.NewAccessory(image)))
	}
	return EphemeralBlocks("*Stickers*", blocks), nil
}

func (h *SlackHandler) handleDeleteSticker(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	name := strings.TrimSpace(cmd.Text)
	if name == "" {
		return Ephemeral("Bad Usage. /delete_sticker <name>.\nNote: Only the author can delete stickers"), nil
	}
	if err := h.stickers.DeleteSticker(ctx, name, cmd.UserID); err != nil {
		return Reply{}, err
	}
	return Ephemeral(fmt.Sprintf("%s deleted :check:", name)), nil
}

func (h *SlackHandler) handleAddTeam(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	teamName, members, err := parseTeamMention(cmd.Text)
	if err != nil {
		return Reply{}, err
	}

	memberIDs := make([]string, 0, len(members))
	names := make([]string, 0, len(members))
	for _, member := range members {
		memberIDs = append(memberIDs, member.UserID)
		names = append(names, member.Name)
	}

	team, err := h.retro.AddTeam(ctx, teamName, memberIDs)
	if err != nil {
		return Reply{}, err
	}
	return InChannel(fmt.Sprintf("Success! %s was created. Members: %s", team.Name, strings.Join(names, " "))), nil
}

func (h *SlackHandler) handleStartSprint(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	args := strings.Fields(cmd.Text)
	var sprintName, teamName string
	switch len(args) {
	case 1:
		sprintName = args[0]
	case 2:
		sprintName, teamName = args[0], args[1]
	default:
		return Ephemeral("Bad usage. i.e: /start_sprint <sprint_name>"), nil
	}

	sprint, err := h.retro.StartSprint(ctx, sprintName, cmd.UserID, teamName)
	if err != nil {
		return Reply{}, err
	}
	return InChannel(fmt.Sprintf("Sprint `%s` started :check:", sprint.Name)), nil
}

func (h *SlackHandler) handleEndSprint(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	teamName := strings.TrimSpace(cmd.Text)
	if err := h.retro.EndSprint(ctx, cmd.UserID, teamName); err != nil {
		return Reply{}, err
	}
	return InChannel("Sprint ended :check:"), nil
}

// handleAddRetroItem stores an item on the team's running sprint. The team
// is optional, separated from the item text by a dash.
func (h *SlackHandler) handleAddRetroItem(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return Ephemeral("Bad usage. i.e: /add_retro_item <text>"), nil
	}
	item, teamName, _ := strings.Cut(cmd.Text, "-")
	if err := h.retro.AddRetroItem(ctx, cmd.UserID, strings.TrimSpace(teamName), strings.TrimSpace(item)); err != nil {
		return Reply{}, err
	}
	return Ephemeral("Item saved :check:"), nil
}

func (h *SlackHandler) handleShowRetroItems(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	items, err := h.retro.ShowRetroItems(ctx, cmd.UserID, strings.TrimSpace(cmd.Text))
	if err != nil {
		return Reply{}, err
	}
	if len(items) == 0 {
		return Ephemeral("No retro items yet"), nil
	}

	var b strings.Builder
	b.WriteString("*Retro items:*")
	for _, item := range items {
		fmt.Fprintf(&b, "\n• %s _(%s)_", item.Text, item.Author)
	}
	return Ephemeral(b.String()), nil
}

func (h *SlackHandler) handleTeamMembers(ctx context.Context, cmd models.CommandInvocation) (Reply, error) {
	teamName := strings.TrimSpace(cmd.Text)
	if teamName == "" {
		return Ephemeral("Bad usage. i.e: /team_members <team>"), nil
	}

	members, err := h.retro.TeamMembers(ctx, teamName)
	if err != nil {
		return Reply{}, err
	}
	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.DisplayName())
	}
	return Ephemeral(fmt.Sprintf("%s members:\n%s", teamName, strings.Join(names, " "))), nil
}
