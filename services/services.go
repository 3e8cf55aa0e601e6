package services

import (
	"context"

	"github.com/samber/mo"

	"github.com/Ambro17/slacker/models"
)

// TransactionManager defines the interface for transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UsersService defines the interface for user-related operations
type UsersService interface {
	// GetOrCreateUser looks up the user by Slack id, fetching the profile
	// from the platform on first sight.
	GetOrCreateUser(ctx context.Context, slackID string) (*models.User, error)
	SetOviCredentials(ctx context.Context, userID, oviName, oviToken string) error
}

// PollsService defines the interface for poll operations
type PollsService interface {
	CreatePoll(ctx context.Context, text, author string) (*models.Poll, error)
	GetPollByID(ctx context.Context, pollID string) (mo.Option[*models.Poll], error)
	HasVoted(ctx context.Context, pollID, userID string) (bool, error)
	// Vote registers the user's choice and returns the updated poll.
	Vote(ctx context.Context, pollID string, optionNumber int, userID, userName string) (*models.Poll, error)
}

// StickersService defines the interface for sticker operations
type StickersService interface {
	AddSticker(ctx context.Context, name, imageURL, author string) error
	GetStickerByName(ctx context.Context, name string) (mo.Option[*models.Sticker], error)
	ListStickers(ctx context.Context) ([]*models.Sticker, error)
	DeleteSticker(ctx context.Context, name, author string) error
}

// RetroService defines the interface for team/sprint/retro-item operations
type RetroService interface {
	AddTeam(ctx context.Context, teamName string, memberSlackIDs []string) (*models.Team, error)
	StartSprint(ctx context.Context, sprintName, userID, teamName string) (*models.Sprint, error)
	EndSprint(ctx context.Context, userID, teamName string) error
	AddRetroItem(ctx context.Context, userID, teamName, text string) error
	ShowRetroItems(ctx context.Context, userID, teamName string) ([]*models.RetroItem, error)
	TeamMembers(ctx context.Context, teamName string) ([]*models.User, error)
}

// VMsService defines the interface for vm ownership operations
type VMsService interface {
	// RegisterVMs stores the user's api credentials and alias -> vm id map.
	RegisterVMs(ctx context.Context, slackID, oviName, oviToken string, vms map[string]string) error
	// ResolveAliases maps the given aliases to vm ids, failing with a domain
	// error on the first alias the user does not own.
	ResolveAliases(ctx context.Context, slackID string, aliases []string) ([]string, error)
	// Credentials returns the user's stored remote api name and token.
	Credentials(ctx context.Context, slackID string) (oviName, oviToken string, err error)
}
