package users

import (
	"context"
	"fmt"
	"log"

	"github.com/Ambro17/slacker/clients"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/models"
)

type UsersService struct {
	usersRepo   *db.PostgresUsersRepository
	slackClient clients.SlackClient
}

func NewUsersService(repo *db.PostgresUsersRepository, slackClient clients.SlackClient) *UsersService {
	return &UsersService{usersRepo: repo, slackClient: slackClient}
}

// GetOrCreateUser returns the stored user for the Slack id, fetching the
// profile via users.info and persisting it on first sight.
func (s *UsersService) GetOrCreateUser(ctx context.Context, slackID string) (*models.User, error) {
	log.Printf("📋 Starting to get or create user for slackID: %s", slackID)

	if slackID == "" {
		return nil, fmt.Errorf("slack_id cannot be empty")
	}

	maybeUser, err := s.usersRepo.GetUserBySlackID(ctx, slackID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user, ok := maybeUser.Get(); ok {
		log.Printf("📋 User %s already on db", slackID)
		return user, nil
	}

	profile, err := s.slackClient.GetUserInfo(ctx, slackID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info for %s: %w", slackID, err)
	}

	user, err := s.usersRepo.CreateUser(ctx, &models.User{
		SlackID:   profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		RealName:  profile.RealName,
		Timezone:  profile.Timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("📋 Completed successfully - created user with ID: %s", user.ID)
	return user, nil
}

func (s *UsersService) SetOviCredentials(ctx context.Context, userID, oviName, oviToken string) error {
	if oviName == "" || oviToken == "" {
		return fmt.Errorf("ovi credentials cannot be empty")
	}

	if err := s.usersRepo.SetOviCredentials(ctx, userID, oviName, oviToken); err != nil {
		return fmt.Errorf("failed to set ovi credentials: %w", err)
	}

	log.Printf("📋 Stored ovi credentials for user %s", userID)
	return nil
}
