package retro

import (
	"context"
	"fmt"
	"log"

	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/services"
)

type RetroService struct {
	retroRepo    *db.PostgresRetroRepository
	usersRepo    *db.PostgresUsersRepository
	usersService services.UsersService
	txManager    services.TransactionManager
}

func NewRetroService(
	retroRepo *db.PostgresRetroRepository,
	usersRepo *db.PostgresUsersRepository,
	usersService services.UsersService,
	txManager services.TransactionManager,
) *RetroService {
	return &RetroService{
		retroRepo:    retroRepo,
		usersRepo:    usersRepo,
		usersService: usersService,
		txManager:    txManager,
	}
}

// AddTeam creates the team (or reuses it by name) and assigns every
// mentioned member to it, creating users on first sight.
func (s *RetroService) AddTeam(ctx context.Context, teamName string, memberSlackIDs []string) (*models.Team, error) {
	log.Printf("📋 Starting to add team %s with %d members", teamName, len(memberSlackIDs))

	var team *models.Team
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		team, err = s.retroRepo.GetOrCreateTeam(txCtx, teamName)
		if err != nil {
			return err
		}

		for _, slackID := range memberSlackIDs {
			user, err := s.usersService.GetOrCreateUser(txCtx, slackID)
			if err != nil {
				return fmt.Errorf("failed to resolve team member %s: %w", slackID, err)
			}
			if err := s.usersRepo.SetTeam(txCtx, user.ID, team.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - team %s ready", teamName)
	return team, nil
}

// StartSprint opens a running sprint for the user's team. A team can only
// have one running sprint at a time.
func (s *RetroService) StartSprint(ctx context.Context, sprintName, userID, teamName string) (*models.Sprint, error) {
	teamID, err := s.resolveTeam(ctx, userID, teamName)
	if err != nil {
		return nil, err
	}

	maybeActive, err := s.retroRepo.GetActiveSprint(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if active, ok := maybeActive.Get(); ok {
		return nil, core.NewDomainError(core.KindDuplicate,
			"Sprint `%s` is still running. `/end_sprint` before starting a new one", active.Name)
	}

	sprint, err := s.retroRepo.CreateSprint(ctx, sprintName, teamID)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Sprint %s started for team %s", sprintName, teamID)
	return sprint, nil
}

func (s *RetroService) EndSprint(ctx context.Context, userID, teamName string) error {
	sprint, err := s.activeSprint(ctx, userID, teamName)
	if err != nil {
		return err
	}

	if err := s.retroRepo.EndSprint(ctx, sprint.ID); err != nil {
		return fmt.Errorf("failed to end sprint: %w", err)
	}

	log.Printf("📋 Sprint %s ended", sprint.Name)
	return nil
}

func (s *RetroService) AddRetroItem(ctx context.Context, userID, teamName, text string) error {
	user, err := s.usersService.GetOrCreateUser(ctx, userID)
	if err != nil {
		return err
	}

	sprint, err := s.activeSprint(ctx, userID, teamName)
	if err != nil {
		return err
	}

	if err := s.retroRepo.AddRetroItem(ctx, &models.RetroItem{
		SprintID: sprint.ID,
		AuthorID: user.ID,
		Author:   user.DisplayName(),
		Text:     text,
	}); err != nil {
		return err
	}

	log.Printf("📋 Retro item saved on sprint %s", sprint.Name)
	return nil
}

func (s *RetroService) ShowRetroItems(ctx context.Context, userID, teamName string) ([]*models.RetroItem, error) {
	sprint, err := s.activeSprint(ctx, userID, teamName)
	if err != nil {
		return nil, err
	}

	return s.retroRepo.ListSprintItems(ctx, sprint.ID)
}

func (s *RetroService) TeamMembers(ctx context.Context, teamName string) ([]*models.User, error) {
	maybeTeam, err := s.retroRepo.GetTeamByName(ctx, teamName)
	if err != nil {
		return nil, err
	}
	team, ok := maybeTeam.Get()
	if !ok {
		return nil, core.NewDomainError(core.KindUnknownTarget, "Team %s does not exist", teamName)
	}

	return s.usersRepo.GetTeamMembers(ctx, team.ID)
}

// resolveTeam picks the team to act on: the explicit team name when given,
// the user's own team otherwise.
func (s *RetroService) resolveTeam(ctx context.Context, userID, teamName string) (string, error) {
	if teamName != "" {
		maybeTeam, err := s.retroRepo.GetTeamByName(ctx, teamName)
		if err != nil {
			return "", err
		}
		team, ok := maybeTeam.Get()
		if !ok {
			return "", core.NewDomainError(core.KindUnknownTarget, "Team %s does not exist", teamName)
		}
		return team.ID, nil
	}

	user, err := s.usersService.GetOrCreateUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.TeamID == nil {
		return "", core.NewDomainError(core.KindNoTeam,
			"You are not part of any team yet. `/add_team` before you can start sprints")
	}
	return *user.TeamID, nil
}

func (s *RetroService) activeSprint(ctx context.Context, userID, teamName string) (*models.Sprint, error) {
	teamID, err := s.resolveTeam(ctx, userID, teamName)
	if err != nil {
		return nil, err
	}

	maybeSprint, err := s.retroRepo.GetActiveSprint(ctx, teamID)
	if err != nil {
		return nil, err
	}
	sprint, ok := maybeSprint.Get()
	if !ok {
		return nil, core.NewDomainError(core.KindUnknownTarget, "No active sprint")
	}
	return sprint, nil
}
