package polls

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/models"
	"github.com/Ambro17/slacker/services"
)

type PollsService struct {
	pollsRepo *db.PostgresPollsRepository
	txManager services.TransactionManager
}

func NewPollsService(repo *db.PostgresPollsRepository, txManager services.TransactionManager) *PollsService {
	return &PollsService{pollsRepo: repo, txManager: txManager}
}

// CreatePoll parses the slash command text and stores the new poll with
// its options.
func (s *PollsService) CreatePoll(ctx context.Context, text, author string) (*models.Poll, error) {
	log.Printf("📋 Starting to create poll for author %s", author)

	poll, err := models.ParsePoll(text, author)
	if err != nil {
		return nil, err
	}

	if err := s.pollsRepo.CreatePoll(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	log.Printf("📋 Completed successfully - created poll %s with %d options", poll.ID, len(poll.Options))
	return poll, nil
}

func (s *PollsService) GetPollByID(ctx context.Context, pollID string) (mo.Option[*models.Poll], error) {
	return s.pollsRepo.GetPollByID(ctx, pollID)
}

func (s *PollsService) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	return s.pollsRepo.HasVoted(ctx, pollID, userID)
}

// Vote registers the user's choice and returns the poll with fresh counts.
// The already-voted check and the insert run in one transaction so two
// clicks from the same user cannot both land.
func (s *PollsService) Vote(
	ctx context.Context,
	pollID string,
	optionNumber int,
	userID, userName string,
) (*models.Poll, error) {
	log.Printf("📋 Starting to vote on poll %s, option %d, user %s", pollID, optionNumber, userID)

	var updated *models.Poll
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maybePoll, err := s.pollsRepo.GetPollByID(txCtx, pollID)
		if err != nil {
			return err
		}
		poll, ok := maybePoll.Get()
		if !ok {
			return core.NewDomainError(core.KindUnknownTarget, "Poll not found.")
		}

		option, ok := poll.OptionByNumber(optionNumber)
		if !ok {
			return core.NewDomainError(core.KindUnknownTarget, "Vote choice not found")
		}

		voted, err := s.pollsRepo.HasVoted(txCtx, pollID, userID)
		if err != nil {
			return err
		}
		if voted {
			return core.NewDomainError(core.KindDuplicate, "You have already voted.")
		}

		if err := s.pollsRepo.AddVote(txCtx, &models.Vote{
			PollID:   pollID,
			OptionID: option.ID,
			UserID:   userID,
			UserName: userName,
		}); err != nil {
			return err
		}

		refetched, err := s.pollsRepo.GetPollByID(txCtx, pollID)
		if err != nil {
			return err
		}
		updated, _ = refetched.Get()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - vote registered on poll %s", pollID)
	return updated, nil
}
