package vms

import (
	"context"
	"fmt"
	"log"

	"github.com/Ambro17/slacker/core"
	"github.com/Ambro17/slacker/db"
	"github.com/Ambro17/slacker/services"
)

type VMsService struct {
	vmsRepo      *db.PostgresVMsRepository
	usersService services.UsersService
	txManager    services.TransactionManager
}

func NewVMsService(
	vmsRepo *db.PostgresVMsRepository,
	usersService services.UsersService,
	txManager services.TransactionManager,
) *VMsService {
	return &VMsService{vmsRepo: vmsRepo, usersService: usersService, txManager: txManager}
}

// RegisterVMs stores the user's remote api credentials and replaces their
// alias -> vm id map with the dialog submission.
func (s *VMsService) RegisterVMs(
	ctx context.Context,
	slackID, oviName, oviToken string,
	vms map[string]string,
) error {
	log.Printf("📋 Starting to register %d vms for user %s", len(vms), slackID)

	if len(vms) == 0 {
		return core.NewDomainError(core.KindBadUsage, "You must register at least one vm")
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.usersService.GetOrCreateUser(txCtx, slackID)
		if err != nil {
			return err
		}
		if err := s.usersService.SetOviCredentials(txCtx, user.ID, oviName, oviToken); err != nil {
			return err
		}
		return s.vmsRepo.ReplaceUserVMs(txCtx, user.ID, vms)
	})
	if err != nil {
		return fmt.Errorf("failed to register vms: %w", err)
	}

	log.Printf("📋 Completed successfully - vms registered for %s", slackID)
	return nil
}

// ResolveAliases maps aliases to vm ids, failing on the first alias the
// user does not own.
func (s *VMsService) ResolveAliases(ctx context.Context, slackID string, aliases []string) ([]string, error) {
	user, err := s.usersService.GetOrCreateUser(ctx, slackID)
	if err != nil {
		return nil, err
	}

	stored, err := s.vmsRepo.GetUserVMs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	vmIDs := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		vmID, ok := stored[alias]
		if !ok {
			return nil, core.NewDomainError(core.KindUnknownTarget,
				"You don't have a VM under alias '%s'", alias)
		}
		vmIDs = append(vmIDs, vmID)
	}

	return vmIDs, nil
}

// Credentials returns the remote api credentials saved on registration.
func (s *VMsService) Credentials(ctx context.Context, slackID string) (string, string, error) {
	user, err := s.usersService.GetOrCreateUser(ctx, slackID)
	if err != nil {
		return "", "", err
	}

	if user.OviName == nil || user.OviToken == nil {
		return "", "", core.NewDomainError(core.KindNotAuthorized,
			"You haven't registered your vms yet. Run `/register` first")
	}

	return *user.OviName, *user.OviToken, nil
}
