package services

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/Ambro17/slacker/models"
)

// MockUsersService is a mock implementation of the UsersService interface
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) GetOrCreateUser(ctx context.Context, slackID string) (*models.User, error) {
	args := m.Called(ctx, slackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) SetOviCredentials(ctx context.Context, userID, oviName, oviToken string) error {
	args := m.Called(ctx, userID, oviName, oviToken)
	return args.Error(0)
}

// MockPollsService is a mock implementation of the PollsService interface
type MockPollsService struct {
	mock.Mock
}

func (m *MockPollsService) CreatePoll(ctx context.Context, text, author string) (*models.Poll, error) {
	args := m.Called(ctx, text, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *MockPollsService) GetPollByID(ctx context.Context, pollID string) (mo.Option[*models.Poll], error) {
	args := m.Called(ctx, pollID)
	return args.Get(0).(mo.Option[*models.Poll]), args.Error(1)
}

func (m *MockPollsService) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	args := m.Called(ctx, pollID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPollsService) Vote(
	ctx context.Context,
	pollID string,
	optionNumber int,
	userID, userName string,
) (*models.Poll, error) {
	args := m.Called(ctx, pollID, optionNumber, userID, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

// MockStickersService is a mock implementation of the StickersService interface
type MockStickersService struct {
	mock.Mock
}

func (m *MockStickersService) AddSticker(ctx context.Context, name, imageURL, author string) error {
	args := m.Called(ctx, name, imageURL, author)
	return args.Error(0)
}

func (m *MockStickersService) GetStickerByName(ctx context.Context, name string) (mo.Option[*models.Sticker], error) {
	args := m.Called(ctx, name)
	return args.Get(0).(mo.Option[*models.Sticker]), args.Error(1)
}

func (m *MockStickersService) ListStickers(ctx context.Context) ([]*models.Sticker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sticker), args.Error(1)
}

func (m *MockStickersService) DeleteSticker(ctx context.Context, name, author string) error {
	args := m.Called(ctx, name, author)
	return args.Error(0)
}

// MockRetroService is a mock implementation of the RetroService interface
type MockRetroService struct {
	mock.Mock
}

func (m *MockRetroService) AddTeam(ctx context.Context, teamName string, memberSlackIDs []string) (*models.Team, error) {
	args := m.Called(ctx, teamName, memberSlackIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockRetroService) StartSprint(ctx context.Context, sprintName, userID, teamName string) (*models.Sprint, error) {
	args := m.Called(ctx, sprintName, userID, teamName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sprint), args.Error(1)
}

func (m *MockRetroService) EndSprint(ctx context.Context, userID, teamName string) error {
	args := m.Called(ctx, userID, teamName)
	return args.Error(0)
}

func (m *MockRetroService) AddRetroItem(ctx context.Context, userID, teamName, text string) error {
	args := m.Called(ctx, userID, teamName, text)
	return args.Error(0)
}

func (m *MockRetroService) ShowRetroItems(ctx context.Context, userID, teamName string) ([]*models.RetroItem, error) {
	args := m.Called(ctx, userID, teamName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RetroItem), args.Error(1)
}

func (m *MockRetroService) TeamMembers(ctx context.Context, teamName string) ([]*models.User, error) {
	args := m.Called(ctx, teamName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockVMsService is a mock implementation of the VMsService interface
type MockVMsService struct {
	mock.Mock
}

func (m *MockVMsService) RegisterVMs(
	ctx context.Context,
	slackID, oviName, oviToken string,
	vms map[string]string,
) error {
	args := m.Called(ctx, slackID, oviName, oviToken, vms)
	return args.Error(0)
}

func (m *MockVMsService) ResolveAliases(ctx context.Context, slackID string, aliases []string) ([]string, error) {
	args := m.Called(ctx, slackID, aliases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVMsService) Credentials(ctx context.Context, slackID string) (string, string, error) {
	args := m.Called(ctx, slackID)
	return args.String(0), args.String(1), args.Error(2)
}
