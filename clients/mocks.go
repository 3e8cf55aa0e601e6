package clients

import (
	"context"
	"io"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"
)

// MockSlackClient is a testify mock of SlackClient.
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) PostMessage(ctx context.Context, channel, text string) error {
	args := m.Called(ctx, channel, text)
	return args.Error(0)
}

func (m *MockSlackClient) PostBlocks(ctx context.Context, channel string, blocks []slack.Block) error {
	args := m.Called(ctx, channel, blocks)
	return args.Error(0)
}

func (m *MockSlackClient) PostEphemeral(ctx context.Context, channel, user, text string) error {
	args := m.Called(ctx, channel, user, text)
	return args.Error(0)
}

func (m *MockSlackClient) UpdateMessage(ctx context.Context, channel, timestamp string, blocks []slack.Block) error {
	args := m.Called(ctx, channel, timestamp, blocks)
	return args.Error(0)
}

func (m *MockSlackClient) OpenDialog(ctx context.Context, triggerID string, dialog slack.Dialog) error {
	args := m.Called(ctx, triggerID, dialog)
	return args.Error(0)
}

func (m *MockSlackClient) UploadFile(ctx context.Context, channel, filename, comment string, size int, content io.Reader) error {
	args := m.Called(ctx, channel, filename, comment, size, content)
	return args.Error(0)
}

func (m *MockSlackClient) AddReaction(ctx context.Context, name, channel, timestamp string) error {
	args := m.Called(ctx, name, channel, timestamp)
	return args.Error(0)
}

func (m *MockSlackClient) GetUserInfo(ctx context.Context, userID string) (*SlackUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SlackUser), args.Error(1)
}

// MockVMClient is a testify mock of VMClient.
type MockVMClient struct {
	mock.Mock
}

func (m *MockVMClient) StartMany(ctx context.Context, user, token string, vmIDs []string) (string, error) {
	args := m.Called(ctx, user, token, vmIDs)
	return args.String(0), args.Error(1)
}

func (m *MockVMClient) StopMany(ctx context.Context, user, token string, vmIDs []string) (string, error) {
	args := m.Called(ctx, user, token, vmIDs)
	return args.String(0), args.Error(1)
}

func (m *MockVMClient) ListVMs(ctx context.Context, user, token string) (string, error) {
	args := m.Called(ctx, user, token)
	return args.String(0), args.Error(1)
}

func (m *MockVMClient) Redeploy(ctx context.Context, user, token, vmID, snapshotID string) (string, error) {
	args := m.Called(ctx, user, token, vmID, snapshotID)
	return args.String(0), args.Error(1)
}

func (m *MockVMClient) Snapshots(ctx context.Context, user, token string) (string, error) {
	args := m.Called(ctx, user, token)
	return args.String(0), args.Error(1)
}
