// Package notify delivers error reports to the operators of the bot. The
// full-detail report always goes to the errors channel as an ephemeral
// message for the admin user; end users only ever see degraded, friendly
// text through other paths.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/Ambro17/slacker/clients"
)

// AdminNotifier reports internal errors to an administrator.
type AdminNotifier interface {
	NotifyError(ctx context.Context, detail string) error
}

type Admin struct {
	slackClient   clients.SlackClient
	errorsChannel string
	adminUser     string
}

func NewAdmin(slackClient clients.SlackClient, errorsChannel, adminUser string) *Admin {
	return &Admin{
		slackClient:   slackClient,
		errorsChannel: errorsChannel,
		adminUser:     adminUser,
	}
}

// NotifyError sends the full error detail to the admin, monospaced.
func (a *Admin) NotifyError(ctx context.Context, detail string) error {
	monoError := fmt.Sprintf("```%s```", detail)
	if err := a.slackClient.PostEphemeral(ctx, a.errorsChannel, a.adminUser, monoError); err != nil {
		return fmt.Errorf("admin not notified: %w", err)
	}

	log.Printf("📋 Admin was notified of error")
	return nil
}

// MockAdminNotifier records notifications for tests.
type MockAdminNotifier struct {
	Notifications []string
}

func (m *MockAdminNotifier) NotifyError(_ context.Context, detail string) error {
	m.Notifications = append(m.Notifications, detail)
	return nil
}
