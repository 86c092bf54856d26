package email

import (
	"context"
	"log"

	"recoverydesk/internal/config"
	"recoverydesk/internal/models"
)

// RecipientStore finds who should hear about operational events.
type RecipientStore interface {
	ListUserEmailsByRole(ctx context.Context, roles ...string) ([]string, error)
}

// Notifier sends email notifications for broadcast events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	db        RecipientStore
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db RecipientStore) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
	}
}

// NotifyBroadcastFailed tells admins and operators that a launch failed.
func (n *Notifier) NotifyBroadcastFailed(ctx context.Context, b *models.Broadcast) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyOnLaunchFailure || b == nil {
		return
	}

	emails, err := n.db.ListUserEmailsByRole(ctx, models.RoleAdmin, models.RoleOperator)
	if err != nil {
		log.Printf("Failed to get notification recipients: %v", err)
		return
	}
	if len(emails) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.BroadcastFailed(b)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}
