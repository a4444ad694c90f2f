package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/wiitel/telecom-ticketing/internal/domain"
	"github.com/wiitel/telecom-ticketing/internal/repository"
	apperrors "github.com/wiitel/telecom-ticketing/pkg/util"
)

// NotificationService serves the per-user notification feed.
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService wires dependencies.
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

const defaultFeedLimit = 50

// List returns the caller's feed, newest first, filtered to the audience
// families their role subscribes to. AMs see the AM family; NOC and admins
// see the NOC family plus their own peer notices.
func (s *NotificationService) List(ctx context.Context, actor Actor, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > defaultFeedLimit {
		limit = defaultFeedLimit
	}

	var audiences []domain.NotificationAudience
	switch actor.Role {
	case domain.RoleAM:
		audiences = []domain.NotificationAudience{domain.AudienceAM}
	case domain.RoleNOC, domain.RoleAdmin:
		audiences = []domain.NotificationAudience{domain.AudienceNOC, domain.AudienceAssignee}
	default:
		return nil, apperrors.NewForbidden("insufficient role")
	}

	feed, err := s.notifications.ListForRecipient(ctx, actor.ID, audiences, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return feed, nil
}

// UnreadPeerNotices returns the caller's pending assignee notices.
func (s *NotificationService) UnreadPeerNotices(ctx context.Context, actor Actor) ([]domain.Notification, error) {
	if err := requireRole(actor, domain.RoleNOC, domain.RoleAdmin); err != nil {
		return nil, err
	}
	notices, err := s.notifications.ListUnreadPeerNotices(ctx, actor.ID, 20)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notices, nil
}

// MarkRead flips a notification's read flag. Re-marking an already-read
// record succeeds without effect; a foreign record reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) error {
	if err := s.notifications.MarkRead(ctx, id, actor.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
