package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// NotificationRepository persists one record per (event, recipient) pair.
// Records are immutable after insert except for the read flag.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, audiences []domain.NotificationAudience, limit int) ([]domain.Notification, error)
	ListUnreadPeerNotices(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds the repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, ticket_id, ticket_number, ticket_kind, recipient_id, event_type,
        audience, actor_id, actor_name, message, changes, read, created_at`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (id, ticket_id, ticket_number, ticket_kind, recipient_id,
            event_type, audience, actor_id, actor_name, message, changes, read)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		n.ID,
		n.TicketID,
		n.TicketNumber,
		n.TicketKind,
		n.RecipientID,
		n.Event,
		n.Audience,
		n.ActorID,
		n.ActorName,
		n.Message,
		n.Changes,
		n.Read,
	).Scan(&n.CreatedAt)
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID string, audiences []domain.NotificationAudience, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	clauses := []string{"recipient_id=$1"}
	args := []any{recipientID}
	if len(audiences) > 0 {
		values := make([]string, len(audiences))
		for i, audience := range audiences {
			values[i] = string(audience)
		}
		args = append(args, values)
		clauses = append(clauses, fmt.Sprintf("audience = ANY($%d)", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE %s ORDER BY created_at DESC LIMIT %d`,
		notificationColumns, strings.Join(clauses, " AND "), limit)
	return r.fetchMany(ctx, query, args...)
}

func (r *notificationRepository) ListUnreadPeerNotices(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM notifications
        WHERE recipient_id=$1 AND audience=$2 AND read=FALSE
        ORDER BY created_at DESC LIMIT %d`, notificationColumns, limit)
	return r.fetchMany(ctx, query, recipientID, domain.AudienceAssignee)
}

// MarkRead flips the read flag. Re-marking an already-read notification is a
// no-op, not an error; an unknown id surfaces pgx.ErrNoRows.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read=TRUE WHERE id=$1 AND recipient_id=$2`, id, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.TicketID,
			&n.TicketNumber,
			&n.TicketKind,
			&n.RecipientID,
			&n.Event,
			&n.Audience,
			&n.ActorID,
			&n.ActorName,
			&n.Message,
			&n.Changes,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
