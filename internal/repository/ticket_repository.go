package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// TicketFilter captures listing parameters. Kind is mandatory; the two
// pipelines never mix in one listing.
type TicketFilter struct {
	Kind          domain.TicketKind
	EnterpriseIDs []string
	Statuses      []domain.TicketStatus
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Limit         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, kind domain.TicketKind, id string) error
	GetByID(ctx context.Context, kind domain.TicketKind, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, kind, ticket_number, enterprise_id, enterprise_name, client_or_vendor,
        priority, volume, customer_trunk, destination, issue_types, issue_other, fas_type,
        sms_details, opened_via, rate, vendor_trunks, cost, is_lcr, root_cause, action_taken,
        internal_notes, status, assigned_to, assigned_at, actions, created_by, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, kind, ticket_number, enterprise_id, enterprise_name, client_or_vendor,
            priority, volume, customer_trunk, destination, issue_types, issue_other, fas_type,
            sms_details, opened_via, rate, vendor_trunks, cost, is_lcr, root_cause, action_taken,
            internal_notes, status, assigned_to, assigned_at, actions, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Kind,
		ticket.TicketNumber,
		ticket.EnterpriseID,
		ticket.EnterpriseName,
		ticket.ClientOrVendor,
		ticket.Priority,
		ticket.Volume,
		ticket.CustomerTrunk,
		ticket.Destination,
		ticket.IssueTypes,
		ticket.IssueOther,
		ticket.FASType,
		ticket.SMSDetails,
		ticket.OpenedVia,
		ticket.Rate,
		ticket.VendorTrunks,
		ticket.Cost,
		ticket.IsLCR,
		ticket.RootCause,
		ticket.ActionTaken,
		ticket.InternalNotes,
		ticket.Status,
		ticket.AssignedTo,
		ticket.AssignedAt,
		ticket.Actions,
		ticket.CreatedBy,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update writes the full row back; concurrent updates are last-write-wins.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET priority=$1, volume=$2, customer_trunk=$3, destination=$4,
            issue_types=$5, issue_other=$6, fas_type=$7, sms_details=$8, opened_via=$9,
            rate=$10, vendor_trunks=$11, cost=$12, is_lcr=$13, root_cause=$14, action_taken=$15,
            internal_notes=$16, status=$17, assigned_to=$18, assigned_at=$19, actions=$20,
            updated_at=NOW()
        WHERE id=$21 AND kind=$22`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Priority,
		ticket.Volume,
		ticket.CustomerTrunk,
		ticket.Destination,
		ticket.IssueTypes,
		ticket.IssueOther,
		ticket.FASType,
		ticket.SMSDetails,
		ticket.OpenedVia,
		ticket.Rate,
		ticket.VendorTrunks,
		ticket.Cost,
		ticket.IsLCR,
		ticket.RootCause,
		ticket.ActionTaken,
		ticket.InternalNotes,
		ticket.Status,
		ticket.AssignedTo,
		ticket.AssignedAt,
		ticket.Actions,
		ticket.ID,
		ticket.Kind,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, kind domain.TicketKind, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1 AND kind=$2`, id, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, kind domain.TicketKind, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 AND kind=$2`
	if err := scanTicket(r.pool.QueryRow(ctx, query, id, kind), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"kind=$1"}
	args := []any{filter.Kind}

	if len(filter.EnterpriseIDs) > 0 {
		args = append(args, filter.EnterpriseIDs)
		clauses = append(clauses, fmt.Sprintf("enterprise_id = ANY($%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		args = append(args, statuses)
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row rowScanner, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Kind,
		&ticket.TicketNumber,
		&ticket.EnterpriseID,
		&ticket.EnterpriseName,
		&ticket.ClientOrVendor,
		&ticket.Priority,
		&ticket.Volume,
		&ticket.CustomerTrunk,
		&ticket.Destination,
		&ticket.IssueTypes,
		&ticket.IssueOther,
		&ticket.FASType,
		&ticket.SMSDetails,
		&ticket.OpenedVia,
		&ticket.Rate,
		&ticket.VendorTrunks,
		&ticket.Cost,
		&ticket.IsLCR,
		&ticket.RootCause,
		&ticket.ActionTaken,
		&ticket.InternalNotes,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.AssignedAt,
		&ticket.Actions,
		&ticket.CreatedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}
