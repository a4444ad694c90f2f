package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// EnterpriseFilter narrows enterprise listings.
type EnterpriseFilter struct {
	AssignedAMID *string
	Type         *domain.EnterpriseType
}

// EnterpriseRepository manages enterprise (client/vendor) persistence.
type EnterpriseRepository interface {
	Create(ctx context.Context, ent *domain.Enterprise) error
	Update(ctx context.Context, ent *domain.Enterprise) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Enterprise, error)
	List(ctx context.Context, filter EnterpriseFilter) ([]domain.Enterprise, error)
}

type enterpriseRepository struct {
	pool *pgxpool.Pool
}

// NewEnterpriseRepository builds the repository.
func NewEnterpriseRepository(pool *pgxpool.Pool) EnterpriseRepository {
	return &enterpriseRepository{pool: pool}
}

const enterpriseColumns = `id, name, contact_person, contact_email, contact_phone, assigned_am_id,
        tier, noc_emails, notes, enterprise_type, customer_trunks, vendor_trunks, created_at`

func (r *enterpriseRepository) Create(ctx context.Context, ent *domain.Enterprise) error {
	const query = `
        INSERT INTO enterprises (id, name, contact_person, contact_email, contact_phone, assigned_am_id,
            tier, noc_emails, notes, enterprise_type, customer_trunks, vendor_trunks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ent.ID,
		ent.Name,
		ent.ContactPerson,
		ent.ContactEmail,
		ent.ContactPhone,
		ent.AssignedAMID,
		ent.Tier,
		ent.NOCEmails,
		ent.Notes,
		ent.Type,
		ent.CustomerTrunks,
		ent.VendorTrunks,
	).Scan(&ent.CreatedAt)
}

func (r *enterpriseRepository) Update(ctx context.Context, ent *domain.Enterprise) error {
	const query = `
        UPDATE enterprises SET name=$1, contact_person=$2, contact_email=$3, contact_phone=$4,
            assigned_am_id=$5, tier=$6, noc_emails=$7, notes=$8, enterprise_type=$9,
            customer_trunks=$10, vendor_trunks=$11
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		ent.Name,
		ent.ContactPerson,
		ent.ContactEmail,
		ent.ContactPhone,
		ent.AssignedAMID,
		ent.Tier,
		ent.NOCEmails,
		ent.Notes,
		ent.Type,
		ent.CustomerTrunks,
		ent.VendorTrunks,
		ent.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enterpriseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM enterprises WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *enterpriseRepository) GetByID(ctx context.Context, id string) (*domain.Enterprise, error) {
	var ent domain.Enterprise
	if err := scanEnterprise(r.pool.QueryRow(ctx, `SELECT `+enterpriseColumns+` FROM enterprises WHERE id=$1`, id), &ent); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (r *enterpriseRepository) List(ctx context.Context, filter EnterpriseFilter) ([]domain.Enterprise, error) {
	query := `SELECT ` + enterpriseColumns + ` FROM enterprises WHERE 1=1`
	args := []any{}
	if filter.AssignedAMID != nil {
		args = append(args, *filter.AssignedAMID)
		query += ` AND assigned_am_id=$1`
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		if len(args) == 1 {
			query += ` AND enterprise_type=$1`
		} else {
			query += ` AND enterprise_type=$2`
		}
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Enterprise
	for rows.Next() {
		var ent domain.Enterprise
		if err := scanEnterprise(rows, &ent); err != nil {
			return nil, err
		}
		result = append(result, ent)
	}
	return result, rows.Err()
}

func scanEnterprise(row rowScanner, ent *domain.Enterprise) error {
	return row.Scan(
		&ent.ID,
		&ent.Name,
		&ent.ContactPerson,
		&ent.ContactEmail,
		&ent.ContactPhone,
		&ent.AssignedAMID,
		&ent.Tier,
		&ent.NOCEmails,
		&ent.Notes,
		&ent.Type,
		&ent.CustomerTrunks,
		&ent.VendorTrunks,
		&ent.CreatedAt,
	)
}
