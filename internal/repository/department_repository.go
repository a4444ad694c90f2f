package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wiitel/telecom-ticketing/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Upsert(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

const deptColumns = `id, name, description, department_type,
        can_view_enterprises, can_create_enterprises, can_edit_enterprises, can_delete_enterprises,
        can_view_tickets, can_create_tickets, can_edit_tickets, can_delete_tickets,
        can_view_users, can_edit_users, can_view_all_tickets, created_at`

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (id, name, description, department_type,
            can_view_enterprises, can_create_enterprises, can_edit_enterprises, can_delete_enterprises,
            can_view_tickets, can_create_tickets, can_edit_tickets, can_delete_tickets,
            can_view_users, can_edit_users, can_view_all_tickets)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query, deptArgs(dept)...).Scan(&dept.CreatedAt)
}

// Upsert inserts the department or leaves an existing row untouched. Used by
// startup seeding so admin edits to default departments survive restarts.
func (r *departmentRepository) Upsert(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (id, name, description, department_type,
            can_view_enterprises, can_create_enterprises, can_edit_enterprises, can_delete_enterprises,
            can_view_tickets, can_create_tickets, can_edit_tickets, can_delete_tickets,
            can_view_users, can_edit_users, can_view_all_tickets)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, deptArgs(dept)...)
	return err
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET name=$2, description=$3, department_type=$4,
            can_view_enterprises=$5, can_create_enterprises=$6, can_edit_enterprises=$7, can_delete_enterprises=$8,
            can_view_tickets=$9, can_create_tickets=$10, can_edit_tickets=$11, can_delete_tickets=$12,
            can_view_users=$13, can_edit_users=$14, can_view_all_tickets=$15
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, deptArgs(dept)...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	var dept domain.Department
	if err := scanDepartment(r.pool.QueryRow(ctx, `SELECT `+deptColumns+` FROM departments WHERE id=$1`, id), &dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+deptColumns+` FROM departments ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := scanDepartment(rows, &dept); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func deptArgs(dept *domain.Department) []any {
	return []any{
		dept.ID,
		dept.Name,
		dept.Description,
		dept.Type,
		dept.CanViewEnterprises,
		dept.CanCreateEnterprises,
		dept.CanEditEnterprises,
		dept.CanDeleteEnterprises,
		dept.CanViewTickets,
		dept.CanCreateTickets,
		dept.CanEditTickets,
		dept.CanDeleteTickets,
		dept.CanViewUsers,
		dept.CanEditUsers,
		dept.CanViewAllTickets,
	}
}

func scanDepartment(row rowScanner, dept *domain.Department) error {
	return row.Scan(
		&dept.ID,
		&dept.Name,
		&dept.Description,
		&dept.Type,
		&dept.CanViewEnterprises,
		&dept.CanCreateEnterprises,
		&dept.CanEditEnterprises,
		&dept.CanDeleteEnterprises,
		&dept.CanViewTickets,
		&dept.CanCreateTickets,
		&dept.CanEditTickets,
		&dept.CanDeleteTickets,
		&dept.CanViewUsers,
		&dept.CanEditUsers,
		&dept.CanViewAllTickets,
		&dept.CreatedAt,
	)
}
