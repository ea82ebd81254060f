package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// GetAllEmployees 按 id 顺序返回所有员工，这个顺序就是排班时的名单顺序
func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT e.id, e.name, e.email, e.created_at, e.version, ep.day, ep.shift
		FROM employees e
		LEFT JOIN employee_preferences ep ON e.id = ep.employee_id
		ORDER BY e.id, ep.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	var current *domain.Employee

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			Email     string
			CreatedAt time.Time
			Version   int32
			Day       sql.NullString
			Shift     sql.NullString
		}

		dst := []any{&row.ID, &row.Name, &row.Email, &row.CreatedAt, &row.Version, &row.Day, &row.Shift}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if current == nil || current.ID != row.ID {
			current = domain.NewEmployee(row.Name)
			current.ID = row.ID
			current.Email = row.Email
			current.CreatedAt = row.CreatedAt
			current.Version = row.Version
			employees = append(employees, current)
		}

		// 没有任何偏好的员工 day 为空
		if !row.Day.Valid {
			continue
		}

		current.AddPreference(domain.Day(row.Day.String), domain.Shift(row.Shift.String))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, email, created_at, version FROM employees WHERE id = $1
	`

	e := domain.NewEmployee("")
	e.ID = id
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&e.Name, &e.Email, &e.CreatedAt, &e.Version); err != nil {
		return nil, err
	}

	query = `
		SELECT day, shift FROM employee_preferences WHERE employee_id = $1 ORDER BY position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day, shift string
		if err := rows.Scan(&day, &shift); err != nil {
			return nil, err
		}
		e.AddPreference(domain.Day(day), domain.Shift(shift))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return e, nil
}

func (r *Repository) CreateEmployee(e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO employees (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := tx.QueryRowContext(ctx, query, e.Name, e.Email).Scan(&e.ID, &e.CreatedAt, &e.Version); err != nil {
		return err
	}

	if err := insertPreferences(ctx, tx, e); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateEmployee 更新邮箱并整体替换偏好，version 不一致时返回 sql.ErrNoRows
func (r *Repository) UpdateEmployee(e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE employees
		SET email = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, e.Email, e.ID, e.Version).Scan(&e.Version); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM employee_preferences WHERE employee_id = $1`, e.ID); err != nil {
		return err
	}

	if err := insertPreferences(ctx, tx, e); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) DeleteEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}

// ImportEmployees 导入名单，已存在的同名员工会被覆盖偏好（邮箱为空时保留原邮箱）
func (r *Repository) ImportEmployees(employees []*domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO employees (name, email)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE employees.email END,
			version = employees.version + 1
		RETURNING id, email, created_at, version
	`

	for _, e := range employees {
		if err := tx.QueryRowContext(ctx, query, e.Name, e.Email).Scan(&e.ID, &e.Email, &e.CreatedAt, &e.Version); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM employee_preferences WHERE employee_id = $1`, e.ID); err != nil {
			return err
		}

		if err := insertPreferences(ctx, tx, e); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertPreferences(ctx context.Context, tx *sql.Tx, e *domain.Employee) error {
	query := `
		INSERT INTO employee_preferences (employee_id, position, day, shift)
		VALUES ($1, $2, $3, $4)
	`

	for i, p := range e.Preferences {
		if _, err := tx.ExecContext(ctx, query, e.ID, i, string(p.Day), string(p.Shift)); err != nil {
			return err
		}
	}

	return nil
}
