package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func (r *Repository) InsertSchedule(result *domain.ScheduleResult) error {
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
		INSERT INTO schedules (run_id, target_staffing, max_days_per_week)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{result.RunID, result.TargetStaffing, result.MaxDaysPerWeek}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&result.ID, &result.CreatedAt, &result.Version); err != nil {
		return err
	}

	for i, cell := range result.Cells {
		query := `
			INSERT INTO schedule_cells (schedule_id, position, day, shift)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		var cellID int64
		if err := tx.QueryRowContext(ctx, query, result.ID, i, string(cell.Day), string(cell.Shift)).Scan(&cellID); err != nil {
			return err
		}

		for j, name := range cell.Employees {
			query := `
				INSERT INTO schedule_cell_employees (cell_id, position, employee_name)
				VALUES ($1, $2, $3)
			`

			if _, err := tx.ExecContext(ctx, query, cellID, j, name); err != nil {
				return err
			}
		}
	}

	for i, summary := range result.Summary {
		query := `
			INSERT INTO schedule_summaries (schedule_id, position, employee_name, working_days)
			VALUES ($1, $2, $3, $4)
		`

		if _, err := tx.ExecContext(ctx, query, result.ID, i, summary.Name, summary.WorkingDays); err != nil {
			return err
		}
	}

	for i, v := range result.Violations {
		query := `
			INSERT INTO schedule_violations (schedule_id, position, kind, employee_name, day, shift, count, message)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		args := []any{result.ID, i, string(v.Kind), v.Employee, string(v.Day), string(v.Shift), v.Count, v.Message}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetLatestScheduleID() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id int64
	query := `SELECT id FROM schedules ORDER BY created_at DESC, id DESC LIMIT 1`
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *Repository) GetAllScheduleMetas() ([]*domain.ScheduleMeta, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT s.id, s.run_id, s.target_staffing, s.max_days_per_week, s.created_at, COUNT(sv.position)
		FROM schedules s
		LEFT JOIN schedule_violations sv ON s.id = sv.schedule_id
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metas := make([]*domain.ScheduleMeta, 0)
	for rows.Next() {
		meta := &domain.ScheduleMeta{}
		dst := []any{&meta.ID, &meta.RunID, &meta.TargetStaffing, &meta.MaxDaysPerWeek, &meta.CreatedAt, &meta.ViolationCount}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metas, nil
}

// GetScheduleByID 读取完整的排班结果，不存在时返回 sql.ErrNoRows
func (r *Repository) GetScheduleByID(id int64) (*domain.ScheduleResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result := &domain.ScheduleResult{
		ID:         id,
		Cells:      make([]domain.ScheduleCell, 0),
		Summary:    make([]domain.EmployeeSummary, 0),
		Violations: make([]domain.Violation, 0),
	}

	query := `
		SELECT run_id, target_staffing, max_days_per_week, created_at, version
		FROM schedules WHERE id = $1
	`

	dst := []any{&result.RunID, &result.TargetStaffing, &result.MaxDaysPerWeek, &result.CreatedAt, &result.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.scanScheduleCells(ctx, result); err != nil {
		return nil, err
	}
	if err := r.scanScheduleSummaries(ctx, result); err != nil {
		return nil, err
	}
	if err := r.scanScheduleViolations(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Repository) scanScheduleCells(ctx context.Context, result *domain.ScheduleResult) error {
	query := `
		SELECT sc.id, sc.day, sc.shift, sce.employee_name
		FROM schedule_cells sc
		LEFT JOIN schedule_cell_employees sce ON sc.id = sce.cell_id
		WHERE sc.schedule_id = $1
		ORDER BY sc.position, sce.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, result.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var lastCellID int64 = -1
	for rows.Next() {
		var row struct {
			cellID int64
			day    string
			shift  string
			name   sql.NullString
		}

		if err := rows.Scan(&row.cellID, &row.day, &row.shift, &row.name); err != nil {
			return err
		}

		if row.cellID != lastCellID {
			result.Cells = append(result.Cells, domain.ScheduleCell{
				Day:       domain.Day(row.day),
				Shift:     domain.Shift(row.shift),
				Employees: make([]string, 0),
			})
			lastCellID = row.cellID
		}

		// 说明这个格子没有任何员工
		if !row.name.Valid {
			continue
		}

		last := &result.Cells[len(result.Cells)-1]
		last.Employees = append(last.Employees, row.name.String)
	}

	return rows.Err()
}

func (r *Repository) scanScheduleSummaries(ctx context.Context, result *domain.ScheduleResult) error {
	query := `
		SELECT employee_name, working_days
		FROM schedule_summaries
		WHERE schedule_id = $1
		ORDER BY position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, result.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		summary := domain.EmployeeSummary{
			Shifts: make(map[domain.Day]domain.Shift),
		}
		if err := rows.Scan(&summary.Name, &summary.WorkingDays); err != nil {
			return err
		}
		result.Summary = append(result.Summary, summary)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	// 每个人具体上哪些班次可以从格子中还原出来
	index := make(map[string]int, len(result.Summary))
	for i, summary := range result.Summary {
		index[summary.Name] = i
	}
	for _, cell := range result.Cells {
		for _, name := range cell.Employees {
			if i, exists := index[name]; exists {
				result.Summary[i].Shifts[cell.Day] = cell.Shift
			}
		}
	}

	return nil
}

func (r *Repository) scanScheduleViolations(ctx context.Context, result *domain.ScheduleResult) error {
	query := `
		SELECT kind, employee_name, day, shift, count, message
		FROM schedule_violations
		WHERE schedule_id = $1
		ORDER BY position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, result.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			kind, employee, day, shift, message string
			count                               int
		}

		if err := rows.Scan(&row.kind, &row.employee, &row.day, &row.shift, &row.count, &row.message); err != nil {
			return err
		}

		result.Violations = append(result.Violations, domain.Violation{
			Kind:     domain.ViolationKind(row.kind),
			Employee: row.employee,
			Day:      domain.Day(row.day),
			Shift:    domain.Shift(row.shift),
			Count:    row.count,
			Message:  row.message,
		})
	}

	return rows.Err()
}
