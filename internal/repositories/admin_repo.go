package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"preppulse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrUnknownTable is returned for table names that are not in the public schema.
var ErrUnknownTable = errors.New("unknown table")

const tableRowLimit = 500

// userTables lists every table keyed by a user's email, children first.
var userTables = []string{
	"habit_logs", "habits", "mock_tests", "resumes",
	"skill_checklists", "onboarding_responses", "first_login", "users",
}

// AdminRepository is the trusted, unscoped view of the store used by the
// admin console. Raw and identifier-built SQL is confined to this type.
type AdminRepository interface {
	ListUsers(ctx context.Context) ([]*models.AdminUser, error)
	UserDetails(ctx context.Context, email string) (*models.AdminUserDetails, error)
	Stats(ctx context.Context) (*models.AdminStats, error)

	// DeleteUser removes every row owned by email and returns the storage
	// paths of the user's resumes.
	DeleteUser(ctx context.Context, email string) ([]string, error)
	UpdateUser(ctx context.Context, email, fullName, newEmail string) error

	TableNames(ctx context.Context) ([]string, error)
	TableRows(ctx context.Context, table string) (*models.QueryResult, error)
	DeleteRow(ctx context.Context, table string, id int64) (int64, error)
	RunQuery(ctx context.Context, sql string) (*models.QueryResult, error)
}

type adminRepo struct {
	db         Database
	users      UserRepository
	onboarding OnboardingRepository
	checklists ChecklistRepository
	mockTests  MockTestRepository
	habits     HabitRepository
}

func NewAdminRepository(db Database) AdminRepository {
	return &adminRepo{
		db:         db,
		users:      NewUserRepository(db),
		onboarding: NewOnboardingRepository(db),
		checklists: NewChecklistRepository(db),
		mockTests:  NewMockTestRepository(db),
		habits:     NewHabitRepository(db),
	}
}

func (r *adminRepo) ListUsers(ctx context.Context) ([]*models.AdminUser, error) {
	query := `
		SELECT u.id, u.full_name, u.email, u.created_at, o.department, o.overall_score, COALESCE(f.completed, FALSE)
		FROM users u
		LEFT JOIN onboarding_responses o ON o.email = u.email
		LEFT JOIN first_login f ON f.email = u.email
		ORDER BY u.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.AdminUser{}
	for rows.Next() {
		u := &models.AdminUser{}
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.CreatedAt, &u.Department, &u.OverallScore, &u.OnboardingDone); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *adminRepo) UserDetails(ctx context.Context, email string) (*models.AdminUserDetails, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	details := &models.AdminUserDetails{User: user}

	if details.Onboarding, err = optional(r.onboarding.Get(ctx, email)); err != nil {
		return nil, err
	}
	if details.FirstLogin, err = optional(r.users.GetFirstLogin(ctx, email)); err != nil {
		return nil, err
	}
	data, err := r.checklists.Get(ctx, email)
	switch {
	case err == nil && json.Valid([]byte(data)):
		details.Checklist = json.RawMessage(data)
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}
	if details.MockTests, err = r.mockTests.List(ctx, email); err != nil {
		return nil, err
	}
	if details.Resumes, err = listResumeSummaries(ctx, r.db, email); err != nil {
		return nil, err
	}
	if details.Habits, err = r.habits.List(ctx, email); err != nil {
		return nil, err
	}
	return details, nil
}

func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func (r *adminRepo) Stats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{Departments: []models.DepartmentCount{}}
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM resumes),
			(SELECT COUNT(*) FROM mock_tests),
			(SELECT COUNT(*) FROM habits),
			(SELECT COUNT(*) FROM first_login WHERE completed),
			COALESCE((SELECT ROUND(AVG(ats_score)::numeric, 1)::float8 FROM resumes WHERE ats_score IS NOT NULL), 0),
			COALESCE((SELECT ROUND(AVG(overall_score)::numeric, 1)::float8 FROM onboarding_responses), 0)
	`
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalUsers, &stats.TotalResumes, &stats.TotalMockTests,
		&stats.TotalHabits, &stats.Onboarded, &stats.AvgATS, &stats.AvgOnboarding)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT department, COUNT(*) AS cnt
		FROM onboarding_responses
		GROUP BY department
		ORDER BY cnt DESC, department
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d models.DepartmentCount
		if err := rows.Scan(&d.Department, &d.Count); err != nil {
			return nil, err
		}
		stats.Departments = append(stats.Departments, d)
	}
	return stats, rows.Err()
}

func (r *adminRepo) DeleteUser(ctx context.Context, email string) ([]string, error) {
	var paths []string
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT file_path FROM resumes WHERE email = $1`, email)
		if err != nil {
			return err
		}
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return err
			}
			paths = append(paths, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		var removedUser bool
		for _, table := range userTables {
			tag, err := tx.Exec(ctx, `DELETE FROM `+pgx.Identifier{table}.Sanitize()+` WHERE email = $1`, email)
			if err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
			if table == "users" {
				removedUser = tag.RowsAffected() > 0
			}
		}
		if !removedUser {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// UpdateUser renames the user and, when newEmail differs, moves every row the
// user owns to the new email. Empty arguments leave the field unchanged.
func (r *adminRepo) UpdateUser(ctx context.Context, email, fullName, newEmail string) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}

		if fullName != "" {
			if _, err := tx.Exec(ctx, `UPDATE users SET full_name = $1 WHERE email = $2`, fullName, email); err != nil {
				return err
			}
		}
		if newEmail == "" || newEmail == email {
			return nil
		}
		for i := len(userTables) - 1; i >= 0; i-- {
			table := userTables[i]
			query := `UPDATE ` + pgx.Identifier{table}.Sanitize() + ` SET email = $1 WHERE email = $2`
			if _, err := tx.Exec(ctx, query, newEmail, email); err != nil {
				return fmt.Errorf("update %s: %w", table, err)
			}
		}
		return nil
	})
	return uniqueViolation(err, ErrDuplicateEmail)
}

func (r *adminRepo) TableNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *adminRepo) requireTable(ctx context.Context, table string) error {
	names, err := r.TableNames(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

func (r *adminRepo) TableRows(ctx context.Context, table string) (*models.QueryResult, error) {
	if err := r.requireTable(ctx, table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s LIMIT %d`, pgx.Identifier{table}.Sanitize(), tableRowLimit)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

func (r *adminRepo) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	if err := r.requireTable(ctx, table); err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM `+pgx.Identifier{table}.Sanitize()+` WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RunQuery executes a single statement. Row-returning statements are
// collected; anything else reports the number of rows changed.
func (r *adminRepo) RunQuery(ctx context.Context, sql string) (*models.QueryResult, error) {
	if returnsRows(sql) {
		rows, err := r.db.Query(ctx, sql)
		if err != nil {
			return nil, err
		}
		return collectRows(rows)
	}

	tag, err := r.db.Exec(ctx, sql)
	if err != nil {
		return nil, err
	}
	return &models.QueryResult{Columns: []string{}, Rows: []map[string]any{}, Affected: tag.RowsAffected()}, nil
}

func returnsRows(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE":
		return true
	}
	return false
}

func collectRows(rows pgx.Rows) (*models.QueryResult, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &models.QueryResult{Columns: make([]string, len(fields)), Rows: []map[string]any{}}
	for i, f := range fields {
		result.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(values))
		for i, v := range values {
			row[result.Columns[i]] = jsonValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.Affected = int64(len(result.Rows))
	return result, nil
}

// jsonValue converts driver values that do not encode cleanly to JSON.
func jsonValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(t).String()
	case []byte:
		return string(t)
	default:
		return v
	}
}
