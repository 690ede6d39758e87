package repositories

import (
	"context"
	"errors"

	"preppulse/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when a user with the email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	EnsureFirstLogin(ctx context.Context, email string) error
	GetFirstLogin(ctx context.Context, email string) (*models.FirstLogin, error)
	DisplayNames(ctx context.Context) (map[string]string, error)
}

type userRepo struct {
	db Database
}

func NewUserRepository(db Database) UserRepository {
	return &userRepo{db: db}
}

// Create inserts the user together with its first-login record.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (full_name, email, password_hash, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at
		`
		if err := tx.QueryRow(ctx, query, user.FullName, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO first_login (email, completed)
			VALUES ($1, FALSE)
			ON CONFLICT (email) DO NOTHING
		`, user.Email)
		return err
	})
	return uniqueViolation(err, ErrDuplicateEmail)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, full_name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) EnsureFirstLogin(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO first_login (email, completed)
		VALUES ($1, FALSE)
		ON CONFLICT (email) DO NOTHING
	`, email)
	return err
}

func (r *userRepo) GetFirstLogin(ctx context.Context, email string) (*models.FirstLogin, error) {
	fl := &models.FirstLogin{}
	query := `
		SELECT id, email, completed, created_at, updated_at
		FROM first_login
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&fl.ID, &fl.Email, &fl.Completed, &fl.CreatedAt, &fl.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return fl, nil
}

// DisplayNames maps every user's email to their full name.
func (r *userRepo) DisplayNames(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT email, full_name FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var email, name string
		if err := rows.Scan(&email, &name); err != nil {
			return nil, err
		}
		names[email] = name
	}
	return names, rows.Err()
}

func uniqueViolation(err, sentinel error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return sentinel
	}
	return err
}
