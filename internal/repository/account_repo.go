package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pony-express/internal/model"
	"pony-express/pkg/apierror"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (username, email, hashed_password)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.Username, a.Email, a.PasswordHash).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, hashed_password, created_at
		 FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, apierror.EntityNotFound("account", id)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find account by id: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, hashed_password, created_at
		 FROM accounts WHERE username = $1`, strings.TrimSpace(username)).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, apierror.New(404, "entity_not_found",
			fmt.Sprintf("Unable to find account with username=%s", username))
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find account by username: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`,
		strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, email, hashed_password, created_at
		 FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateDetails changes username and/or email; nil fields are left untouched.
func (r *AccountRepository) UpdateDetails(ctx context.Context, id int64, username *string, email *string) (model.Account, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts
		 SET username = COALESCE($2, username),
		     email = COALESCE($3, email)
		 WHERE id = $1`,
		id, username, email)
	if err != nil {
		return model.Account{}, fmt.Errorf("update account details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Account{}, apierror.EntityNotFound("account", id)
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET hashed_password = $2 WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.EntityNotFound("account", id)
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.EntityNotFound("account", id)
	}
	return nil
}
