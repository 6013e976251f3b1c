package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pony-express/internal/model"
	"pony-express/pkg/apierror"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID int64) ([]model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, text, account_id, chat_id, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.AccountID, &m.ChatID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (model.Message, error) {
	var m model.Message
	err := r.pool.QueryRow(ctx,
		`SELECT id, text, account_id, chat_id, created_at
		 FROM messages WHERE id = $1`, id).
		Scan(&m.ID, &m.Text, &m.AccountID, &m.ChatID, &m.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Message{}, apierror.EntityNotFound("message", id)
	}
	if err != nil {
		return model.Message{}, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}

func (r *MessageRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (text, account_id, chat_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.Text, m.AccountID, m.ChatID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

func (r *MessageRepository) UpdateText(ctx context.Context, id int64, text string) (model.Message, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET text = $2 WHERE id = $1`, id, text)
	if err != nil {
		return model.Message{}, fmt.Errorf("update message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Message{}, apierror.EntityNotFound("message", id)
	}
	return r.FindByID(ctx, id)
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.EntityNotFound("message", id)
	}
	return nil
}

// DetachAccount nulls the author on every message the account wrote. Used when
// a member leaves a chat so their messages survive without an owner.
func (r *MessageRepository) DetachAccount(ctx context.Context, accountID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET account_id = NULL WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("detach account messages: %w", err)
	}
	return nil
}
