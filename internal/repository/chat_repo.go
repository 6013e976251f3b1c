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

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) List(ctx context.Context) ([]model.Chat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, owner_id FROM chats ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]model.Chat, 0)
	for rows.Next() {
		var c model.Chat
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) FindByID(ctx context.Context, id int64) (model.Chat, error) {
	var c model.Chat
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id FROM chats WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.OwnerID)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Chat{}, apierror.EntityNotFound("chat", id)
	}
	if err != nil {
		return model.Chat{}, fmt.Errorf("find chat by id: %w", err)
	}
	return c, nil
}

func (r *ChatRepository) FindByName(ctx context.Context, name string) (model.Chat, error) {
	var c model.Chat
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id FROM chats WHERE name = $1`, strings.TrimSpace(name)).
		Scan(&c.ID, &c.Name, &c.OwnerID)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Chat{}, apierror.New(404, "entity_not_found",
			fmt.Sprintf("Unable to find chat with name=%s", name))
	}
	if err != nil {
		return model.Chat{}, fmt.Errorf("find chat by name: %w", err)
	}
	return c, nil
}

func (r *ChatRepository) Create(ctx context.Context, c model.Chat) (model.Chat, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chats (name, owner_id) VALUES ($1, $2) RETURNING id`,
		c.Name, c.OwnerID).Scan(&c.ID)
	if err != nil {
		return model.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	return c, nil
}

func (r *ChatRepository) Update(ctx context.Context, c model.Chat) (model.Chat, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chats SET name = $2, owner_id = $3 WHERE id = $1`,
		c.ID, c.Name, c.OwnerID)
	if err != nil {
		return model.Chat{}, fmt.Errorf("update chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Chat{}, apierror.EntityNotFound("chat", c.ID)
	}
	return c, nil
}

// Delete removes the chat; messages and memberships cascade at the schema level.
func (r *ChatRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.EntityNotFound("chat", id)
	}
	return nil
}

func (r *ChatRepository) CountOwnedBy(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chats WHERE owner_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owned chats: %w", err)
	}
	return count, nil
}

func (r *ChatRepository) IsOwner(ctx context.Context, accountID int64, chatID int64) (bool, error) {
	var isOwner bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chats WHERE id = $1 AND owner_id = $2)`,
		chatID, accountID).Scan(&isOwner)
	if err != nil {
		return false, fmt.Errorf("check chat owner: %w", err)
	}
	return isOwner, nil
}

func (r *ChatRepository) IsMember(ctx context.Context, accountID int64, chatID int64) (bool, error) {
	var isMember bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chat_memberships WHERE account_id = $1 AND chat_id = $2)`,
		accountID, chatID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("check chat membership: %w", err)
	}
	return isMember, nil
}

func (r *ChatRepository) AddMember(ctx context.Context, accountID int64, chatID int64) (model.ChatMembership, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_memberships (account_id, chat_id) VALUES ($1, $2)`,
		accountID, chatID)
	if err != nil {
		return model.ChatMembership{}, fmt.Errorf("add chat member: %w", err)
	}
	return model.ChatMembership{AccountID: accountID, ChatID: chatID}, nil
}

func (r *ChatRepository) RemoveMember(ctx context.Context, accountID int64, chatID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM chat_memberships WHERE account_id = $1 AND chat_id = $2`,
		accountID, chatID)
	if err != nil {
		return fmt.Errorf("remove chat member: %w", err)
	}
	return nil
}

func (r *ChatRepository) ListMembers(ctx context.Context, chatID int64) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.username, a.email, a.hashed_password, a.created_at
		 FROM accounts a
		 JOIN chat_memberships m ON m.account_id = a.id
		 WHERE m.chat_id = $1
		 ORDER BY a.id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list chat members: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat member: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
