package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pony-express/internal/model"
)

type JoinRequestRepository struct {
	pool *pgxpool.Pool
}

func NewJoinRequestRepository(pool *pgxpool.Pool) *JoinRequestRepository {
	return &JoinRequestRepository{pool: pool}
}

func (r *JoinRequestRepository) Exists(ctx context.Context, senderID int64, chatID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM join_chat_requests WHERE sender_id = $1 AND chat_id = $2)`,
		senderID, chatID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check join request exists: %w", err)
	}
	return exists, nil
}

func (r *JoinRequestRepository) Create(ctx context.Context, req model.JoinChatRequest) (model.JoinChatRequest, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO join_chat_requests (sender_id, chat_id)
		 VALUES ($1, $2) RETURNING id`,
		req.SenderID, req.ChatID).Scan(&req.ID)
	if err != nil {
		return model.JoinChatRequest{}, fmt.Errorf("create join request: %w", err)
	}
	return req, nil
}
