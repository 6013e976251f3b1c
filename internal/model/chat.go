package model

import "time"

type Chat struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// Message.AccountID is a pointer because removing a member from a chat
// detaches their messages rather than deleting them.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	AccountID *int64    `json:"account_id"`
	ChatID    int64     `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMembership struct {
	AccountID int64 `json:"account_id"`
	ChatID    int64 `json:"chat_id"`
}

type JoinChatRequest struct {
	ID       int64 `json:"-"`
	SenderID int64 `json:"sender_id"`
	ChatID   int64 `json:"chat_id"`
}
