package model

type UpdateAccountRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type CreateChatRequest struct {
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

type UpdateChatRequest struct {
	ChatName *string `json:"chat_name"`
	OwnerID  *int64  `json:"owner_id"`
}

type CreateMessageRequest struct {
	Text      string `json:"text"`
	AccountID int64  `json:"account_id"`
}

type UpdateMessageRequest struct {
	Text string `json:"text"`
}

type AddMemberRequest struct {
	AccountID int64 `json:"account_id"`
}
