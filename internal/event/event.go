package event

type Type string

const (
	TypeChatCreated    Type = "chat.created"
	TypeChatUpdated    Type = "chat.updated"
	TypeChatDeleted    Type = "chat.deleted"
	TypeMemberJoined   Type = "chat.member_joined"
	TypeMemberLeft     Type = "chat.member_left"
	TypeMessageCreated Type = "message.created"
	TypeMessageUpdated Type = "message.updated"
	TypeMessageDeleted Type = "message.deleted"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   int64  `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
