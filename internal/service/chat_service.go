package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pony-express/internal/event"
	"pony-express/internal/model"
	"pony-express/pkg/apierror"
)

type ChatStore interface {
	List(ctx context.Context) ([]model.Chat, error)
	FindByID(ctx context.Context, id int64) (model.Chat, error)
	FindByName(ctx context.Context, name string) (model.Chat, error)
	Create(ctx context.Context, c model.Chat) (model.Chat, error)
	Update(ctx context.Context, c model.Chat) (model.Chat, error)
	Delete(ctx context.Context, id int64) error
	CountOwnedBy(ctx context.Context, accountID int64) (int, error)
	IsOwner(ctx context.Context, accountID int64, chatID int64) (bool, error)
	IsMember(ctx context.Context, accountID int64, chatID int64) (bool, error)
	AddMember(ctx context.Context, accountID int64, chatID int64) (model.ChatMembership, error)
	RemoveMember(ctx context.Context, accountID int64, chatID int64) error
	ListMembers(ctx context.Context, chatID int64) ([]model.Account, error)
}

type MessageStore interface {
	ListByChat(ctx context.Context, chatID int64) ([]model.Message, error)
	FindByID(ctx context.Context, id int64) (model.Message, error)
	Create(ctx context.Context, m model.Message) (model.Message, error)
	UpdateText(ctx context.Context, id int64, text string) (model.Message, error)
	Delete(ctx context.Context, id int64) error
	DetachAccount(ctx context.Context, accountID int64) error
}

type JoinRequestStore interface {
	Exists(ctx context.Context, senderID int64, chatID int64) (bool, error)
	Create(ctx context.Context, req model.JoinChatRequest) (model.JoinChatRequest, error)
}

type ChatService struct {
	chats    ChatStore
	messages MessageStore
	accounts AccountFinder
	requests JoinRequestStore
	bus      event.Bus
}

func NewChatService(chats ChatStore, messages MessageStore, accounts AccountFinder, requests JoinRequestStore, bus event.Bus) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		accounts: accounts,
		requests: requests,
		bus:      bus,
	}
}

func (s *ChatService) List(ctx context.Context) ([]model.Chat, error) {
	return s.chats.List(ctx)
}

func (s *ChatService) GetByID(ctx context.Context, chatID int64) (model.Chat, error) {
	return s.chats.FindByID(ctx, chatID)
}

func (s *ChatService) Messages(ctx context.Context, chatID int64) ([]model.Message, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return nil, err
	}
	return s.messages.ListByChat(ctx, chatID)
}

func (s *ChatService) Members(ctx context.Context, chatID int64) ([]model.Account, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return nil, err
	}
	return s.chats.ListMembers(ctx, chatID)
}

// Create adds a chat owned by the actor and enrolls the owner as its first
// member. The actor cannot create a chat on behalf of another account.
func (s *ChatService) Create(ctx context.Context, actor model.Account, name string, ownerID int64) (model.Chat, error) {
	if _, err := s.chats.FindByName(ctx, name); err == nil {
		return model.Chat{}, apierror.DuplicateValue("chat", "name", name)
	} else if !apierror.IsNotFound(err) {
		return model.Chat{}, err
	}

	if ownerID != actor.ID {
		return model.Chat{}, apierror.AccessDenied("Cannot create chat on behalf of different account")
	}

	chat, err := s.chats.Create(ctx, model.Chat{Name: name, OwnerID: ownerID})
	if err != nil {
		return model.Chat{}, err
	}

	if _, err := s.chats.AddMember(ctx, ownerID, chat.ID); err != nil {
		return model.Chat{}, err
	}

	s.publish(event.TypeChatCreated, actor.ID, chat)
	return chat, nil
}

func (s *ChatService) Update(ctx context.Context, chatID int64, name *string, ownerID *int64) (model.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return model.Chat{}, err
	}

	if name != nil {
		existing, err := s.chats.FindByName(ctx, *name)
		if err == nil && existing.ID != chatID {
			return model.Chat{}, apierror.DuplicateValue("chat", "name", *name)
		}
		if err != nil && !apierror.IsNotFound(err) {
			return model.Chat{}, err
		}
		chat.Name = *name
	}
	if ownerID != nil {
		chat.OwnerID = *ownerID
	}

	updated, err := s.chats.Update(ctx, chat)
	if err != nil {
		return model.Chat{}, err
	}

	s.publish(event.TypeChatUpdated, 0, updated)
	return updated, nil
}

func (s *ChatService) Delete(ctx context.Context, chatID int64) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}

	if err := s.chats.Delete(ctx, chatID); err != nil {
		return err
	}

	s.publish(event.TypeChatDeleted, 0, chat)
	return nil
}

// PostMessage creates a message in the chat. The author must be a member and
// must be the authenticated actor; those checks run in that order so the
// reported failure matches the first violated rule.
func (s *ChatService) PostMessage(ctx context.Context, actor model.Account, chatID int64, authorID int64, text string) (model.Message, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return model.Message{}, err
	}

	member, err := s.chats.IsMember(ctx, authorID, chatID)
	if err != nil {
		return model.Message{}, err
	}
	if !member {
		return model.Message{}, apierror.MembershipRequired(authorID, chatID)
	}

	if authorID != actor.ID {
		return model.Message{}, apierror.AccessDenied("Cannot create message on behalf of different account")
	}

	message, err := s.messages.Create(ctx, model.Message{
		Text:      text,
		AccountID: &authorID,
		ChatID:    chatID,
	})
	if err != nil {
		return model.Message{}, err
	}

	s.publish(event.TypeMessageCreated, actor.ID, message)
	return message, nil
}

func (s *ChatService) UpdateMessage(ctx context.Context, chatID int64, messageID int64, text string) (model.Message, error) {
	message, err := s.findChatMessage(ctx, chatID, messageID)
	if err != nil {
		return model.Message{}, err
	}

	updated, err := s.messages.UpdateText(ctx, message.ID, text)
	if err != nil {
		return model.Message{}, err
	}

	s.publish(event.TypeMessageUpdated, 0, updated)
	return updated, nil
}

func (s *ChatService) DeleteMessage(ctx context.Context, chatID int64, messageID int64) error {
	message, err := s.findChatMessage(ctx, chatID, messageID)
	if err != nil {
		return err
	}

	if err := s.messages.Delete(ctx, message.ID); err != nil {
		return err
	}

	s.publish(event.TypeMessageDeleted, 0, message)
	return nil
}

// AddMember enrolls the account in the chat. Adding an existing member is a
// no-op reported to the caller via alreadyMember.
func (s *ChatService) AddMember(ctx context.Context, chatID int64, accountID int64) (membership model.ChatMembership, alreadyMember bool, err error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return model.ChatMembership{}, false, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return model.ChatMembership{}, false, err
	}

	member, err := s.chats.IsMember(ctx, account.ID, chatID)
	if err != nil {
		return model.ChatMembership{}, false, err
	}
	if member {
		return model.ChatMembership{AccountID: account.ID, ChatID: chatID}, true, nil
	}

	membership, err = s.chats.AddMember(ctx, account.ID, chatID)
	if err != nil {
		return model.ChatMembership{}, false, err
	}

	s.publish(event.TypeMemberJoined, 0, membership)
	return membership, false, nil
}

// RemoveMember takes the account out of the chat. The owner cannot be
// removed, and the departing member's messages are detached, not deleted.
func (s *ChatService) RemoveMember(ctx context.Context, chatID int64, accountID int64) error {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return apierror.MembershipRequired(accountID, chatID)
	}

	member, err := s.chats.IsMember(ctx, account.ID, chatID)
	if err != nil {
		return err
	}
	if !member {
		return apierror.MembershipRequired(accountID, chatID)
	}

	owner, err := s.chats.IsOwner(ctx, account.ID, chatID)
	if err != nil {
		return err
	}
	if owner {
		return apierror.ChatOwnerRemoval()
	}

	if err := s.messages.DetachAccount(ctx, account.ID); err != nil {
		return err
	}
	if err := s.chats.RemoveMember(ctx, account.ID, chatID); err != nil {
		return err
	}

	s.publish(event.TypeMemberLeft, 0, model.ChatMembership{AccountID: account.ID, ChatID: chatID})
	return nil
}

// CreateJoinRequest records the actor's request to join the chat. All
// conflict checks run before the insert: unknown chat, duplicate request,
// existing membership.
func (s *ChatService) CreateJoinRequest(ctx context.Context, actor model.Account, chatID int64) (model.JoinChatRequest, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return model.JoinChatRequest{}, err
	}

	exists, err := s.requests.Exists(ctx, actor.ID, chatID)
	if err != nil {
		return model.JoinChatRequest{}, err
	}
	if exists {
		return model.JoinChatRequest{}, apierror.DuplicateJoinRequest(actor.ID, chatID)
	}

	member, err := s.chats.IsMember(ctx, actor.ID, chatID)
	if err != nil {
		return model.JoinChatRequest{}, err
	}
	if member {
		return model.JoinChatRequest{}, apierror.AlreadyChatMember(actor.ID, chatID)
	}

	return s.requests.Create(ctx, model.JoinChatRequest{SenderID: actor.ID, ChatID: chatID})
}

// findChatMessage resolves a message scoped to a chat. A message that exists
// but lives in a different chat reads as not found.
func (s *ChatService) findChatMessage(ctx context.Context, chatID int64, messageID int64) (model.Message, error) {
	if _, err := s.chats.FindByID(ctx, chatID); err != nil {
		return model.Message{}, err
	}

	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil || message.ChatID != chatID {
		return model.Message{}, apierror.EntityNotFound("message", messageID)
	}
	return message, nil
}

func (s *ChatService) publish(t event.Type, actorID int64, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ActorID:   actorID,
	})
}
