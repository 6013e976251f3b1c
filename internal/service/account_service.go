package service

import (
	"context"

	"pony-express/internal/model"
	"pony-express/pkg/apierror"
)

type AccountStore interface {
	AccountFinder
	Create(ctx context.Context, a model.Account) (model.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]model.Account, error)
	UpdateDetails(ctx context.Context, id int64, username *string, email *string) (model.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type passwordHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(password string, hash string) bool
}

type chatOwnershipCounter interface {
	CountOwnedBy(ctx context.Context, accountID int64) (int, error)
}

type messageDetacher interface {
	DetachAccount(ctx context.Context, accountID int64) error
}

type AccountService struct {
	accounts AccountStore
	chats    chatOwnershipCounter
	messages messageDetacher
	hasher   passwordHasher
}

func NewAccountService(accounts AccountStore, chats chatOwnershipCounter, messages messageDetacher, hasher passwordHasher) *AccountService {
	return &AccountService{accounts: accounts, chats: chats, messages: messages, hasher: hasher}
}

// Register creates an account with a hashed password. Username and email must
// both be globally unique; the colliding field is named in the error.
func (s *AccountService) Register(ctx context.Context, username string, email string, password string) (model.Account, error) {
	taken, err := s.accounts.ExistsByUsername(ctx, username)
	if err != nil {
		return model.Account{}, err
	}
	if taken {
		return model.Account{}, apierror.DuplicateValue("account", "username", username)
	}

	taken, err = s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return model.Account{}, err
	}
	if taken {
		return model.Account{}, apierror.DuplicateValue("account", "email", email)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return model.Account{}, err
	}

	return s.accounts.Create(ctx, model.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
}

func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) GetByID(ctx context.Context, id int64) (model.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// UpdateDetails changes the username and/or email of the account. Nil fields
// are left as they are; non-nil fields must not collide with another account.
func (s *AccountService) UpdateDetails(ctx context.Context, account model.Account, username *string, email *string) (model.Account, error) {
	if username != nil {
		taken, err := s.accounts.ExistsByUsername(ctx, *username)
		if err != nil {
			return model.Account{}, err
		}
		if taken {
			return model.Account{}, apierror.DuplicateValue("account", "username", *username)
		}
	}

	if email != nil {
		taken, err := s.accounts.ExistsByEmail(ctx, *email)
		if err != nil {
			return model.Account{}, err
		}
		if taken {
			return model.Account{}, apierror.DuplicateValue("account", "email", *email)
		}
	}

	return s.accounts.UpdateDetails(ctx, account.ID, username, email)
}

// UpdatePassword replaces the account's password after verifying the old one.
// A wrong old password reads as invalid_credentials, same as a failed login.
func (s *AccountService) UpdatePassword(ctx context.Context, account model.Account, oldPassword string, newPassword string) error {
	if !s.hasher.CheckPassword(oldPassword, account.PasswordHash) {
		return apierror.InvalidCredentials()
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.accounts.UpdatePassword(ctx, account.ID, hash)
}

// Delete removes the account unless it still owns a chat. Messages the
// account authored are detached first and stay in their chats without an
// author, matching what happens when a member leaves a chat.
func (s *AccountService) Delete(ctx context.Context, account model.Account) error {
	owned, err := s.chats.CountOwnedBy(ctx, account.ID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return apierror.ChatOwnerRemoval()
	}

	if err := s.messages.DetachAccount(ctx, account.ID); err != nil {
		return err
	}

	return s.accounts.Delete(ctx, account.ID)
}
