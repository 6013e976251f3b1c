package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pony-express/internal/model"
	"pony-express/pkg/apierror"
)

// plainHasher avoids bcrypt so the service tests stay fast.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) { return "hash:" + password, nil }
func (plainHasher) CheckPassword(password string, hash string) bool {
	return "hash:"+password == hash
}

type fakeAccountStore struct {
	*fakeAccounts
	nextID int64
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{fakeAccounts: newFakeAccounts(), nextID: 1}
}

func (f *fakeAccountStore) Create(_ context.Context, a model.Account) (model.Account, error) {
	a.ID = f.nextID
	f.nextID++
	f.byID[a.ID] = a
	f.byUsername[a.Username] = a
	return a, nil
}

func (f *fakeAccountStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeAccountStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountStore) List(_ context.Context) ([]model.Account, error) {
	accounts := make([]model.Account, 0, len(f.byID))
	for _, a := range f.byID {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (f *fakeAccountStore) UpdateDetails(_ context.Context, id int64, username *string, email *string) (model.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return model.Account{}, apierror.EntityNotFound("account", id)
	}
	delete(f.byUsername, a.Username)
	if username != nil {
		a.Username = *username
	}
	if email != nil {
		a.Email = *email
	}
	f.byID[id] = a
	f.byUsername[a.Username] = a
	return a, nil
}

func (f *fakeAccountStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	a, ok := f.byID[id]
	if !ok {
		return apierror.EntityNotFound("account", id)
	}
	a.PasswordHash = passwordHash
	f.byID[id] = a
	f.byUsername[a.Username] = a
	return nil
}

func (f *fakeAccountStore) Delete(_ context.Context, id int64) error {
	a, ok := f.byID[id]
	if !ok {
		return apierror.EntityNotFound("account", id)
	}
	delete(f.byID, id)
	delete(f.byUsername, a.Username)
	return nil
}

type fakeOwnershipCounter struct {
	owned map[int64]int
}

func (f *fakeOwnershipCounter) CountOwnedBy(_ context.Context, accountID int64) (int, error) {
	return f.owned[accountID], nil
}

func newTestAccountService() (*AccountService, *fakeAccountStore, *fakeOwnershipCounter, *fakeMessageStore) {
	store := newFakeAccountStore()
	chats := &fakeOwnershipCounter{owned: map[int64]int{}}
	messages := newFakeMessageStore()
	return NewAccountService(store, chats, messages, plainHasher{}), store, chats, messages
}

func TestRegister(t *testing.T) {
	svc, store, _, _ := newTestAccountService()
	ctx := context.Background()

	account, err := svc.Register(ctx, "juniper", "juniper@email.com", "password4")
	require.NoError(t, err)
	require.Equal(t, int64(1), account.ID)
	require.Equal(t, "juniper", account.Username)
	require.Equal(t, "juniper@email.com", account.Email)
	require.Equal(t, "hash:password4", account.PasswordHash)

	stored, err := store.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, account, stored)
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "juniper", "juniper@email.com", "password4")
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "juniper", "other@email.com", "password4")
		requireErrorCode(t, err, "duplicate_entity_value")
		require.Contains(t, err.Error(), "username=juniper")
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "rose", "juniper@email.com", "password4")
		requireErrorCode(t, err, "duplicate_entity_value")
		require.Contains(t, err.Error(), "email=juniper@email.com")
	})

	t.Run("duplicate username wins over duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "juniper", "juniper@email.com", "password4")
		require.Contains(t, err.Error(), "username=juniper")
	})
}

func TestUpdateDetails(t *testing.T) {
	svc, _, _, _ := newTestAccountService()
	ctx := context.Background()

	juniper, err := svc.Register(ctx, "juniper", "juniper@email.com", "password4")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "rose", "rose@email.com", "password4")
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		email := "forest@email.com"
		updated, err := svc.UpdateDetails(ctx, juniper, nil, &email)
		require.NoError(t, err)
		require.Equal(t, "juniper", updated.Username)
		require.Equal(t, email, updated.Email)
	})

	t.Run("taken username rejected", func(t *testing.T) {
		username := "rose"
		_, err := svc.UpdateDetails(ctx, juniper, &username, nil)
		requireErrorCode(t, err, "duplicate_entity_value")
	})

	t.Run("taken email rejected", func(t *testing.T) {
		email := "rose@email.com"
		_, err := svc.UpdateDetails(ctx, juniper, nil, &email)
		requireErrorCode(t, err, "duplicate_entity_value")
	})
}

func TestUpdatePassword(t *testing.T) {
	svc, store, _, _ := newTestAccountService()
	ctx := context.Background()

	account, err := svc.Register(ctx, "juniper", "juniper@email.com", "password4")
	require.NoError(t, err)

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.UpdatePassword(ctx, account, "incorrect", "newpassword")
		requireErrorCode(t, err, "invalid_credentials")
	})

	t.Run("success replaces the hash", func(t *testing.T) {
		require.NoError(t, svc.UpdatePassword(ctx, account, "password4", "newpassword"))

		stored, err := store.FindByID(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, "hash:newpassword", stored.PasswordHash)
	})
}

func TestDeleteAccount(t *testing.T) {
	svc, store, chats, messages := newTestAccountService()
	ctx := context.Background()

	account, err := svc.Register(ctx, "juniper", "juniper@email.com", "password4")
	require.NoError(t, err)

	authored, err := messages.Create(ctx, model.Message{
		Text:      "hello",
		AccountID: &account.ID,
		ChatID:    1,
	})
	require.NoError(t, err)

	t.Run("chat owner cannot be deleted", func(t *testing.T) {
		chats.owned[account.ID] = 1
		err := svc.Delete(ctx, account)
		requireErrorCode(t, err, "chat_owner_removal")

		// The refusal happens before any message is touched.
		kept, err := messages.FindByID(ctx, authored.ID)
		require.NoError(t, err)
		require.NotNil(t, kept.AccountID)
	})

	t.Run("success detaches authored messages", func(t *testing.T) {
		chats.owned[account.ID] = 0
		require.NoError(t, svc.Delete(ctx, account))

		_, err := store.FindByID(ctx, account.ID)
		requireErrorCode(t, err, "entity_not_found")

		detached, err := messages.FindByID(ctx, authored.ID)
		require.NoError(t, err)
		require.Nil(t, detached.AccountID)
		require.Equal(t, "hello", detached.Text)
	})
}
