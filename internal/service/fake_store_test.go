package service

import (
	"context"
	"sync"

	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/repository"
)

// fakeUserStore is an in-memory UserStore with the same conditional
// decrement semantics as the SQL implementation.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User

	consumeCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) ConsumeQuota(ctx context.Context, userID string, tier model.Tier) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.consumeCalls++

	user, ok := f.users[userID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}

	if tier == model.TierPro {
		if user.ProRemaining <= 0 {
			return 0, repository.ErrQuotaExhausted
		}
		user.ProRemaining--
		return user.ProRemaining, nil
	}

	if user.BasicRemaining <= 0 {
		return 0, repository.ErrQuotaExhausted
	}
	user.BasicRemaining--
	return user.BasicRemaining, nil
}

func (f *fakeUserStore) ResetQuotas(ctx context.Context, basicDefault, proDefault int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		user.BasicRemaining = basicDefault
		user.ProRemaining = proDefault
	}
	return int64(len(f.users)), nil
}

// addUser seeds a user directly, bypassing validation.
func (f *fakeUserStore) addUser(user *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
}

// quota reads a counter without going through the service under test.
func (f *fakeUserStore) quota(userID string, tier model.Tier) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].Remaining(tier)
}
