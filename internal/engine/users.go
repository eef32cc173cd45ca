package engine

import (
	"github.com/google/uuid"

	"github.com/parkwell-gh/parkwell/internal/data"
	"github.com/parkwell-gh/parkwell/internal/store"
	"github.com/parkwell-gh/parkwell/internal/validator"
)

// CreateUser registers a user with an empty wallet and Bronze tier.
func (e *Engine) CreateUser(name, email string) (*data.User, error) {
	user := &data.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Tier:  data.TierBronze,
	}

	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, data.ErrInvalidDraft
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.retryPending()

	e.users[user.ID] = user
	e.persistPut(store.CollectionUsers, user.ID, user)

	return user.Clone(), nil
}

// User returns a deep copy of the user's committed state.
func (e *Engine) User(id string) (*data.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, ok := e.users[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return user.Clone(), nil
}
