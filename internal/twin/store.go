// Package twin implements an in-memory stand-in for the upstream admin API.
package twin

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/unifiedui/admin-console/internal/domain/models"
)

// User is a user held by the twin.
type User struct {
	ID            string                         `json:"id"`
	Email         string                         `json:"email"`
	Features      map[string]models.FeatureValue `json:"features"`
	Subscriptions []string                       `json:"subscriptions,omitempty"`
	TokenBalance  int                            `json:"tokenBalance"`
}

// Seed is the fixture format accepted by LoadState.
type Seed struct {
	Users []User `json:"users"`
}

// MemoryStore holds the twin's users.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// AddUser creates a user with a generated ID. The UserId and Email features are
// filled in the way the real API reports them.
func (s *MemoryStore) AddUser(email string, features map[string]models.FeatureValue) User {
	return s.put(User{ID: uuid.NewString(), Email: email, Features: features})
}

// LoadState replaces the store content with a JSON seed.
func (s *MemoryStore) LoadState(data []byte) error {
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed: %w", err)
	}

	s.Reset()
	for _, u := range seed.Users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		s.put(u)
	}
	return nil
}

// Reset removes every user.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
}

// Snapshot returns copies of all users.
func (s *MemoryStore) Snapshot() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, copyUser(u))
	}
	return out
}

// Get returns a copy of the user with id.
func (s *MemoryStore) Get(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	return copyUser(u), true
}

// FindByEmail returns the ID of the user with email, compared case-insensitively.
func (s *MemoryStore) FindByEmail(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u.ID, true
		}
	}
	return "", false
}

// MergeFeatures writes features into the user's feature set.
func (s *MemoryStore) MergeFeatures(id string, features map[string]models.FeatureValue) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false
	}
	for k, v := range features {
		u.Features[k] = v
	}
	return true
}

// GrantSubscription records a product subscription.
func (s *MemoryStore) GrantSubscription(id, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.Subscriptions = append(u.Subscriptions, productID)
	return true
}

// SetTokenBalance sets the token balance.
func (s *MemoryStore) SetTokenBalance(id string, amount int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false
	}
	u.TokenBalance = amount
	return true
}

func (s *MemoryStore) put(u User) User {
	features := make(map[string]models.FeatureValue, len(u.Features)+2)
	for k, v := range u.Features {
		features[k] = v
	}
	features["UserId"] = models.Text(u.ID)
	if u.Email != "" {
		features[models.EmailFeatureKey] = models.Text(u.Email)
	}
	u.Features = features

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := u
	s.users[u.ID] = &stored
	return copyUser(&stored)
}

func copyUser(u *User) User {
	out := *u
	out.Features = make(map[string]models.FeatureValue, len(u.Features))
	for k, v := range u.Features {
		out.Features[k] = v
	}
	out.Subscriptions = append([]string(nil), u.Subscriptions...)
	return out
}
