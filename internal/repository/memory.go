package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/user-service/internal/domain"
)

// memoryUserRepository is a map-backed UserRepository used by tests and by
// development runs without a configured database.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository instantiates the in-memory repository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, user.ID)
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memoryUserRepository) Count(_ context.Context, filter UserFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r *memoryUserRepository) Find(_ context.Context, filter UserFilter, spec SortSpec, offset, limit int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(filter)
	sortUsers(matched, spec)

	if offset >= len(matched) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memoryUserRepository) matching(filter UserFilter) []domain.User {
	matched := []domain.User{}
	for _, user := range r.users {
		if !matches(user, filter) {
			continue
		}
		matched = append(matched, user)
	}
	return matched
}

func matches(user domain.User, filter UserFilter) bool {
	if filter.Name != "" && !containsFold(user.Name, filter.Name) {
		return false
	}
	if filter.Email != "" && !containsFold(user.Email, filter.Email) {
		return false
	}
	if filter.Status != "" && user.Status != filter.Status {
		return false
	}
	if filter.CreatedAtStart != nil && user.CreatedAt.Before(*filter.CreatedAtStart) {
		return false
	}
	if filter.CreatedAtEnd != nil && !user.CreatedAt.Before(*filter.CreatedAtEnd) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortUsers(users []domain.User, spec SortSpec) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		cmp := compareByField(a, b, spec.Field)
		if cmp == 0 {
			return a.ID < b.ID
		}
		if spec.Direction == domain.SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareByField(a, b domain.User, field domain.SortField) int {
	switch field {
	case domain.SortFieldEmail:
		return strings.Compare(a.Email, b.Email)
	case domain.SortFieldStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case domain.SortFieldCreationDate:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}
