package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService orchestrates the user lifecycle: it owns validation, identity
// assignment and timestamp stamping, persists through the repository and
// notifies after every committed write. Search requests delegate to the
// search service.
type UserService struct {
	users    repository.UserRepository
	notifier events.Notifier
	search   *SearchService
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
	Notifier events.Notifier
	Search   *SearchService
}

// UserCreateInput describes a creation payload. Status is not accepted;
// every user starts ACTIVE.
type UserCreateInput struct {
	Name  string
	Email string
}

// UserUpdateInput describes an update payload. An empty Status keeps the
// stored value.
type UserUpdateInput struct {
	Name   string
	Email  string
	Status string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:    deps.UserRepo,
		notifier: deps.Notifier,
		search:   deps.Search,
	}
}

// Create validates and stores a new user, then notifies its creation.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if err := validateRequiredFields(input.Name, input.Email); err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Status:    domain.UserStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.notifier.NotifyCreated(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update overwrites name and email of an existing user, moves status only
// when one is supplied, stamps updated_at and notifies the update.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateRequiredFields(input.Name, input.Email); err != nil {
		return nil, err
	}
	status, err := domain.ParseUserStatus(input.Status)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	if status != "" {
		user.Status = status
	}
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.notifier.NotifyUpdated(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an existing user and notifies the deletion with the
// pre-delete representation.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, user); err != nil {
		return err
	}
	return s.notifier.NotifyDeleted(user)
}

// FindByID loads a user or fails with a not-found error.
func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("User not found")
	}
	return user, nil
}

// FindAll executes a search specification.
func (s *UserService) FindAll(ctx context.Context, search *domain.UserSearch) (*domain.SearchResult, error) {
	return s.search.FindAll(ctx, search)
}

// validateRequiredFields reports the first offending field in declaration
// order: name, then email.
func validateRequiredFields(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewRequiredFieldError("name")
	}
	if strings.TrimSpace(email) == "" {
		return apperrors.NewRequiredFieldError("email")
	}
	if !emailPattern.MatchString(email) {
		return apperrors.NewInvalidFieldError("email")
	}
	return nil
}
