package dto

import (
	"time"

	"github.com/spec-kit/user-service/internal/domain"
)

// UserCreationRequest is the creation payload on both channels.
type UserCreationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUpdateRequest is the update payload on both channels. Status is the
// raw wire token; an empty value keeps the stored status.
type UserUpdateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// UserDeletionRequest is the deletion payload on the message channel. The
// HTTP channel carries the id in the path instead.
type UserDeletionRequest struct {
	ID string `json:"id"`
}

// UserUpdateMessage is the update payload on the message channel, which
// carries the target id inside the body.
type UserUpdateMessage struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ToUserResponse maps a domain user to its public representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserResponses maps a page of users.
func ToUserResponses(users []domain.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
