package events

import (
	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// EventName identifies a published event.
type EventName string

const (
	EventUserCreation       EventName = "UserCreation"
	EventUserUpdate         EventName = "UserUpdate"
	EventUserDeletion       EventName = "UserDeletion"
	EventUserOperationError EventName = "UserOperationError"
)

// Envelope header attribute names, shared by publisher and subscriber.
const (
	HeaderEventName = "event_name"
	HeaderAppID     = "app_id"
)

// Headers carries envelope metadata for a published message.
type Headers struct {
	EventName EventName `json:"event_name"`
	AppID     string    `json:"app_id"`
}

// Envelope is the wire format of every published message.
type Envelope struct {
	Headers Headers `json:"headers"`
	Payload any     `json:"payload"`
}

// Notifier publishes lifecycle events. Implementations must only be invoked
// after the corresponding storage write has committed; a publish failure
// surfaces to the caller unmodified.
type Notifier interface {
	NotifyCreated(user *domain.User) error
	NotifyUpdated(user *domain.User) error
	NotifyDeleted(user *domain.User) error
	NotifyOperationError(response *apperrors.ErrorResponse) error
}
