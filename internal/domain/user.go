package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// UserStatus represents lifecycle states for a user.
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusDisable UserStatus = "DISABLE"
)

var userStatuses = []UserStatus{UserStatusActive, UserStatusDisable}

// ParseUserStatus parses a free-text status value. Blank input means "no
// preference" and yields the zero value without error; any other input must
// match a member name case-insensitively.
func ParseUserStatus(value string) (UserStatus, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	for _, status := range userStatuses {
		if strings.EqualFold(value, string(status)) {
			return status, nil
		}
	}
	return "", apperrors.NewInvalidEnumError("status", value, acceptedValues(userStatuses))
}

func acceptedValues[T ~string](members []T) []string {
	accepted := make([]string, len(members))
	for i, m := range members {
		accepted[i] = strings.ToLower(string(m))
	}
	return accepted
}

// User is the managed resource.
type User struct {
	ID        string
	Name      string
	Email     string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}
