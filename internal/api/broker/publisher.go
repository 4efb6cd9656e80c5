package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// Publisher emits lifecycle events on the pub/sub channel. Every message is
// an envelope carrying the event name and the originating app id.
type Publisher struct {
	client *redis.Client
	cfg    config.BrokerConfig
	appID  string
}

var _ events.Notifier = (*Publisher)(nil)

// NewPublisher constructs the outbound adapter.
func NewPublisher(client *redis.Client, cfg config.BrokerConfig, appID string) *Publisher {
	return &Publisher{client: client, cfg: cfg, appID: appID}
}

// NotifyCreated publishes a user-created event.
func (p *Publisher) NotifyCreated(user *domain.User) error {
	return p.publish(p.cfg.CreatedChannel, events.EventUserCreation, dto.ToUserResponse(user))
}

// NotifyUpdated publishes a user-updated event.
func (p *Publisher) NotifyUpdated(user *domain.User) error {
	return p.publish(p.cfg.UpdatedChannel, events.EventUserUpdate, dto.ToUserResponse(user))
}

// NotifyDeleted publishes a user-deleted event with the pre-delete
// representation.
func (p *Publisher) NotifyDeleted(user *domain.User) error {
	return p.publish(p.cfg.DeletedChannel, events.EventUserDeletion, dto.ToUserResponse(user))
}

// NotifyOperationError publishes a resolved failure, including the original
// inbound payload when one was attached.
func (p *Publisher) NotifyOperationError(response *apperrors.ErrorResponse) error {
	return p.publish(p.cfg.OperationErrorChannel, events.EventUserOperationError, response)
}

func (p *Publisher) publish(channel string, name events.EventName, payload any) error {
	envelope := events.Envelope{
		Headers: events.Headers{EventName: name, AppID: p.appID},
		Payload: payload,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return p.client.Publish(context.Background(), channel, body).Err()
}
