package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/service"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// Subscriber consumes lifecycle requests from the pub/sub channel and invokes
// the corresponding service operation. Any failure is resolved once and
// republished as an operation-error event carrying the original payload;
// nothing is retried or re-queued.
type Subscriber struct {
	client   *redis.Client
	cfg      config.BrokerConfig
	users    *service.UserService
	notifier events.Notifier
	logger   *zap.Logger
}

// NewSubscriber constructs the inbound adapter.
func NewSubscriber(client *redis.Client, cfg config.BrokerConfig, users *service.UserService, notifier events.Notifier, logger *zap.Logger) *Subscriber {
	return &Subscriber{client: client, cfg: cfg, users: users, notifier: notifier, logger: logger}
}

// Start subscribes to the request channels and consumes messages until the
// context is cancelled. It returns once the subscription is confirmed.
func (s *Subscriber) Start(ctx context.Context) error {
	sub := s.client.Subscribe(ctx,
		s.cfg.CreationRequestedChannel,
		s.cfg.UpdateRequestedChannel,
		s.cfg.DeletionRequestedChannel,
	)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go s.consume(ctx, sub)
	return nil
}

func (s *Subscriber) consume(ctx context.Context, sub *redis.PubSub) {
	defer sub.Close() //nolint:errcheck
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			s.dispatch(ctx, msg.Channel, []byte(msg.Payload))
		}
	}
}

func (s *Subscriber) dispatch(ctx context.Context, channel string, payload []byte) {
	var err error
	switch channel {
	case s.cfg.CreationRequestedChannel:
		err = s.handleCreationRequested(ctx, payload)
	case s.cfg.UpdateRequestedChannel:
		err = s.handleUpdateRequested(ctx, payload)
	case s.cfg.DeletionRequestedChannel:
		err = s.handleDeletionRequested(ctx, payload)
	default:
		s.logger.Warn("message on unexpected channel", zap.String("channel", channel))
		return
	}

	if err != nil {
		s.publishOperationError(err, payload)
	}
}

func (s *Subscriber) handleCreationRequested(ctx context.Context, payload []byte) error {
	var req dto.UserCreationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return apperrors.NewInvalidArgument("invalid message payload")
	}
	_, err := s.users.Create(ctx, service.UserCreateInput{Name: req.Name, Email: req.Email})
	return err
}

func (s *Subscriber) handleUpdateRequested(ctx context.Context, payload []byte) error {
	var req dto.UserUpdateMessage
	if err := json.Unmarshal(payload, &req); err != nil {
		return apperrors.NewInvalidArgument("invalid message payload")
	}
	_, err := s.users.Update(ctx, req.ID, service.UserUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
	})
	return err
}

func (s *Subscriber) handleDeletionRequested(ctx context.Context, payload []byte) error {
	var req dto.UserDeletionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return apperrors.NewInvalidArgument("invalid message payload")
	}
	return s.users.Delete(ctx, req.ID)
}

func (s *Subscriber) publishOperationError(err error, payload []byte) {
	response := apperrors.Resolve(err).WithOriginalMessage(json.RawMessage(payload))
	if pubErr := s.notifier.NotifyOperationError(response); pubErr != nil {
		s.logger.Error("failed to publish operation error", zap.Error(pubErr))
	}
}
