package broker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
	"github.com/spec-kit/user-service/internal/service"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

type subscriberFixture struct {
	cfg      config.BrokerConfig
	client   *redis.Client
	repo     repository.UserRepository
	outcomes <-chan *redis.Message
}

func newSubscriberFixture(t *testing.T) *subscriberFixture {
	t.Helper()

	client := newTestClient(t)
	cfg := testBrokerConfig()

	repo := repository.NewMemoryUserRepository()
	publisher := NewPublisher(client, cfg, "user-service")
	search := service.NewSearchService(repo, config.SearchConfig{DefaultLimit: 20, MaxLimit: 100})
	users := service.NewUserService(service.UserDependencies{
		UserRepo: repo,
		Notifier: publisher,
		Search:   search,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	subscriber := NewSubscriber(client, cfg, users, publisher, zap.NewNop())
	require.NoError(t, subscriber.Start(ctx))

	// Outcome channels must be subscribed before any request is published.
	outcomes := subscribe(t, client,
		cfg.CreatedChannel, cfg.UpdatedChannel, cfg.DeletedChannel, cfg.OperationErrorChannel)

	return &subscriberFixture{cfg: cfg, client: client, repo: repo, outcomes: outcomes}
}

func (f *subscriberFixture) publish(t *testing.T, channel, payload string) {
	t.Helper()
	require.NoError(t, f.client.Publish(context.Background(), channel, payload).Err())
}

func TestSubscriberCreatesUserFromCreationRequest(t *testing.T) {
	f := newSubscriberFixture(t)

	f.publish(t, f.cfg.CreationRequestedChannel,
		`{"name":"Thiago Costa","email":"thiago.costa@sensedia.com"}`)

	msg := waitMessage(t, f.outcomes)
	assert.Equal(t, f.cfg.CreatedChannel, msg.Channel)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	assert.Equal(t, events.EventUserCreation, env.Headers.EventName)
	assert.Equal(t, "user-service", env.Headers.AppID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "Thiago Costa", payload["name"])
	assert.Equal(t, "ACTIVE", payload["status"])

	stored, err := f.repo.FindByID(context.Background(), payload["id"].(string))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "thiago.costa@sensedia.com", stored.Email)
}

func TestSubscriberPublishesErrorEventWithOriginalMessage(t *testing.T) {
	f := newSubscriberFixture(t)

	original := `{"id":"missing-id"}`
	f.publish(t, f.cfg.DeletionRequestedChannel, original)

	msg := waitMessage(t, f.outcomes)
	assert.Equal(t, f.cfg.OperationErrorChannel, msg.Channel)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	assert.Equal(t, events.EventUserOperationError, env.Headers.EventName)

	var payload apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 404, payload.Status)
	assert.Equal(t, "User not found", payload.Detail)

	attached, err := json.Marshal(payload.OriginalMessage)
	require.NoError(t, err)
	assert.JSONEq(t, original, string(attached))
}

func TestSubscriberValidationFailureIsPublishedNotDropped(t *testing.T) {
	f := newSubscriberFixture(t)

	f.publish(t, f.cfg.CreationRequestedChannel, `{"name":"Thiago Costa"}`)

	msg := waitMessage(t, f.outcomes)
	assert.Equal(t, f.cfg.OperationErrorChannel, msg.Channel)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))

	var payload apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 400, payload.Status)
	assert.Equal(t, "email is required", payload.Detail)
}

func TestSubscriberMalformedPayloadYieldsErrorEvent(t *testing.T) {
	f := newSubscriberFixture(t)

	f.publish(t, f.cfg.UpdateRequestedChannel, `{not json`)

	msg := waitMessage(t, f.outcomes)
	assert.Equal(t, f.cfg.OperationErrorChannel, msg.Channel)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))

	var payload apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 400, payload.Status)
	assert.Equal(t, "invalid message payload", payload.Detail)
}

func TestSubscriberUpdatesUserFromUpdateRequest(t *testing.T) {
	f := newSubscriberFixture(t)

	f.publish(t, f.cfg.CreationRequestedChannel,
		`{"name":"Old Name","email":"old@sensedia.com"}`)
	created := waitMessage(t, f.outcomes)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(created.Payload), &env))
	var createdPayload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &createdPayload))
	id := createdPayload["id"].(string)

	f.publish(t, f.cfg.UpdateRequestedChannel,
		`{"id":"`+id+`","name":"New Name","email":"new@sensedia.com","status":"disable"}`)

	updated := waitMessage(t, f.outcomes)
	assert.Equal(t, f.cfg.UpdatedChannel, updated.Channel)

	require.NoError(t, json.Unmarshal([]byte(updated.Payload), &env))
	assert.Equal(t, events.EventUserUpdate, env.Headers.EventName)

	stored, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "DISABLE", string(stored.Status))
	assert.NotNil(t, stored.UpdatedAt)
}
