package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func testBrokerConfig() config.BrokerConfig {
	return config.BrokerConfig{
		CreatedChannel:           "user.created",
		UpdatedChannel:           "user.updated",
		DeletedChannel:           "user.deleted",
		OperationErrorChannel:    "user.operation.error",
		CreationRequestedChannel: "user.creation.requested",
		UpdateRequestedChannel:   "user.update.requested",
		DeletionRequestedChannel: "user.deletion.requested",
	}
}

type envelope struct {
	Headers events.Headers  `json:"headers"`
	Payload json.RawMessage `json:"payload"`
}

func subscribe(t *testing.T, client *redis.Client, channels ...string) <-chan *redis.Message {
	t.Helper()
	sub := client.Subscribe(context.Background(), channels...)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)
	return sub.Channel()
}

func waitMessage(t *testing.T, messages <-chan *redis.Message) *redis.Message {
	t.Helper()
	select {
	case msg := <-messages:
		return msg
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublisherWrapsPayloadInEnvelope(t *testing.T) {
	client := newTestClient(t)
	cfg := testBrokerConfig()
	messages := subscribe(t, client, cfg.CreatedChannel)

	publisher := NewPublisher(client, cfg, "user-service")
	user := &domain.User{
		ID:        "id-1",
		Name:      "Thiago Costa",
		Email:     "thiago.costa@sensedia.com",
		Status:    domain.UserStatusActive,
		CreatedAt: time.Date(2020, 3, 21, 16, 7, 44, 0, time.UTC),
	}
	require.NoError(t, publisher.NotifyCreated(user))

	msg := waitMessage(t, messages)
	assert.Equal(t, cfg.CreatedChannel, msg.Channel)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	assert.Equal(t, events.EventUserCreation, env.Headers.EventName)
	assert.Equal(t, "user-service", env.Headers.AppID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "id-1", payload["id"])
	assert.Equal(t, "ACTIVE", payload["status"])
}

func TestPublisherEmitsOneEventNamePerChannel(t *testing.T) {
	client := newTestClient(t)
	cfg := testBrokerConfig()
	updated := subscribe(t, client, cfg.UpdatedChannel)
	deleted := subscribe(t, client, cfg.DeletedChannel)

	publisher := NewPublisher(client, cfg, "user-service")
	now := time.Now().UTC()
	user := &domain.User{ID: "id-2", Name: "User", Email: "user@sensedia.com",
		Status: domain.UserStatusDisable, CreatedAt: now, UpdatedAt: &now}

	require.NoError(t, publisher.NotifyUpdated(user))
	require.NoError(t, publisher.NotifyDeleted(user))

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(waitMessage(t, updated).Payload), &env))
	assert.Equal(t, events.EventUserUpdate, env.Headers.EventName)

	require.NoError(t, json.Unmarshal([]byte(waitMessage(t, deleted).Payload), &env))
	assert.Equal(t, events.EventUserDeletion, env.Headers.EventName)
}

func TestPublisherEmitsOperationErrors(t *testing.T) {
	client := newTestClient(t)
	cfg := testBrokerConfig()
	messages := subscribe(t, client, cfg.OperationErrorChannel)

	publisher := NewPublisher(client, cfg, "user-service")
	response := apperrors.Resolve(apperrors.NewNotFound("User not found")).
		WithOriginalMessage(json.RawMessage(`{"id":"missing"}`))
	require.NoError(t, publisher.NotifyOperationError(response))

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(waitMessage(t, messages).Payload), &env))
	assert.Equal(t, events.EventUserOperationError, env.Headers.EventName)

	var payload apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, 404, payload.Status)
	assert.Equal(t, "User not found", payload.Detail)
	assert.NotNil(t, payload.OriginalMessage)
}
