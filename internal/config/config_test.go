package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "user-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit)
	assert.Equal(t, "user.created", cfg.Broker.CreatedChannel)
	assert.Equal(t, "user.operation.error", cfg.Broker.OperationErrorChannel)
	assert.Equal(t, "user.creation.requested", cfg.Broker.CreationRequestedChannel)
}

func TestLoadRejectsInvertedSearchLimits(t *testing.T) {
	t.Setenv("SEARCH_DEFAULT_LIMIT", "500")
	t.Setenv("SEARCH_MAX_LIMIT", "100")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "user-service-test")
	t.Setenv("SEARCH_MAX_LIMIT", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user-service-test", cfg.App.Name)
	assert.Equal(t, 250, cfg.Search.MaxLimit)
}
