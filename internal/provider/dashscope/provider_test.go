package dashscope_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/provider/dashscope"
)

func TestNewProvider(t *testing.T) {
	t.Run("should fail fast without an API key", func(t *testing.T) {
		_, err := dashscope.NewProvider(dashscope.Config{})

		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("should honour either API key variable", func(t *testing.T) {
		provider, err := dashscope.NewProvider(dashscope.Config{APIKey: "sk-ds"})
		require.NoError(t, err)
		require.NotNil(t, provider)

		provider, err = dashscope.NewProvider(dashscope.Config{AltAPIKey: "sk-alt"})
		require.NoError(t, err)
		require.NotNil(t, provider)
	})
}

func TestProvider_IsCatchAll(t *testing.T) {
	provider, err := dashscope.NewProvider(dashscope.Config{APIKey: "sk-ds"})
	require.NoError(t, err)

	for _, model := range []string{"qwen-max", "deepseek-v3", "gpt-4o", "zzz", ""} {
		require.True(t, provider.Supports(model))
	}
	require.Equal(t, math.MaxInt, provider.Priority())
}

func TestProvider_Create(t *testing.T) {
	provider, err := dashscope.NewProvider(dashscope.Config{APIKey: "sk-ds"})
	require.NoError(t, err)

	client, err := provider.Create("qwen-max")
	require.NoError(t, err)
	require.NotNil(t, client)
}
