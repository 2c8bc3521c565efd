package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("chat mode with book name prefixes the question", func(t *testing.T) {
		prompt := domain.BuildPrompt("What is dialectics?", "Book A", domain.ModeChat)

		require.Equal(t, "About Book A: What is dialectics?", prompt.User)
		require.Empty(t, prompt.System)
	})

	t.Run("chat mode without book name passes the question through", func(t *testing.T) {
		prompt := domain.BuildPrompt("What is dialectics?", "", domain.ModeChat)

		require.Equal(t, "What is dialectics?", prompt.User)
	})

	t.Run("interpret mode wraps the passage and sets the system prompt", func(t *testing.T) {
		prompt := domain.BuildPrompt("Practice, knowledge, again practice...", "Selected Works", domain.ModeInterpret)

		require.Contains(t, prompt.User, "Interpret the following passage from Selected Works:")
		require.Contains(t, prompt.User, "Practice, knowledge, again practice...")
		require.NotEmpty(t, prompt.System)
	})

	t.Run("unknown mode defaults to interpret", func(t *testing.T) {
		prompt := domain.BuildPrompt("some text", "", "summarize")

		require.Contains(t, prompt.User, "Interpret the following passage:")
		require.NotEmpty(t, prompt.System)
	})
}
