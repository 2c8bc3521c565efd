package echo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/provider/echo"
)

func TestProvider_Supports(t *testing.T) {
	provider := echo.NewProvider()

	require.True(t, provider.Supports("echo"))
	require.False(t, provider.Supports("qwen-max"))
	require.False(t, provider.Supports("gpt-4o"))
}

func TestClient_Stream(t *testing.T) {
	provider := echo.NewProvider()
	client, err := provider.Create("echo")
	require.NoError(t, err)

	chunks, err := client.Stream(context.Background(), domain.Prompt{User: "hello streaming world"})
	require.NoError(t, err)

	var parts []string
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		parts = append(parts, chunk.Delta)
	}

	require.Equal(t, "hello streaming world", strings.Join(parts, ""))
}

func TestClient_Stream_Cancellation(t *testing.T) {
	provider := echo.NewProvider()
	client, err := provider.Create("echo")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	chunks, err := client.Stream(ctx, domain.Prompt{User: strings.Repeat("word ", 1000)})
	require.NoError(t, err)

	<-chunks
	cancel()

	select {
	case <-drained(chunks):
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
}

func TestClient_Complete(t *testing.T) {
	provider := echo.NewProvider()
	client, err := provider.Create("echo")
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), domain.Prompt{User: "ping"})
	require.NoError(t, err)
	require.Equal(t, "Echo: ping", out)
}

func drained(chunks <-chan domain.StreamChunk) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range chunks {
		}
	}()
	return done
}
