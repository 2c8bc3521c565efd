package registry_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/provider/registry"
)

type fakeClient struct {
	model string
}

func (f *fakeClient) Stream(_ context.Context, _ domain.Prompt) (<-chan domain.StreamChunk, error) {
	chunks := make(chan domain.StreamChunk)
	close(chunks)
	return chunks, nil
}

func (f *fakeClient) Complete(_ context.Context, _ domain.Prompt) (string, error) {
	return "", nil
}

type fakeProvider struct {
	prefix    string
	catchAll  bool
	priority  int
	createErr error

	created atomic.Int64
}

func (f *fakeProvider) Supports(modelID string) bool {
	if f.catchAll {
		return true
	}
	return strings.HasPrefix(modelID, f.prefix)
}

func (f *fakeProvider) Create(modelID string) (domain.BackendClient, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created.Add(1)
	return &fakeClient{model: modelID}, nil
}

func (f *fakeProvider) Priority() int {
	return f.priority
}

func newCatchAll() *fakeProvider {
	return &fakeProvider{catchAll: true, priority: math.MaxInt}
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("should route to the first provider claiming the model", func(t *testing.T) {
		specific := &fakeProvider{prefix: "gpt-", priority: 0}
		catchAll := newCatchAll()
		reg := registry.New(catchAll, specific)

		_, err := reg.Resolve("gpt-4o")
		require.NoError(t, err)
		require.EqualValues(t, 1, specific.created.Load())
		require.EqualValues(t, 0, catchAll.created.Load())
	})

	t.Run("should fall through to the catch-all for unknown models", func(t *testing.T) {
		specific := &fakeProvider{prefix: "gpt-", priority: 0}
		catchAll := newCatchAll()
		reg := registry.New(specific, catchAll)

		client, err := reg.Resolve("zzz")
		require.NoError(t, err)
		require.NotNil(t, client)
		require.EqualValues(t, 1, catchAll.created.Load())
	})

	t.Run("should respect priority order regardless of registration order", func(t *testing.T) {
		low := &fakeProvider{prefix: "qwen-", priority: 10}
		high := &fakeProvider{prefix: "qwen-", priority: 0}
		reg := registry.New(low, newCatchAll(), high)

		_, err := reg.Resolve("qwen-max")
		require.NoError(t, err)
		require.EqualValues(t, 1, high.created.Load())
		require.EqualValues(t, 0, low.created.Load())
	})

	t.Run("should return the cached client on repeated resolution", func(t *testing.T) {
		catchAll := newCatchAll()
		reg := registry.New(catchAll)

		first, err := reg.Resolve("qwen-max")
		require.NoError(t, err)
		second, err := reg.Resolve("qwen-max")
		require.NoError(t, err)

		require.Same(t, first, second)
		require.EqualValues(t, 1, catchAll.created.Load())
	})

	t.Run("should cache per model id", func(t *testing.T) {
		catchAll := newCatchAll()
		reg := registry.New(catchAll)

		a, err := reg.Resolve("qwen-max")
		require.NoError(t, err)
		b, err := reg.Resolve("qwen-plus")
		require.NoError(t, err)

		require.NotSame(t, a, b)
		require.EqualValues(t, 2, catchAll.created.Load())
	})

	t.Run("should reject an empty model id", func(t *testing.T) {
		reg := registry.New(newCatchAll())

		_, err := reg.Resolve("")
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("should report a configuration error without a catch-all", func(t *testing.T) {
		reg := registry.New(&fakeProvider{prefix: "gpt-", priority: 0})

		_, err := reg.Resolve("qwen-max")
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("should propagate client construction failures", func(t *testing.T) {
		failing := &fakeProvider{catchAll: true, priority: math.MaxInt, createErr: errors.New("missing credentials")}
		reg := registry.New(failing)

		_, err := reg.Resolve("qwen-max")
		require.ErrorContains(t, err, "missing credentials")
	})

	t.Run("should hand every concurrent first access the same client", func(t *testing.T) {
		catchAll := newCatchAll()
		reg := registry.New(catchAll)

		const workers = 32
		clients := make([]domain.BackendClient, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				clients[i], errs[i] = reg.Resolve("qwen-max")
			}()
		}
		wg.Wait()

		for i := range workers {
			require.NoError(t, errs[i])
		}
		for i := 1; i < workers; i++ {
			require.Same(t, clients[0], clients[i])
		}
	})
}
