// Package redis implements domain.SessionStore on Redis: one hash holding
// thread metadata keyed by thread id, and one list per thread holding its
// message history in append order.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/observability"
)

const (
	threadsKey        = "book-agent:threads:v2"
	messagesKeyPrefix = "book-agent:messages:"
)

// Config contains Redis connection settings.
type Config struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// Store implements domain.SessionStore.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store and verifies connectivity, so a broken
// Redis configuration fails at startup rather than on the first query.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Store{client: client}, nil
}

// AllThreads returns every thread sorted by UpdatedAt descending.
func (s *Store) AllThreads(ctx context.Context) ([]domain.Thread, error) {
	entries, err := s.client.HGetAll(ctx, threadsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load threads: %w", err)
	}

	logger := observability.FromContext(ctx)

	threads := make([]domain.Thread, 0, len(entries))
	for id, raw := range entries {
		var thread domain.Thread
		if unmarshalErr := json.Unmarshal([]byte(raw), &thread); unmarshalErr != nil {
			logger.Warn("skipping unreadable thread entry",
				observability.String("thread_id", id),
				observability.Error(unmarshalErr))
			continue
		}
		threads = append(threads, thread)
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].UpdatedAt > threads[j].UpdatedAt
	})

	logger.Info("loaded threads from history", observability.Int("count", len(threads)))
	return threads, nil
}

// Thread returns the thread with the given id, or nil when absent.
func (s *Store) Thread(ctx context.Context, id string) (*domain.Thread, error) {
	raw, err := s.client.HGet(ctx, threadsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load thread %s: %w", id, err)
	}

	var thread domain.Thread
	if err := json.Unmarshal([]byte(raw), &thread); err != nil {
		return nil, fmt.Errorf("failed to decode thread %s: %w", id, err)
	}
	return &thread, nil
}

// UpdateThread upserts thread metadata. Only non-nil patch fields overwrite
// existing values; UpdatedAt is always refreshed. The read-merge-write is
// not serialized against concurrent writers: last writer wins.
func (s *Store) UpdateThread(ctx context.Context, id string, patch domain.ThreadPatch) error {
	existing, err := s.Thread(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()

	var thread domain.Thread
	if existing == nil {
		thread = domain.Thread{
			ID:        id,
			Title:     domain.DefaultThreadTitle,
			UpdatedAt: now,
		}
		observability.FromContext(ctx).Info("created new thread",
			observability.String("thread_id", id))
	} else {
		thread = *existing
		thread.UpdatedAt = now
	}

	if patch.Title != nil {
		thread.Title = *patch.Title
	}
	if patch.ModelID != nil {
		thread.ModelID = *patch.ModelID
	}
	if patch.BookName != nil {
		thread.BookName = *patch.BookName
	}

	raw, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("failed to encode thread %s: %w", id, err)
	}

	if err := s.client.HSet(ctx, threadsKey, id, raw).Err(); err != nil {
		return fmt.Errorf("failed to store thread %s: %w", id, err)
	}
	return nil
}

// DeleteThread removes thread metadata. The message list keyed by the same
// id is left in place, preserving history under the old id.
func (s *Store) DeleteThread(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, threadsKey, id).Err(); err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", id, err)
	}
	observability.FromContext(ctx).Info("deleted thread", observability.String("thread_id", id))
	return nil
}

// AddMessage appends to the thread's message list and bumps the thread's
// UpdatedAt. The two writes are separate operations; a concurrent
// UpdateThread may interleave between them.
func (s *Store) AddMessage(ctx context.Context, threadID, role, content string) error {
	msg := domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	if err := s.client.RPush(ctx, messagesKeyPrefix+threadID, raw).Err(); err != nil {
		return fmt.Errorf("failed to append message to thread %s: %w", threadID, err)
	}

	return s.UpdateThread(ctx, threadID, domain.ThreadPatch{})
}

// Messages returns the full history of a thread in append order.
func (s *Store) Messages(ctx context.Context, threadID string) ([]domain.Message, error) {
	raws, err := s.client.LRange(ctx, messagesKeyPrefix+threadID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for thread %s: %w", threadID, err)
	}

	messages := make([]domain.Message, 0, len(raws))
	for _, raw := range raws {
		var msg domain.Message
		if unmarshalErr := json.Unmarshal([]byte(raw), &msg); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to decode message in thread %s: %w", threadID, unmarshalErr)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
