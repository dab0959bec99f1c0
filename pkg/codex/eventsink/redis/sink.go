// Package redis publishes client events to a Redis stream.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"

	"github.com/conneroisu/codex/pkg/codex/eventsink"
)

// Config configures a Sink.
type Config struct {
	// Client is used as-is when set. Otherwise one is created from Addr,
	// Password, and DB.
	Client redis.UniversalClient

	Addr     string `env:"CODEX_REDIS_ADDR,default=localhost:6379"`
	Password string `env:"CODEX_REDIS_PASSWORD"`
	DB       int    `env:"CODEX_REDIS_DB,default=0"`
	// KeyPrefix is prepended to the stream name "events".
	KeyPrefix string `env:"CODEX_REDIS_PREFIX,default=codex:"`
	// MaxLen approximately caps the stream length. Zero disables trimming.
	MaxLen int64 `env:"CODEX_REDIS_MAXLEN,default=10000"`
}

// ConfigFromEnv reads CODEX_REDIS_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode redis environment: %w", err)
	}

	return cfg, nil
}

// Sink appends records to the stream <prefix>events with XADD.
type Sink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

var _ eventsink.Sink = (*Sink)(nil)

// New creates a Sink.
func New(cfg Config) *Sink {
	client := cfg.Client
	if client == nil {
		addr := cfg.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "codex:"
	}

	return &Sink{
		client: client,
		stream: prefix + "events",
		maxLen: cfg.MaxLen,
	}
}

// Stream returns the stream key.
func (s *Sink) Stream() string {
	return s.stream
}

// Publish implements eventsink.Sink.
func (s *Sink) Publish(ctx context.Context, r eventsink.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":       r.Type,
			"method":     r.Method,
			"id":         r.ID,
			"session_id": r.SessionID,
			"payload":    payload,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish event to stream %s: %w", s.stream, err)
	}

	return nil
}

// Ping checks connectivity.
func (s *Sink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Sink) Close() error {
	return s.client.Close()
}
