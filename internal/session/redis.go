package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nadzzz/copilot/internal/config"
)

// RedisMirror stores the latest snapshot as JSON under a single key so
// out-of-process readers (actuators, dashboards) can poll it.
type RedisMirror struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisMirror connects to the configured Redis and verifies it with PING.
func NewRedisMirror(ctx context.Context, cfg config.RedisConfig) (*RedisMirror, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	m := newRedisMirror(redis.NewClient(opt), cfg.Key, cfg.TTL)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.Ping(ctx); err != nil {
		m.client.Close()
		return nil, err
	}
	return m, nil
}

func newRedisMirror(client *redis.Client, key string, ttl time.Duration) *RedisMirror {
	if key == "" {
		key = "copilot:context:last"
	}
	return &RedisMirror{client: client, key: key, ttl: ttl}
}

// Save writes snap with the configured TTL (0 keeps it forever).
func (m *RedisMirror) Save(ctx context.Context, snap Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, m.key, data, m.ttl).Err(); err != nil {
		return fmt.Errorf("saving snapshot to redis: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. ok is false when the key does not exist.
func (m *RedisMirror) Load(ctx context.Context) (snap Snapshot, ok bool, err error) {
	data, err := m.client.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("loading snapshot from redis: %w", err)
	}
	if snap, err = decodeSnapshot(data); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshalling snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap, nil
}

// Ping checks the connection. It doubles as a readiness check.
func (m *RedisMirror) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}
