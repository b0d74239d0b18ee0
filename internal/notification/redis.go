package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/fkhayef/splitledger/internal/split"
)

// DefaultChannel is the pub/sub channel split events are published on
const DefaultChannel = "split-events"

// Connect builds a client from either a redis:// URL or a host:port address
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// PubSubClient is the subset of the redis client used by RedisPublisher
type PubSubClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher publishes split events as JSON on a pub/sub channel
type RedisPublisher struct {
	client  PubSubClient
	channel string
}

// NewRedisPublisher creates a sink publishing to channel
func NewRedisPublisher(client PubSubClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Name identifies the sink in delivery metrics
func (s *RedisPublisher) Name() string { return "redis" }

// Deliver publishes the event
func (s *RedisPublisher) Deliver(ctx context.Context, event split.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode split event: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.channel, err)
	}
	return nil
}
