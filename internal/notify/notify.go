// Package notify delivers change events to subscribers over a Redis pub/sub
// channel. Publication is best-effort by contract: a failed publish is
// logged and dropped, never surfaced to the mutation that produced it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parkwell-gh/parkwell/internal/engine"
	"github.com/parkwell-gh/parkwell/internal/jsonlog"
)

const publishTimeout = 2 * time.Second

// RedisNotifier publishes engine events as JSON on a single channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *jsonlog.Logger
}

func NewRedisNotifier(client *redis.Client, channel string, logger *jsonlog.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (n *RedisNotifier) Notify(event engine.Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		n.logger.PrintError(err, map[string]string{"event": event.Type})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.client.Publish(ctx, n.channel, raw).Err(); err != nil {
		n.logger.PrintError(err, map[string]string{
			"event":   event.Type,
			"channel": n.channel,
		})
	}
}

// LogNotifier records events in the application log. Used when no Redis
// address is configured.
type LogNotifier struct {
	logger *jsonlog.Logger
}

func NewLogNotifier(logger *jsonlog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(event engine.Event) {
	n.logger.PrintInfo("change event", map[string]string{"event": event.Type})
}
