package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"risiko-server/internal/game"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

var _ game.Broadcaster = (*RedisPublisher)(nil)

// Message is the compact form of an event published to redis. Consumers that
// need the full state fetch it over HTTP.
type Message struct {
	Type    game.EventType   `json:"type"`
	GameID  string           `json:"game_id"`
	Year    int              `json:"year"`
	Version int64            `json:"version,omitempty"`
	Players int              `json:"players,omitempty"`
	Ready   int              `json:"ready,omitempty"`
	Report  *game.TurnReport `json:"report,omitempty"`
}

func NewMessage(event game.Event) Message {
	msg := Message{
		Type:   event.Type,
		GameID: event.GameID,
		Year:   event.Year,
		Report: event.Report,
	}
	if event.Game != nil {
		msg.Version = event.Game.Version
		msg.Players = len(event.Game.Players)
		msg.Ready = event.Game.ReadyCount()
	}
	return msg
}

// RedisPublisher announces game events on a pub/sub channel so other
// instances and tools can follow the games of this one.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisPublisher(client *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Publish never fails the caller; delivery errors are logged
func (p *RedisPublisher) Publish(ctx context.Context, event game.Event) {
	if p == nil || p.client == nil {
		return
	}

	logger := p.logger.With("component", "redis_publisher", "channel", p.channel, "game_id", event.GameID, "type", event.Type)

	payload, err := json.Marshal(NewMessage(event))
	if err != nil {
		logger.Error("Failed to encode game event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		logger.Error("Failed to publish game event", "error", err)
		return
	}

	logger.Debug("Game event published", "receivers", receivers)
}
