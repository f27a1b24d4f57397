package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/studiokawa/proofroom"
)

const galleryChannelPrefix = "proofroom:gallery:"

// SignalService fans proof change events out over redis pub/sub so every
// node can feed its websocket subscribers.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event proofroom.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, galleryChannelPrefix+event.GalleryID, jsonstr).Err()
	if err != nil {
		return err

	}

	return nil
}

// Realtime bridges one websocket session to redis pub/sub. Each value on
// input replaces the session's gallery subscription set; decoded events are
// delivered on output until ctx is done.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- proofroom.Event) {

	pubsub := s.rdb.Subscribe(ctx)
	defer pubsub.Close()

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case galleries, ok := <-input:
			if !ok {
				return
			}

			channels := make([]string, 0, len(galleries))
			for _, id := range galleries {
				channels = append(channels, galleryChannelPrefix+id)
			}

			if err := pubsub.Unsubscribe(ctx); err != nil {
				slog.ErrorContext(
					ctx, "Failed to unsubscribe",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				return
			}
			if len(channels) > 0 {
				if err := pubsub.Subscribe(ctx, channels...); err != nil {
					slog.ErrorContext(
						ctx, "Failed to subscribe",
						slog.String("error", err.Error()),
						slog.String("module", "signal"),
					)
					return
				}
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event proofroom.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}

			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
