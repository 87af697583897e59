package event

import (
	"encoding/json"

	"swipemovie/pkg/logger"
	"swipemovie/pkg/mq"
	eventtypes "swipemovie/pkg/types/eventtype"

	"github.com/rs/zerolog"
)

// MatchPusher receives decoded match events from the broker.
type MatchPusher interface {
	PushMatchCreated(push eventtypes.MatchPush)
}

type Consumer struct {
	rabbit *mq.RabbitMQ
	push   MatchPusher
	log    zerolog.Logger
}

func NewConsumer(rabbit *mq.RabbitMQ, push MatchPusher) (*Consumer, error) {
	if err := rabbit.DeclareExchange(mq.ExchangeMatchEvents, mq.ExchangeTypeFanout); err != nil {
		return nil, err
	}
	return &Consumer{
		rabbit: rabbit,
		push:   push,
		log:    logger.With("match_consumer"),
	}, nil
}

// Listen starts consuming match events from the fanout exchange and
// hands each one to the pusher on a background goroutine.
func (c *Consumer) Listen() error {
	return c.rabbit.ConsumeExchange(mq.ExchangeMatchEvents, func(body []byte) {
		var payload eventtypes.EventPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			c.log.Warn().Msgf("Failed to decode event envelope: %v", err)
			return
		}
		if payload.EventType != eventtypes.EventTypeMatchCreated {
			return
		}

		var push eventtypes.MatchPush
		if err := json.Unmarshal(payload.Data, &push); err != nil {
			c.log.Warn().Msgf("Failed to decode match event: %v", err)
			return
		}

		c.log.Info().Msgf("Received match %s for room %s", push.Match.MatchID, push.Match.RoomID)
		c.push.PushMatchCreated(push)
	})
}
