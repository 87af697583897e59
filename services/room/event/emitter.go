package event

import (
	"encoding/json"

	"swipemovie/pkg/helper"
	"swipemovie/pkg/mq"
	eventtypes "swipemovie/pkg/types/eventtype"

	"github.com/rs/zerolog/log"
)

type Emitter struct {
	mqClient *mq.RabbitMQ
}

func NewEmitter(mqClient *mq.RabbitMQ) (*Emitter, error) {
	err := mqClient.DeclareExchange(mq.ExchangeMatchEvents, mq.ExchangeTypeFanout)
	if err != nil {
		return nil, err
	}
	return &Emitter{mqClient: mqClient}, nil
}

func (e *Emitter) PublishMatchCreated(push eventtypes.MatchPush) error {
	payload := eventtypes.EventPayload{
		EventType: eventtypes.EventTypeMatchCreated,
		Data:      helper.ToJSON(push),
	}

	eventBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error().Msgf("Failed to marshal match created event: %v", err)
		return err
	}

	err = e.mqClient.PublishMessage(
		mq.ExchangeMatchEvents, // fanout exchange
		"",                     // routing key unused for fanout
		eventBytes,
	)
	if err != nil {
		log.Error().Msgf("Failed to publish match created event: %v", err)
		return err
	}
	return nil
}
