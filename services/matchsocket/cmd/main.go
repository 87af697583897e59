package main

import (
	"fmt"

	"swipemovie/pkg/logger"
	"swipemovie/pkg/mq"
	"swipemovie/services/matchsocket/event"
	"swipemovie/services/matchsocket/handler"
	"swipemovie/services/matchsocket/service"
	"swipemovie/services/matchsocket/transport"

	"github.com/rs/zerolog/log"
)

const webPort = 80

func main() {
	logger.Init("matchsocket")

	rabbit, err := mq.ConnectToRabbitMQ()
	if err != nil {
		log.Panic().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbit.Conn.Close()

	pushService := service.NewPushService(logger.With("push_service"))

	consumer, err := event.NewConsumer(rabbit, pushService)
	if err != nil {
		log.Panic().Msgf("Failed to set up match consumer: %v", err)
	}
	if err := consumer.Listen(); err != nil {
		log.Panic().Msgf("Failed to start match consumer: %v", err)
	}

	socketHandler := handler.NewSocketHandler(pushService)
	e := transport.NewRouter(socketHandler)

	log.Info().Msgf("Starting match socket service on port %d", webPort)
	if err := e.Start(fmt.Sprintf(":%d", webPort)); err != nil {
		log.Panic().Msgf("Match socket service stopped: %v", err)
	}
}
