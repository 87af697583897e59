package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"swipemovie/pkg/db"
	"swipemovie/pkg/logger"
	"swipemovie/pkg/mq"
	"swipemovie/pkg/redis"
	"swipemovie/services/room/event"
	"swipemovie/services/room/handler"
	"swipemovie/services/room/repository"
	"swipemovie/services/room/service"
	"swipemovie/services/room/transport"

	"github.com/rs/zerolog/log"
)

const webPort = 80

func main() {
	logger.Init("room")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mysqlClient, err := db.ConnectMySQL()
	if err != nil {
		log.Panic().Msgf("Failed to connect to MySQL: %v", err)
	}

	mongoClient, err := db.ConnectMongo()
	if err != nil {
		log.Panic().Msgf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	redisClient, err := redis.NewRedisClient()
	if err != nil {
		log.Panic().Msgf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Client.Close()

	mqClient, err := mq.ConnectToRabbitMQ()
	if err != nil {
		log.Panic().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqClient.Conn.Close()

	emitter, err := event.NewEmitter(mqClient)
	if err != nil {
		log.Panic().Msgf("Failed to create match emitter: %v", err)
	}

	roomRepo := repository.NewRoomRepository(mysqlClient)
	if err := roomRepo.InitDB(); err != nil {
		log.Panic().Msgf("Failed to migrate room tables: %v", err)
	}

	deckRepo, err := repository.NewDeckRepository(mongoClient)
	if err != nil {
		log.Panic().Msgf("Failed to create deck repository: %v", err)
	}

	roomService := service.NewRoomService(roomRepo, deckRepo, redisClient, emitter, logger.With("room_service"))
	roomHandler := handler.NewRoomHandler(roomService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", webPort),
		Handler: transport.NewRouter(roomHandler),
	}

	log.Info().Msgf("Starting room service on port %d", webPort)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Msgf("Room service stopped: %v", err)
	}
}
