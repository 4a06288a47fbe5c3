package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"relay-service/internal/config"
	"relay-service/internal/db"
	"relay-service/internal/handlers"
	"relay-service/internal/middleware"
	"relay-service/internal/observability"
	"relay-service/internal/presence"
	"relay-service/internal/rabbitmq"
	"relay-service/internal/repositories"
	"relay-service/internal/services"
	"relay-service/internal/telemetry"
	"relay-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(), "relay-service", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))
	observability.SetPublisher(publisher)

	emitter := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, "relay-service", cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	friendRepo := repositories.NewFriendRepo(database)

	registry := presence.NewRegistry()
	messageService := services.NewMessageService(messageRepo, registry)
	friendService := services.NewFriendService(userRepo, friendRepo, registry)

	userHandler := handlers.NewUserHandler(userRepo)
	messageHandler := handlers.NewMessageHandler(messageService)
	friendHandler := handlers.NewFriendHandler(friendService, emitter)
	presenceHandler := handlers.NewPresenceHandler(registry)

	dispatcher := ws.NewDispatcher(registry, messageService, friendService)

	router := gin.Default()
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("relay-service"))

	authMiddleware := middleware.AuthMiddleware([]byte(cfg.JWTSecret))

	router.POST("/users", userHandler.Create)
	router.GET("/users/:username", authMiddleware, userHandler.Get)
	router.GET("/messages/:username", authMiddleware, messageHandler.GetConversation)
	router.POST("/friends/requests", authMiddleware, friendHandler.SendRequest)
	router.POST("/friends/requests/:request_id/respond", authMiddleware, friendHandler.Respond)
	router.GET("/friends", authMiddleware, friendHandler.ListFriends)
	router.GET("/friends/requests/pending", authMiddleware, friendHandler.ListPending)
	router.GET("/presence/:username", authMiddleware, presenceHandler.Get)

	router.GET("/ws", dispatcher.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
