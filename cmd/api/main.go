package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/followwise/followwise-api/internal/config"
	"github.com/followwise/followwise-api/internal/infra/ai"
	"github.com/followwise/followwise-api/internal/infra/auth"
	"github.com/followwise/followwise-api/internal/infra/cache"
	"github.com/followwise/followwise-api/internal/infra/database"
	"github.com/followwise/followwise-api/internal/infra/http/handlers"
	"github.com/followwise/followwise-api/internal/infra/mail"
	"github.com/followwise/followwise-api/internal/infra/queue"
	"github.com/followwise/followwise-api/internal/infra/worker"
	"github.com/followwise/followwise-api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 1. Repositories
	userRepo := database.NewUserRepository(db)
	leadRepo := database.NewLeadRepository(db)
	followUpRepo := database.NewFollowUpRepository(db)
	sentEmailRepo := database.NewSentEmailRepository(db)

	// 2. Optional Redis cache
	var (
		rdb             *redis.Client
		suggestionCache usecase.SuggestionCache
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[CACHE] redis unavailable at %s, continuing without cache: %v", cfg.Redis.Addr, err)
		} else {
			suggestionCache = cache.NewSuggestionCache(rdb, cfg.Redis.CacheTTL)
		}
	}

	// 3. Gateways and adapters
	provider := ai.NewSuggestionProvider(ai.Config{
		Provider:      ai.ProviderType(cfg.AI.Provider),
		Timeout:       cfg.AI.Timeout,
		NvidiaAPIKey:  cfg.AI.NvidiaAPIKey,
		NvidiaBaseURL: cfg.AI.NvidiaBaseURL,
		NvidiaModel:   cfg.AI.NvidiaModel,
	})
	mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	// 4. Use cases
	authUC := usecase.NewAuthUseCase(userRepo, tokens)
	leadsUC := usecase.NewManageLeadsUseCase(leadRepo, suggestionCache)
	generateUC := usecase.NewGenerateFollowUpsUseCase(leadRepo, userRepo, followUpRepo, sentEmailRepo, provider, suggestionCache)
	listUC := usecase.NewListFollowUpsUseCase(leadRepo, followUpRepo, suggestionCache)
	sendUC := usecase.NewSendEmailUseCase(leadRepo, sentEmailRepo, mailSender)
	listSentUC := usecase.NewListSentEmailsUseCase(leadRepo, sentEmailRepo)

	// 5. Optional RabbitMQ: async regeneration and the due follow-up scheduler
	var (
		regenerateUC *usecase.RequestRegenerationUseCase
		amqpConn     *amqp091.Connection
	)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			log.Printf("[QUEUE] RabbitMQ unavailable, async regeneration disabled: %v", err)
		} else {
			defer rabbitMQ.Close()
			amqpConn = rabbitMQ.Conn

			producer := queue.NewProducer(rabbitMQ.PubCh)
			regenerateUC = usecase.NewRequestRegenerationUseCase(leadRepo, producer)

			consumer := queue.NewWorker(rabbitMQ.Ch, generateUC, 2*cfg.AI.Timeout)
			go func() {
				if err := consumer.Start(ctx, queue.QueueName); err != nil {
					log.Printf("[WORKER] consumer exited: %v", err)
				}
			}()

			dueWorker := worker.NewFollowUpDueWorker(leadRepo, producer, cfg.Worker.ScanInterval)
			go dueWorker.Start(ctx)
		}
	}

	// 6. Handlers and router
	router := newRouter(routerDeps{
		CORSOrigins:      cfg.Server.CORSOrigins,
		Auth:             authUC,
		AuthHandler:      handlers.NewAuthHandler(authUC),
		LeadHandler:      handlers.NewLeadHandler(leadsUC),
		FollowUpHandler:  handlers.NewFollowUpHandler(generateUC, listUC, regenerateUC),
		SentEmailHandler: handlers.NewSentEmailHandler(sendUC, listSentUC),
		HealthHandler:    handlers.NewHealthHandler(db, amqpConn, rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("FollowWise API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
