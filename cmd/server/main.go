package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/follow"
	"socialnet/internal/handler"
	"socialnet/internal/mail"
	"socialnet/internal/queue"
	"socialnet/internal/repository"
	"socialnet/internal/router"
	queue_publisher "socialnet/internal/service"
	"socialnet/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	resetRepo := repository.NewResetTokenRepo(db)
	followRepo := repository.NewFollowRepo(db)
	postRepo := repository.NewPostRepo(db)

	authSvc := auth.NewService(auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTTL:          cfg.AccessTokenTTL,
		RefreshTTL:         cfg.RefreshTokenTTL,
		ResetTTL:           cfg.ResetTokenTTL,
		BcryptCost:         cfg.BcryptCost,
		MinPasswordEntropy: cfg.MinPasswordEntropy,
	}, userRepo, tokenRepo, resetRepo, queue_publisher.NewResetPublisher())

	followSvc := follow.NewService(userRepo, followRepo)

	var store *storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		store, err = storage.New(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("object storage: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatalf("object storage: %v", err)
		}
		cancel()
	} else {
		log.Println("object storage not configured; profile picture upload disabled")
	}

	// Mail delivery happens off the request path: the forgot-password
	// handler publishes an event, this consumer sends the email.
	if cfg.SMTPHost != "" {
		sender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.ResetURL)
		go func() {
			if err := queue.StartPasswordResetConsumer(sender); err != nil {
				log.Printf("mail-consumer: %v", err)
			}
		}()
	} else {
		log.Println("SMTP not configured; reset emails stay queued")
	}

	// Reap expired reset tokens hourly; consumption never deletes rows.
	go func() {
		for range time.Tick(time.Hour) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := resetRepo.DeleteExpired(ctx); err != nil {
				log.Printf("reset-token reaper: %v", err)
			} else if n > 0 {
				log.Printf("reset-token reaper: removed %d expired tokens", n)
			}
			cancel()
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Profile: handler.NewProfileHandler(userRepo, followSvc, store),
		Follow:  handler.NewFollowHandler(followSvc),
		Post:    handler.NewPostHandler(postRepo),
	}, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
