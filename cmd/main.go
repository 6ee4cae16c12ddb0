package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	"social-app/config"
	"social-app/internal/gateway"
	"social-app/internal/handler"
	"social-app/internal/metrics"
	"social-app/internal/model"
	"social-app/internal/notifier"
	"social-app/internal/repository"
	"social-app/internal/scheduler"
	"social-app/internal/security"
	"social-app/internal/service"
	"social-app/internal/util"
)

const sweepTimeout = 30 * time.Second

// @title Social-app
// @version 1.0
// @description REST API социальной сети: аутентификация, посты, друзья и чат

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка загрузки конфигурации")
	}
	if err := config.SetupLogger(&cfg.Logger); err != nil {
		log.Fatal().Err(err).Msg("ошибка настройки логгера")
	}
	util.ExposeErrorStack(!cfg.IsProduction())

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("не удалось подключиться к БД")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("ошибка при закрытии БД")
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка подключения к Redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("ошибка при закрытии Redis")
		}
	}()

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatal().Err(err).Msg("ошибка создания S3 сервиса")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	chatRepo := repository.NewChatRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	jwtService := security.NewJWTService(&cfg.JWT)
	hasher := security.NewHasher(cfg.Security.SaltRounds)
	mailer := notifier.NewMailer(&cfg.Mailer)

	revocationService := service.NewRevocationService(revokedRepo, cacheRepo, db)
	authService := service.NewAuthenticationService(userRepo, revocationService, jwtService, hasher, mailer, db, cfg.OTPTTL())
	userService := service.NewUserService(userRepo, s3Service, db, cfg.PresignedURLTTL())
	postService := service.NewPostService(postRepo, commentRepo, userRepo, s3Service, db, cfg.PresignedURLTTL())
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, s3Service, db)
	friendService := service.NewFriendService(friendRepo, userRepo, db)
	chatService := service.NewChatService(chatRepo, userRepo, db)

	resolver := security.NewSessionResolver(jwtService, revocationService, userRepo, db)

	jobs := scheduler.New()
	if err := jobs.ScheduleSweep(cfg.RevokeSweepInterval(), revocationService, sweepTimeout); err != nil {
		log.Fatal().Err(err).Msg("ошибка планирования очистки отозванных токенов")
	}
	jobs.Start()
	defer jobs.Stop()

	srv, router := config.SetupServer(cfg.Server.Addr)
	router.Use(middleware.RequestID, middleware.Recoverer, metrics.Middleware)
	router.Handle("/metrics", metrics.Handler())
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	limiter := handler.NewRateLimiter(&cfg.RateLimit)
	setupAuthRoutes(router, handler.NewAuthenticationHandler(authService), resolver, limiter)
	setupUserRoutes(router, handler.NewUserHandler(userService), resolver)
	setupPostRoutes(router, handler.NewPostHandler(postService, commentService), resolver)
	setupFriendRoutes(router, handler.NewFriendHandler(friendService), resolver)
	setupChatRoutes(router, handler.NewChatHandler(chatService), resolver)
	router.Handle("/ws", gateway.NewGateway(resolver, chatService, gateway.NewMemoryRegistry(), cfg.Server.AllowedOrigins))

	runServer(ctx, srv, cfg.ShutdownTimeout())
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, resolver security.Resolver, limiter *handler.RateLimiter) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/signup", h.Signup)
			r.Post("/confirm-email", h.ConfirmEmail)
			r.Post("/resend-confirm-email", h.ResendConfirmEmail)
			r.Post("/login", h.Login)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)
		})
		r.With(security.Authentication(resolver, model.TokenKindRefresh, security.SessionOptions{AllowFrozen: true})).
			Post("/refresh", h.Refresh)
		r.With(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{AllowFrozen: true})).
			Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{}))
			r.Get("/me", h.Me)
			r.Head("/me", h.Me)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, resolver security.Resolver) {
	r.Route("/api/users", func(r chi.Router) {
		r.With(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{AllowFrozen: true})).
			Post("/{uuid}/unfreeze", h.Unfreeze)

		r.Group(func(r chi.Router) {
			r.Use(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{}))
			r.Get("/{uuid}", h.GetUser)
			r.Get("/{uuid}/avatar", h.GetAvatar)
			r.Post("/{uuid}/avatar", h.AvatarUploadURL)
			r.Post("/{uuid}/freeze", h.Freeze)
			r.Post("/{uuid}/block", h.Block)
			r.Delete("/{uuid}/block", h.Unblock)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.Authorization(resolver, model.TokenKindAccess, model.RoleAdmin, model.RoleSuperAdmin))
			r.Delete("/{uuid}", h.DeleteUser)
		})

		r.With(security.Authorization(resolver, model.TokenKindAccess, model.RoleSuperAdmin)).
			Put("/{uuid}/role", h.ChangeRole)
	})
}

func setupPostRoutes(r chi.Router, h *handler.PostHandler, resolver security.Resolver) {
	r.Route("/api/posts", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.OptionalAuthentication(resolver, model.TokenKindAccess))
			r.Get("/", h.ListPosts)
			r.Get("/{uuid}", h.GetPost)
			r.Get("/{uuid}/comments", h.ListComments)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{}))
			r.Post("/", h.CreatePost)
			r.Patch("/{uuid}", h.UpdatePost)
			r.Delete("/{uuid}", h.DeletePost)
			r.Post("/{uuid}/like", h.LikePost)
			r.Post("/{uuid}/freeze", h.FreezePost)
			r.Post("/{uuid}/unfreeze", h.UnfreezePost)
			r.Post("/{uuid}/comments", h.CreateComment)
		})
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.With(security.OptionalAuthentication(resolver, model.TokenKindAccess)).Get("/{uuid}", h.GetComment)

		r.Group(func(r chi.Router) {
			r.Use(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{}))
			r.Patch("/{uuid}", h.UpdateComment)
			r.Delete("/{uuid}", h.DeleteComment)
			r.Post("/{uuid}/freeze", h.FreezeComment)
			r.Post("/{uuid}/unfreeze", h.UnfreezeComment)
		})
	})
}

func setupFriendRoutes(r chi.Router, h *handler.FriendHandler, resolver security.Resolver) {
	r.Route("/api/friends", func(r chi.Router) {
		r.Use(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{}))
		r.Get("/requests", h.ListRequests)
		r.Post("/requests/{uuid}/accept", h.AcceptRequest)
		r.Post("/requests/{uuid}/reject", h.RejectRequest)
		r.Post("/{uuid}", h.SendRequest)
		r.Delete("/{uuid}", h.RemoveFriend)
	})
}

func setupChatRoutes(r chi.Router, h *handler.ChatHandler, resolver security.Resolver) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Use(security.Authentication(resolver, model.TokenKindAccess, security.SessionOptions{}))
		r.Get("/{userId}", h.GetChat)
	})
}

func runServer(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("сервер запущен")
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ошибка работы сервера")
		}
	case sig := <-signalChannel:
		log.Info().Str("signal", sig.String()).Msg("получен сигнал остановки сервера")
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Error().Err(err).Msg("ошибка при остановке сервера")
	} else {
		log.Info().Msg("сервер успешно остановлен")
	}
}
