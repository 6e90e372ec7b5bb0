package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/localed/api/internal/handlers"
	"github.com/localed/api/internal/platform/auth"
	"github.com/localed/api/internal/platform/config"
	pfirestore "github.com/localed/api/internal/platform/firestore"
	"github.com/localed/api/internal/platform/jobs"
	"github.com/localed/api/internal/platform/observability"
	platformstorage "github.com/localed/api/internal/platform/storage"
	"github.com/localed/api/internal/repositories"
	firestoreRepo "github.com/localed/api/internal/repositories/firestore"
	"github.com/localed/api/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	artifactStore, err := platformstorage.NewArtifactStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialise artifact store", zap.Error(err))
	}
	defer func() {
		if err := artifactStore.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.Pubsub.ProjectID)
	if err != nil {
		logger.Fatal("failed to initialise pubsub client", zap.Error(err))
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logger.Warn("pubsub close error", zap.Error(err))
		}
	}()
	contactTopic := pubsubClient.Topic(cfg.Pubsub.ContactTopic)
	defer contactTopic.Stop()

	contactNotifier, err := jobs.NewPubSubContactNotifier(contactTopic)
	if err != nil {
		logger.Fatal("failed to initialise contact notifier", zap.Error(err))
	}

	authOpts := []auth.Option{auth.WithAdminUIDs(cfg.Auth.AdminUIDs)}
	var verifier auth.TokenVerifier
	if cfg.Auth.DevOwnerUID != "" {
		logger.Warn("dev owner uid set; token verification disabled", zap.String("uid", cfg.Auth.DevOwnerUID))
		authOpts = append(authOpts, auth.WithDevOwnerUID(cfg.Auth.DevOwnerUID))
	} else {
		firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
		if err != nil {
			logger.Fatal("failed to initialise firebase verifier", zap.Error(err))
		}
		verifier = firebaseVerifier
	}
	authenticator := auth.NewAuthenticator(verifier, authOpts...)

	siteRepo, err := firestoreRepo.NewSiteRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise site repository", zap.Error(err))
	}
	submissionRepo, err := firestoreRepo.NewContactSubmissionRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise contact submission repository", zap.Error(err))
	}
	flagRepo, err := firestoreRepo.NewFeatureFlagRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise feature flag repository", zap.Error(err))
	}

	siteService, err := services.NewSiteService(services.SiteServiceDeps{
		Sites:     siteRepo,
		Artifacts: artifactStore,
		BaseURL:   cfg.Publishing.BaseURL,
		Clock:     time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise site service", zap.Error(err))
	}
	contactService, err := services.NewContactService(services.ContactServiceDeps{
		Sites:       siteRepo,
		Submissions: submissionRepo,
		Notifier:    contactNotifier,
		Clock:       time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise contact service", zap.Error(err))
	}
	flagService, err := services.NewFeatureFlagService(services.FeatureFlagServiceDeps{
		Sites: siteRepo,
		Flags: flagRepo,
		Clock: time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise feature flag service", zap.Error(err))
	}

	healthRepo, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{
			Name: "firestore",
			Check: func(ctx context.Context) error {
				_, err := firestoreClient.Collection("localed_sites").Limit(1).Documents(ctx).GetAll()
				return err
			},
		},
		{
			Name: "pubsub",
			Check: func(ctx context.Context) error {
				_, err := contactTopic.Exists(ctx)
				return err
			},
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise health repository", zap.Error(err))
	}

	siteHandlers := handlers.NewSiteHandlers(authenticator, siteService, contactService, flagService)
	contactHandlers := handlers.NewContactHandlers(contactService, siteService)
	publicHandlers := handlers.NewPublicSiteHandlers(siteService)
	healthHandlers := handlers.NewHealthHandlers(healthRepo)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(cfg.Firebase.ProjectID),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithSiteRoutes(siteHandlers.Routes),
		handlers.WithContactRoutes(contactHandlers.Routes),
		handlers.WithPublicSiteHandler(publicHandlers.ServeSite),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("localed api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
