// Package app wires configuration, storage and services into one container
// shared by the HTTP server and the CLI commands.
package app

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/configs"
	database "tamilvalam_backend/internals/databases"
	initiativeService "tamilvalam_backend/internals/features/initiatives/service"
	authService "tamilvalam_backend/internals/features/users/auth/service"
	"tamilvalam_backend/internals/helpers/events"
	"tamilvalam_backend/internals/helpers/search"
	"tamilvalam_backend/internals/helpers/storage"
)

type App struct {
	Config *configs.Config
	Log    *zap.Logger
	DB     *gorm.DB

	Store     *storage.LocalStore
	Index     search.Index
	Publisher events.Publisher

	Auth        *authService.AuthService
	Initiatives *initiativeService.InitiativeService
	Images      *initiativeService.ImageService
}

// New connects the database and builds the services. Meilisearch and Kafka
// are optional and only wired when configured.
func New(cfg *configs.Config, log *zap.Logger) (*App, error) {
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a, err := NewWithDB(cfg, log, db)
	if err != nil {
		database.Close(db)
		return nil, err
	}
	return a, nil
}

// NewWithDB builds the container on an existing connection.
func NewWithDB(cfg *configs.Config, log *zap.Logger, db *gorm.DB) (*App, error) {
	store := storage.NewLocalStore(cfg.Upload)
	if err := store.EnsureDir(); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}

	var index search.Index
	if cfg.Search.Host != "" {
		mi := search.NewMeiliIndex(cfg.Search.Host, cfg.Search.APIKey, cfg.Search.Index)
		if err := mi.Init(); err != nil {
			log.Warn("meilisearch init failed, falling back to SQL search", zap.Error(err))
		} else {
			index = mi
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		// Validate only lets this through in development.
		secret = "development-only-secret"
		log.Warn("JWT_SECRET is empty, using the development secret")
	}
	tokens := authService.NewTokenService(secret, cfg.JWT.TTL)

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Store:       store,
		Index:       index,
		Publisher:   publisher,
		Auth:        authService.NewAuthService(db, tokens, log.Named("auth")),
		Initiatives: initiativeService.NewInitiativeService(db, store, index, log.Named("initiatives")),
		Images:      initiativeService.NewImageService(db, store, publisher, log.Named("images")),
	}, nil
}

// Close flushes the event publisher and closes the database.
func (a *App) Close() {
	if err := a.Publisher.Close(); err != nil {
		a.Log.Warn("close publisher", zap.Error(err))
	}
	database.Close(a.DB)
	_ = a.Log.Sync()
}
