package app

import (
	"net/http"

	"farmbooking-go/internal/auth"
	"farmbooking-go/internal/config"
	"farmbooking-go/internal/db"
	calendardomain "farmbooking-go/internal/domain/calendar"
	identitydomain "farmbooking-go/internal/domain/identity"
	mediadomain "farmbooking-go/internal/domain/media"
	propertydomain "farmbooking-go/internal/domain/property"
	calendarrepo "farmbooking-go/internal/repository/postgres/calendar"
	identityrepo "farmbooking-go/internal/repository/postgres/identity"
	mediarepo "farmbooking-go/internal/repository/postgres/media"
	propertyrepo "farmbooking-go/internal/repository/postgres/property"
	"farmbooking-go/internal/storage"
	"farmbooking-go/internal/transport/httpserver"
	"farmbooking-go/internal/transport/httpserver/handler"
	authmw "farmbooking-go/internal/transport/httpserver/middleware"
	"farmbooking-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	store, err := storage.NewDiskStore(cfg.Media.UploadDir)
	if err != nil {
		return nil, err
	}

	identityRepo := identityrepo.NewPostgres(dbConn)
	propertyRepo := propertyrepo.NewPostgres(dbConn)
	calendarRepo := calendarrepo.NewPostgres(dbConn)
	mediaRepo := mediarepo.NewPostgres(dbConn)

	identityService := identitydomain.NewService(identityRepo)
	propertyService := propertydomain.NewService(propertyRepo, identityRepo)
	calendarService := calendardomain.NewService(calendarRepo, propertyRepo)
	mediaService := mediadomain.NewService(mediaRepo, store, propertyRepo, mediadomain.Limits{
		MaxImageBytes: cfg.Media.MaxImageBytes,
		MaxVideoBytes: cfg.Media.MaxVideoBytes,
	}, log)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL)
	handlers := handler.New(identityService, propertyService, calendarService, mediaService, tokens, log)
	authMiddleware := authmw.NewAuth(tokens, identityRepo, log)

	router := httpserver.NewRouter(cfg, handlers, authMiddleware, store.Root())
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
