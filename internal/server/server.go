package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/db"
	"github.com/exercise-tracker/apiserver/internal/handlers"
	"github.com/exercise-tracker/apiserver/internal/logging"
	"github.com/exercise-tracker/apiserver/internal/metrics"
	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// requestTimeout cancels a handler's context before writeTimeout closes the
// connection, so a slow request still gets a 503 response.
const (
	readTimeout    = 15 * time.Second
	writeTimeout   = 15 * time.Second
	idleTimeout    = 60 * time.Second
	requestTimeout = 10 * time.Second
)

// Deps are the collaborators the router is built from. Events and Objects
// are optional.
type Deps struct {
	Users     services.UserRepository
	Exercises services.ExerciseRepository
	Events    services.EventPublisher
	Objects   services.ObjectStore
	Metrics   *metrics.Metrics
	Logger    logrus.FieldLogger
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     logrus.FieldLogger

	db      *sql.DB
	mongo   *mongo.Client
	mq      *mq.MQ
	storage *storage.Storage
}

// New opens the configured store, event backend and object storage and
// constructs a Server around them.
func New(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Server, error) {
	s := &Server{logger: logger}
	deps := Deps{
		Metrics: metrics.New(),
		Logger:  logger,
	}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.db = dbConn
		deps.Users = store.NewUserRepository(dbConn)
		deps.Exercises = store.NewExerciseRepository(dbConn)
	case config.StoreDriverMongo:
		client, database, err := db.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		s.mongo = client
		deps.Users = store.NewMongoUserRepository(database)
		deps.Exercises = store.NewMongoExerciseRepository(database)
	case config.StoreDriverMemory:
		deps.Users = store.NewMemoryUserRepository()
		deps.Exercises = store.NewMemoryExerciseRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	queue, err := mq.Open(ctx, cfg)
	if err != nil {
		s.closeResources(ctx)
		return nil, err
	}
	if queue != nil {
		s.mq = queue
		deps.Events = queue
	}

	objects, err := storage.Open(ctx, cfg)
	if err != nil {
		s.closeResources(ctx)
		return nil, err
	}
	if objects != nil {
		s.storage = objects
		deps.Objects = objects
	}

	s.router = NewRouter(cfg, deps)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	logger.WithFields(logrus.Fields{
		"store":   cfg.StoreDriver,
		"mq":      cfg.MQDriver,
		"storage": cfg.StorageDriver,
	}).Info("server configured")

	return s, nil
}

// NewRouter wires services and handlers onto a chi router.
func NewRouter(cfg config.Config, deps Deps) *chi.Mux {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	userService := services.NewUserService(deps.Users, deps.Logger, deps.Metrics)
	opts := []services.ExerciseOption{
		services.WithStrictDuration(cfg.StrictDuration),
		services.WithRecorder(deps.Metrics),
	}
	if deps.Events != nil {
		opts = append(opts, services.WithEvents(deps.Events))
	}
	exerciseService := services.NewExerciseService(deps.Users, deps.Exercises, deps.Logger, opts...)

	var exporter *services.LogExporter
	if deps.Objects != nil {
		exporter = services.NewLogExporter(exerciseService, deps.Objects, deps.Logger, deps.Metrics)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.RequestLogger(deps.Logger),
		deps.Metrics.Middleware,
		corsMiddleware(cfg.CORSAllowedOrigins),
		middleware.Timeout(requestTimeout),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	router.Route("/api/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, exerciseService, exporter)
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then closes every backend.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeResources(ctx)
	return err
}

func (s *Server) closeResources(ctx context.Context) {
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			s.logger.WithError(err).Warn("close mq failed")
		}
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			s.logger.WithError(err).Warn("close storage failed")
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			s.logger.WithError(err).Warn("disconnect mongo failed")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
