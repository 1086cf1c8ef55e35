package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/ai"
	"github.com/fdg312/diet-planner/internal/auth"
	"github.com/fdg312/diet-planner/internal/blob"
	"github.com/fdg312/diet-planner/internal/catalog"
	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/exports"
	"github.com/fdg312/diet-planner/internal/foods"
	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/planner"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/storage/memory"
	"github.com/fdg312/diet-planner/internal/storage/postgres"
)

// backend: общий набор хранилищ memory и postgres
type backend interface {
	storage.Storage
	GetFoodsStorage() storage.FoodsStorage
	GetMealPlansStorage() storage.MealPlansStorage
	GetExportsStorage() storage.ExportsStorage
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	logger         *zap.Logger
	mux            *http.ServeMux
	storage        backend
	mongo          *catalog.MongoReader
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер и связывает все сервисы
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.initStorage(ctx)

	reader, err := s.initCatalog(ctx)
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	blobStore, _, err := blob.NewBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	s.routes(reader, blobStore)
	return s, nil
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage(ctx context.Context) {
	if s.config.DatabaseURL == "" {
		s.logger.Info("storage: in-memory")
		s.storage = memory.New()
		return
	}

	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		s.logger.Warn("storage: postgres unavailable, fallback to in-memory", zap.Error(err))
		s.storage = memory.New()
		return
	}
	s.logger.Info("storage: postgres")
	s.storage = pgStorage
}

// initCatalog: MongoDB, если задан CATALOG_MONGO_URI, иначе таблица foods
func (s *Server) initCatalog(ctx context.Context) (planner.CatalogReader, error) {
	if !s.config.Catalog.MongoEnabled() {
		return catalog.NewStoreReader(s.storage.GetFoodsStorage()), nil
	}

	reader, err := catalog.NewMongoReader(ctx, s.config.Catalog, s.logger)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	s.mongo = reader
	return reader, nil
}

func plannerConfig(c config.PlannerConfig) planner.Config {
	return planner.Config{
		CalorieFloorKcal: c.CalorieFloorKcal,
		GoalAdjustKcal:   c.GoalAdjustKcal,
		SlotFillRatio:    c.SlotFillRatio,
		RepeatWindowDays: c.RepeatWindowDays,
	}
}

// routes регистрирует маршруты
func (s *Server) routes(reader planner.CatalogReader, blobStore blob.Store) {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService, s.logger)
	s.authMiddleware = auth.NewMiddleware(s.config, authService, s.logger)
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Profiles
	plannerCfg := plannerConfig(s.config.Planner)
	profileService := profiles.NewService(s.storage, plannerCfg)
	profileHandler := profiles.NewHandler(profileService, s.logger)
	s.mux.HandleFunc("GET /v1/profiles", profileHandler.HandleList)
	s.mux.HandleFunc("POST /v1/profiles", profileHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/profiles/{id}", profileHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/profiles/{id}", profileHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/profiles/{id}", profileHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/profiles/{id}/targets", profileHandler.HandleTargets)

	// Food catalog
	foodsHandler := foods.NewHandler(foods.NewService(s.storage.GetFoodsStorage()), s.logger)
	s.mux.HandleFunc("GET /v1/foods", foodsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/foods", foodsHandler.HandleUpsert)
	s.mux.HandleFunc("DELETE /v1/foods/{id}", foodsHandler.HandleDelete)

	// Meal plans
	generator := planner.NewGenerator(plannerCfg, reader, planner.NewRand(s.config.Planner.RandomSeed))
	describer := ai.NewProvider(s.config, s.logger)
	mealPlanService := mealplans.NewService(s.storage.GetMealPlansStorage(), profileService, generator, describer, s.logger)
	mealPlanHandler := mealplans.NewHandler(mealPlanService, s.logger)
	s.mux.HandleFunc("POST /v1/diet/generate", mealPlanHandler.HandleGenerate)
	s.mux.HandleFunc("GET /v1/diet/plan", mealPlanHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/diet/today", mealPlanHandler.HandleGetToday)
	s.mux.HandleFunc("DELETE /v1/diet/plan", mealPlanHandler.HandleDelete)

	// Exports
	exportService := exports.NewService(s.storage.GetExportsStorage(), mealPlanService, blobStore, s.config.ExportsMaxPerDay, s.logger)
	exportHandler := exports.NewHandlers(exportService, s.logger)
	s.mux.HandleFunc("POST /v1/diet/plan/export", exportHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/exports/{id}/download", exportHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/exports/{id}", exportHandler.HandleDelete)
}

// Handler собирает цепочку middleware снаружи внутрь: CORS → Rate Limit → Access Log → Auth → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.Handler(handler)
	handler = AccessLogMiddleware(s.logger, handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер и останавливает его при отмене ctx
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(2*s.config.AITimeoutSeconds+30) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("healthz", fmt.Sprintf("http://localhost%s/healthz", srv.Addr)),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if s.mongo != nil {
		errs = append(errs, s.mongo.Close(ctx))
	}
	if s.storage != nil {
		errs = append(errs, s.storage.Close())
	}
	return errors.Join(errs...)
}
