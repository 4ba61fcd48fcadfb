package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/handler"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/response"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const bootstrapTimeout = 10 * time.Second

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger
}

// Services are the long-lived objects shared by every request.
type Services struct {
	Auth  *service.AuthService
	Tasks *service.TaskService
}

// NewServices wires stores, codec and engines together.
func NewServices(users service.UserStore, sessions service.SessionStore, tasks service.TaskStore, cfg *config.Config, logger *slog.Logger) *Services {
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL)
	return &Services{
		Auth:  service.NewAuthService(users, sessions, codec, logger),
		Tasks: service.NewTaskService(tasks, users, logger),
	}
}

func Init(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if cfg.DBAutoMigrate {
		if err := database.Migrate(cfg.MigrationURL()); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	services := NewServices(userRepo, sessionRepo, taskRepo, cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := services.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	return &Server{
		Engine: NewRouter(services, logger),
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

// NewRouter mounts every route under /api.
func NewRouter(services *Services, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(services.Auth)
	taskHandler := handler.NewTaskHandler(services.Tasks)
	authenticated := middleware.AuthMiddleware(services.Auth, logger)

	r.GET("/health", func(c *gin.Context) {
		response.JSON(c, http.StatusOK, "OK", nil)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authenticated, authHandler.Logout)
		authRoutes.GET("/users", authenticated, authHandler.ListUsers)
		authRoutes.POST("/create", authenticated, middleware.RequireRole(model.RoleAdmin), authHandler.CreateAdmin)
	}

	// Task routes
	taskRoutes := api.Group("/tasks")
	taskRoutes.Use(authenticated)
	{
		taskRoutes.POST("", taskHandler.Create)
		taskRoutes.GET("", taskHandler.List)
		taskRoutes.GET("/:id", taskHandler.GetByID)
		taskRoutes.PUT("/:id", taskHandler.Update)
		taskRoutes.DELETE("/:id", taskHandler.Delete)
		taskRoutes.POST("/assign-task/:id", taskHandler.Assign)
	}

	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.Logger.Info("server running", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("failed to listen", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Error("server forced to shutdown", "error", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	s.Logger.Info("server exited properly")
}
