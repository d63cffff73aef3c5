package server

import (
	"path/filepath"
	"strings"
	"time"

	"anoa.com/librarydesk/internal/config"
	"anoa.com/librarydesk/internal/handler"
	"anoa.com/librarydesk/internal/middleware"
	"anoa.com/librarydesk/internal/repository"
	"anoa.com/librarydesk/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
}

// New builds the service graph and the API router. All dependencies are
// injected; nothing is read from process globals here.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	trxRepo := repository.NewTransactionRepository(db)

	limiter := service.NewLoginLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginLockWindow)

	authSvc := service.NewAuthService(userRepo, limiter, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	bookSvc := service.NewBookService(bookRepo, trxRepo)
	bookHandler := handler.NewBookHandler(bookSvc)

	studentSvc := service.NewStudentService(userRepo, trxRepo)
	studentHandler := handler.NewStudentHandler(studentSvc)

	lendingSvc := service.NewLendingService(trxRepo, bookRepo)
	trxHandler := handler.NewTransactionHandler(lendingSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())

	setupCORS(router, cfg.AllowedOrigins)
	setupStatic(router, cfg.StaticDir)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	api.GET("/books", bookHandler.List)
	api.GET("/books/:id", bookHandler.Get)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		admin := protected.Group("")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/books", bookHandler.Create)
			admin.PUT("/books/:id", bookHandler.Update)
			admin.DELETE("/books/:id", bookHandler.Delete)

			admin.GET("/students", studentHandler.List)
			admin.POST("/students", studentHandler.Create)
			admin.PUT("/students/:id", studentHandler.Update)
			admin.DELETE("/students/:id", studentHandler.Delete)

			admin.GET("/transactions", trxHandler.List)
			admin.POST("/transactions/issue", trxHandler.Issue)
			admin.POST("/transactions/return", trxHandler.Return)
			admin.POST("/transactions/update-overdue", trxHandler.UpdateOverdue)
			admin.PUT("/transactions/:id/extend", trxHandler.Extend)
		}

		// Ownership-checked in the handlers (admin or the student themself)
		protected.GET("/students/:id", studentHandler.Get)
		protected.GET("/students/:id/books", studentHandler.ListLoans)

		protected.POST("/transactions/request", trxHandler.Request)
	}

	return &Server{engine: router}
}

// Lending exposes the lending service for the cron scheduler.
func Lending(db *gorm.DB) service.LendingService {
	return service.NewLendingService(
		repository.NewTransactionRepository(db),
		repository.NewBookRepository(db),
	)
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine is exported for handler-level tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func setupStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}

	router.Static("/static", staticDir)
	router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	router.StaticFile("/admin", filepath.Join(staticDir, "admin.html"))
	router.StaticFile("/student", filepath.Join(staticDir, "student.html"))
}
