package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"support/application/health"
	"support/application/tickets/handler"
	"support/application/tickets/repository"
	"support/application/tickets/service"
	"support/common"
	"support/config"
	"support/internal/upload"
	"support/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	z := NewLogger()
	defer z.Sync()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to setup database:", err)
	}

	// Upload directory must exist before the static route is mounted.
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("Failed to create upload directory:", err)
	}

	r := SetupRouter(db, cfg, z)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  55 * time.Second,
		WriteTimeout: 55 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	srv.Shutdown(context.Background())
}

func NewLogger() *zap.Logger {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return zapLogger
}

// openDatabase opens the relational store selected by the configuration and
// migrates the schema. TranslateError is enabled so unique-constraint
// violations surface as gorm.ErrDuplicatedKey regardless of driver.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.DBDriver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&common.Ticket{}, &common.Response{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SetupRouter wires the feature stack onto a gin engine.
func SetupRouter(db *gorm.DB, cfg *config.Config, z *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestInit())
	r.Use(middleware.RequestLogger(z))

	healthRepo := health.NewRepository(db)
	healthSvc := health.NewService(healthRepo)
	healthHandler := health.NewHandler(healthSvc)

	saver := upload.NewSaver(cfg.UploadDir, cfg.MaxUploadSize, z)
	ticketsRepo := repository.NewRepository(db)
	ticketsSvc := service.NewService(ticketsRepo, saver, z)
	ticketsHandler := handler.NewHandler(ticketsSvc)

	api := r.Group("")
	healthHandler.RegisterRoutes(api)
	ticketsHandler.RegisterRoutes(api)

	// Stored files are exposed verbatim under their storage filenames.
	r.Static("/uploads", cfg.UploadDir)

	return r
}
