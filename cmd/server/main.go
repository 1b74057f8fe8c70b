package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"note-keeper/internal/auth"
	"note-keeper/internal/backup"
	"note-keeper/internal/config"
	apphttp "note-keeper/internal/http"
	"note-keeper/internal/repository/sqlite"
	"note-keeper/internal/service"
	"note-keeper/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Session.Secret) == "" {
		logger.Fatalf("session secret is required")
	}
	if strings.TrimSpace(cfg.Index.Email) == "" {
		logger.Warn("index email is not configured; /index will answer 404")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := noteRepo.Init(ctx); err != nil {
		logger.Fatalf("init note repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	noteService := service.NewNoteService(noteRepo)

	snapshots, err := buildSnapshotter(ctx, cfg, db, logger)
	if err != nil {
		logger.Fatalf("setup backup: %v", err)
	}
	if snapshots != nil {
		if err := snapshots.Start(ctx); err != nil {
			logger.Fatalf("start backup: %v", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		noteService,
		auth.NewSessionCodec(cfg.Session.Secret, cfg.SessionTTL()),
		apphttp.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		},
		cfg.Index.Email,
		logger,
	)
	if err := handler.RegisterRoutes(router); err != nil {
		logger.Fatalf("register routes: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if snapshots != nil {
		snapshots.Shutdown()
	}

	logger.Info("bye")
}

// buildSnapshotter returns nil when no backup bucket is configured.
func buildSnapshotter(ctx context.Context, cfg config.Config, db *sql.DB, logger *logrus.Logger) (backup.Snapshotter, error) {
	if cfg.Backup.Bucket == "" {
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Backup.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Backup.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("snapshotting database to s3 bucket %s (region %s)", cfg.Backup.Bucket, cfg.Backup.Region)

	return backup.NewSnapshotter(backup.Config{
		Bucket:    cfg.Backup.Bucket,
		KeyPrefix: cfg.Backup.KeyPrefix,
		Interval:  cfg.BackupInterval(),
		Keep:      cfg.Backup.Keep,
		Logger:    logger,
	}, db, storage.NewS3Service(client)), nil
}
