package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"muuapp-api/internal/auth"
	"muuapp-api/internal/config"
	apphttp "muuapp-api/internal/http"
	"muuapp-api/internal/mail"
	"muuapp-api/internal/repository/sqlite"
	"muuapp-api/internal/service"
	"muuapp-api/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	ranchRepo := sqlite.NewRanchRepository(db)

	mailer, err := mail.New(mail.Config{
		Host:       cfg.Mail.Host,
		Username:   cfg.Mail.Username,
		Password:   cfg.Mail.Password,
		From:       cfg.Mail.From,
		SkipVerify: cfg.Mail.SkipVerify,
		Timeout:    cfg.Mail.Timeout,
	}, logger)
	if err != nil {
		logger.Fatalf("setup mail: %v", err)
	}

	templates, err := buildTemplates(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("load email templates: %v", err)
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.ResetTTL)

	authService := service.NewAuthService(userRepo, hasher, issuer, mailer, templates, service.AuthConfig{
		ResetPageURL:      cfg.Mail.ResetURL,
		ResetSubject:      cfg.Mail.Subject,
		RequireResetToken: cfg.Auth.RequireResetToken,
	}, logger)
	userService := service.NewUserService(userRepo, ranchRepo, hasher)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(authService, userService, issuer, logger)
	handler.RegisterRoutes(router, cfg.Server.BasePath)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apphttp.WithCORS(router, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
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

	logger.Info("bye")
}

// buildTemplates reads the reset email from S3 when a bucket is configured and
// falls back to the embedded template otherwise.
func buildTemplates(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*mail.Templates, error) {
	if cfg.Templates.Bucket == "" {
		return mail.DefaultTemplates(), nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Templates.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Templates.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Templates.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("loading email templates from s3://%s/%s (region %s)", cfg.Templates.Bucket, cfg.Templates.Key, cfg.Templates.Region)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return mail.LoadTemplates(fetchCtx, storage.NewS3Service(client), cfg.Templates.Bucket, cfg.Templates.Key)
}
