package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusconnect/portal-api/api/swagger"
	"github.com/campusconnect/portal-api/internal/handler"
	"github.com/campusconnect/portal-api/internal/middleware"
	"github.com/campusconnect/portal-api/internal/repository"
	"github.com/campusconnect/portal-api/internal/service"
	"github.com/campusconnect/portal-api/pkg/cache"
	"github.com/campusconnect/portal-api/pkg/config"
	"github.com/campusconnect/portal-api/pkg/database"
	"github.com/campusconnect/portal-api/pkg/export"
	"github.com/campusconnect/portal-api/pkg/jobs"
	"github.com/campusconnect/portal-api/pkg/logger"
	"github.com/campusconnect/portal-api/pkg/mailer"
	reqidmiddleware "github.com/campusconnect/portal-api/pkg/middleware/requestid"
	"github.com/campusconnect/portal-api/pkg/poll"
)

// @title Campus Connect API
// @version 1.0.0
// @description Campus event management portal
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	vacancyRepo := repository.NewVacancyRepository(db)
	clubRepo := repository.NewClubRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	eventSvc := service.NewEventService(eventRepo, validate, logr, service.EventDefaults{
		Capacity: cfg.Events.DefaultCapacity,
		Fees:     cfg.Events.DefaultFees,
	})
	eventSvc.SetRegistrationObserver(metricsSvc.RecordRegistration)

	navigationSvc := service.NewNavigationService(cacheRepo, logr, cfg.Navigation.StateTTL)

	notificationSvc := service.NewNotificationService(notificationRepo, logr, queueCfg)
	notificationSvc.StartQueue(ctx)
	defer notificationSvc.StopQueue()

	pdfExporter := export.NewPDFExporter()
	certificateSvc := service.NewCertificateService(certificateRepo, pdfExporter, cacheRepo, logr)

	approvalSvc := service.NewApprovalService(approvalRepo, notificationSvc, certificateSvc, validate, logr)

	mailClient := mailer.New(cfg.Mail, logr)
	hostelSvc := service.NewHostelService(hostelRepo, mailClient, cacheRepo, logr, cfg.PublicURL, queueCfg)
	hostelSvc.SetMailObserver(metricsSvc.RecordMailSent)
	hostelSvc.StartQueue(ctx)
	defer hostelSvc.StopQueue()

	attendanceSvc := service.NewAttendanceService(attendanceRepo, export.NewCSVExporter(), logr)
	vacancySvc := service.NewVacancyService(vacancyRepo, notificationSvc, validate, logr)
	clubSvc := service.NewClubService(clubRepo, logr)

	summarySvc := service.NewSummaryService(eventRepo, cacheRepo, logr, cfg.Summary.CacheTTL)
	summarySvc.SetCacheObserver(metricsSvc.RecordCacheOperation)

	if cfg.Poller.Enabled {
		hostelPoller := poll.New("hostel-snapshot", cfg.Poller.Interval, hostelSvc.RefreshSnapshot,
			logr, poll.WithObserver(metricsSvc.RecordPollerRun))
		hostelPoller.Start(ctx)
		defer hostelPoller.Stop()

		certificatePoller := poll.New("certificate-snapshot", cfg.Poller.Interval, certificateSvc.RefreshSnapshot,
			logr, poll.WithObserver(metricsSvc.RecordPollerRun))
		certificatePoller.Start(ctx)
		defer certificatePoller.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Session-ID")
	r.Use(cors.New(corsCfg))

	handlers := &handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Event:        handler.NewEventHandler(eventSvc),
		Navigation:   handler.NewNavigationHandler(navigationSvc),
		Approval:     handler.NewApprovalHandler(approvalSvc),
		Hostel:       handler.NewHostelHandler(hostelSvc),
		Certificate:  handler.NewCertificateHandler(certificateSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc),
		Vacancy:      handler.NewVacancyHandler(vacancySvc),
		Club:         handler.NewClubHandler(clubSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Summary:      handler.NewSummaryHandler(summarySvc),
		Metrics: handler.NewMetricsHandler(metricsSvc,
			handler.ReadinessCheck{Name: "postgres", Probe: db.Ping},
			handler.ReadinessCheck{Name: "redis", Probe: func() error {
				return redisClient.Ping(context.Background()).Err()
			}},
		),
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, userRepo)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
