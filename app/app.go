// Package app assembles the storefront from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Kariqs/goneer-api/config"
	"github.com/Kariqs/goneer-api/controllers"
	"github.com/Kariqs/goneer-api/initializers"
	"github.com/Kariqs/goneer-api/metrics"
	"github.com/Kariqs/goneer-api/postal"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/Kariqs/goneer-api/services"
	"github.com/Kariqs/goneer-api/session"
	"github.com/Kariqs/goneer-api/storage"
	"github.com/Kariqs/goneer-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	uploadsPath          = "/uploads"
	shutdownTimeout      = 10 * time.Second
	sessionSweepInterval = 10 * time.Minute
)

type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Repos   *repository.Repositories
	Store   *session.Store
	Tokens  *session.Tokens
	Metrics *metrics.Metrics
	Router  *gin.Engine

	closers []func() error
}

// New connects the backends named by cfg, seeds empty collections and
// builds the router.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Tokens: session.NewTokens(cfg.App.JWTSecret)}

	if err := a.openRepositories(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := repository.Seed(ctx, a.Repos); err != nil {
		a.Close()
		return nil, fmt.Errorf("seed data: %w", err)
	}

	persister, err := a.openPersister(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	images, err := a.openImageStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	latency := utils.Latency{Scale: cfg.App.LatencyScale}
	cities := postal.NewClient(cfg.App.PostalAPIURL, cfg.App.PostalTimeout)
	a.Store = session.NewStore(a.Repos.Users, a.Repos.Profiles, persister,
		session.WithCityLookup(cities),
		session.WithLatency(latency),
		session.WithLogger(log.Named("session")),
	)
	a.Metrics = metrics.New(prometheus.NewRegistry())

	opts := services.Options{Latency: latency, Metrics: a.Metrics, Log: log.Named("services")}
	c := &controllers.Controller{
		Checkout:  services.NewCheckout(a.Repos.Orders, a.notifier(), opts),
		Orders:    services.NewOrders(a.Repos.Orders, a.Repos.Vendors, opts),
		Catalog:   services.NewCatalog(a.Repos.Vendors, a.Repos.Products, images, opts),
		Dashboard: services.NewDashboard(a.Repos, opts),
		Cities:    cities,
	}

	uploadDir := ""
	if cfg.Storage.S3Bucket == "" {
		uploadDir = cfg.Storage.UploadDir
	}
	a.Router = NewRouter(RouterConfig{
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.App.CORSOrigins,
		UploadDir:   uploadDir,
	}, log, a.Metrics, a.Store, a.Tokens, c)
	return a, nil
}

func (a *App) openRepositories(ctx context.Context) error {
	db, err := initializers.ConnectToDB(a.Config.Database, a.Log)
	if err != nil {
		return err
	}
	if db == nil {
		a.Repos = repository.NewMemory()
		return nil
	}

	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	if err := initializers.SyncDatabase(db.WithContext(ctx), a.Log); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	a.Repos = repository.NewGorm(db)
	return nil
}

func (a *App) openPersister(ctx context.Context) (session.Persister, error) {
	if !a.Config.Redis.Enabled() {
		return session.NewMemoryPersister(), nil
	}
	client, err := initializers.ConnectRedis(ctx, a.Config.Redis)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.Log.Info("sessions persisted in redis", zap.String("addr", a.Config.Redis.Addr))
	return session.NewRedisPersister(client), nil
}

func (a *App) openImageStore(ctx context.Context) (storage.ImageStore, error) {
	if bucket := a.Config.Storage.S3Bucket; bucket != "" {
		store, err := storage.NewS3Store(ctx, bucket)
		if err != nil {
			return nil, err
		}
		a.Log.Info("product images stored in s3", zap.String("bucket", bucket))
		return store, nil
	}
	return storage.NewDiskStore(a.Config.Storage.UploadDir, uploadsPath), nil
}

func (a *App) notifier() services.OrderNotifier {
	smtp := utils.SMTPConfig{
		Address:  a.Config.SMTP.Address,
		Host:     a.Config.SMTP.Host,
		From:     a.Config.SMTP.From,
		Password: a.Config.SMTP.Password,
	}
	if !smtp.Enabled() {
		return nil
	}
	return utils.NewMailer(smtp)
}

// Serve listens on the configured port until ctx is cancelled, then drains
// in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.App.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	if idle := a.Config.App.SessionIdle; idle > 0 {
		go a.sweepSessions(ctx, idle)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweepSessions evicts idle sessions until ctx is cancelled.
func (a *App) sweepSessions(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(min(idle, sessionSweepInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Store.Sweep(idle)
		}
	}
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
