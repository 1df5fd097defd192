// Package app boots the tracker: database, bootstrap data, routes, server.
package app

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/config"
	"github.com/retrievaltrack/retrievaltrack/internal/db"
	"github.com/retrievaltrack/retrievaltrack/internal/devices"
	"github.com/retrievaltrack/retrievaltrack/internal/http/api"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"github.com/retrievaltrack/retrievaltrack/internal/seed"
	"github.com/retrievaltrack/retrievaltrack/internal/store"

	log "github.com/sirupsen/logrus"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the API server: migrate, seed once, evaluate the fleet,
// then serve until the context is cancelled.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	reference, errRef := cfg.ReferenceFunc()
	if errRef != nil {
		return errRef
	}

	kv := store.New(conn)
	feeds := journal.New(conn)
	svc := devices.NewService(conn, kv, feeds, reference)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seeded, errSeed := seed.New(conn, kv, rng, reference()).Run(ctx)
	if errSeed != nil {
		return errSeed
	}
	if seeded {
		log.Info("first run: bootstrap dataset generated")
	}

	// Bring derived fields up to date with the reference date before serving.
	if _, errEval := svc.ReEvaluateAll(ctx); errEval != nil {
		return errEval
	}
	if _, errSweep := svc.AlertSweep(ctx); errSweep != nil {
		log.WithError(errSweep).Warn("startup alert sweep failed")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.RegisterRoutes(engine, conn, svc, feeds, cfg.JWT)

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (reference date %s)", cfg.Listen, reference().Format("2006-01-02"))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
