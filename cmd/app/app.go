package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/valais-ski/fis-inscriptions-api/internal/api"
	"github.com/valais-ski/fis-inscriptions-api/internal/config"
	"github.com/valais-ski/fis-inscriptions-api/internal/db"
	"github.com/valais-ski/fis-inscriptions-api/internal/logger"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository/dao"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))

	serveErr := serve(ctx, &http.Server{Addr: addr, Handler: s.Router})

	if sqlDB, dbErr := postgresDB.DB(); dbErr == nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			zap.L().Warn("failed to close the database pool", zap.Error(closeErr))
		}
	}

	if serveErr != nil {
		return fmt.Errorf("failed to run the server -> %w", serveErr)
	}

	zap.L().Info("server stopped")

	return nil
}

// serve runs the HTTP server until it fails or ctx is cancelled, then drains
// in-flight requests within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return <-errCh
}
