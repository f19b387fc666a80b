package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/posts-crud/config"
	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
	"github.com/daniilsolovey/posts-crud/internal/rest"
	"github.com/daniilsolovey/posts-crud/internal/rpc"
)

type App struct {
	DB      *db.Repository
	Manager *posts.Manager
	Logger  *slog.Logger
	Echo    *echo.Echo
	Config  config.Config
}

func New(cfg config.Config, dbConnect pg.DBI, logger *slog.Logger) *App {
	repo := db.New(dbConnect, logger)
	manager := posts.NewManager(repo)

	e := rest.NewPostHandler(manager, repo, logger).RegisterRoutes()
	e.Any("/v1/rpc/", echo.WrapHandler(rpc.New(logger, manager)))

	return &App{
		DB:      repo,
		Manager: manager,
		Logger:  logger,
		Echo:    e,
		Config:  cfg,
	}
}

func (a *App) Run(ctx context.Context, port int) error {
	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, port)
	a.Logger.Info("http server starting", "addr", addr)

	err := a.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
