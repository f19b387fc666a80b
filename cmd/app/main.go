package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"

	"github.com/daniilsolovey/posts-crud/config"
	"github.com/daniilsolovey/posts-crud/internal/app"
	"github.com/daniilsolovey/posts-crud/internal/db"
	"github.com/daniilsolovey/posts-crud/internal/posts"
	"github.com/daniilsolovey/posts-crud/migrations"
)

var (
	flConfig      = flag.String("config", "config.toml", "path to TOML configuration file")
	flDebug       = flag.Bool("debug", false, "enable debug mode")
	flDatabaseURL = flag.String("database-url", "", "database connection URL, overrides the config file (DATABASE_URL)")
	flDemo        = flag.Bool("demo", false, "insert a sample post and print published posts on start")
	lg            *slog.Logger
)

// @title Posts CRUD API
// @version 1.0
// @description CRUD API for posts and categories
// @host localhost:3000
// @BasePath /

func main() {
	envErr := godotenv.Load()
	flag.Parse()

	lg = newLogger(*flDebug)
	if envErr != nil {
		lg.Debug("no .env file loaded", "error", envErr)
	}

	cfg, err := config.Load(*flConfig)
	exitOnError(err)

	if *flDatabaseURL != "" {
		cfg.Database.URL = *flDatabaseURL
	}
	exitOnError(cfg.Validate())

	ctx := context.Background()

	if cfg.Database.Migrate {
		exitOnError(db.Migrate(ctx, cfg.Database.URL, migrations.FS, lg))
	}

	dbc, err := db.Connect(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	exitOnError(err)

	if cfg.Database.LogQueries {
		dbc.AddQueryHook(db.NewQueryHook(lg))
		lg.Info("SQL query logging enabled")
	}

	if err := db.VerifySchema(ctx, dbc); err != nil {
		_ = dbc.Close()
		exitOnError(err)
	}

	service := app.New(cfg, dbc, lg)
	defer func() {
		if err := service.DB.Close(); err != nil {
			lg.Error("error closing database connection", "error", err)
		}
	}()

	if *flDemo {
		if err := runDemo(ctx, service.Manager); err != nil {
			lg.Error("demo failed", "error", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		err := service.Run(ctx, cfg.App.Port)
		if err != nil {
			lg.Error("service run failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	lg.Info("service stopping")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = service.GracefulShutdown(shutdownCtx)
	if err != nil {
		lg.Error("service graceful shutdown failed", "error", err)
	}
}

// runDemo inserts one published post and prints up to five published posts.
func runDemo(ctx context.Context, m *posts.Manager) error {
	created, err := m.Create(ctx, posts.Post{Post: db.Post{
		Title:     "test title",
		Body:      "tes",
		Published: true,
	}})
	if err != nil {
		return err
	}
	lg.Info("post created", "id", created.ID)

	published := true
	list, err := m.List(ctx, posts.Filter{Published: &published, Limit: 5})
	if err != nil {
		return err
	}

	for _, p := range list {
		lg.Info("published post", "id", p.ID, "title", p.Title, "goodCount", p.GoodCount, "createdAt", p.CreatedAt)
	}

	return nil
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}
