package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sdlc-quest/internal/app"
	"sdlc-quest/internal/catalog"
	"sdlc-quest/internal/config"
	"sdlc-quest/internal/infra/memory"
	pgloader "sdlc-quest/internal/infra/postgres"
	redisstore "sdlc-quest/internal/infra/redis"
	"sdlc-quest/internal/infra/sqlite"
	"sdlc-quest/internal/logger"
	transport "sdlc-quest/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type sessionStore interface {
	app.SessionRepository
	transport.SessionCounter
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var loader catalog.Loader = catalog.NewStaticLoader()
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = catalog.NewFallbackLoader(pgloader.NewLevelLoader(pool))
		log.Info("levels from postgres")
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		loader = catalog.NewFallbackLoader(store)
		log.Info("levels from sqlite", zap.String("path", cfg.SQLite.Path))
	}

	levelTTL := config.TTLDuration(cfg.Levels.TTL, 10*time.Minute)
	var levelRepo app.LevelRepository
	if redisClient != nil {
		levelRepo = redisstore.NewLevelRepository(redisClient, loader, levelTTL)
	} else {
		levelRepo = memory.NewLevelRepository(loader, levelTTL)
	}

	var store sessionStore
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewGameService(store, levelRepo,
		app.WithLogger(log),
		app.WithTickInterval(config.TTLDuration(cfg.Game.TickInterval, time.Second)),
	)

	router := transport.NewRouter(transport.RouterDeps{
		Service:  service,
		Levels:   levelRepo,
		Sessions: store,
		Logger:   log,
		CORS:     corsOptions(cfg),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		log.Info("starting sdlc-quest", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func corsOptions(cfg config.Config) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodOptions}
	}
	return opts
}
