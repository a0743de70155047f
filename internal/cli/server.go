package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"debate-dueler/internal/app"
	"debate-dueler/internal/config"
	"debate-dueler/internal/infra/memory"
	pgdeck "debate-dueler/internal/infra/postgres"
	redisinfra "debate-dueler/internal/infra/redis"
	transport "debate-dueler/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
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

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
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
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	theme := cfg.DeckTheme("battles")

	var loader app.DeckLoader = memory.NewStaticDeckLoader(app.BuiltinDecks())
	if pool != nil {
		loader = pgdeck.NewDeckLoader(pool)
	}

	var (
		decks       app.DeckRepository
		sessions    app.SessionRepository
		stats       app.StatsRepository
		leaderboard app.LeaderboardRepository
	)
	if redisClient != nil {
		decks = redisinfra.NewDeckRepository(redisClient, loader, theme)
		sessions = redisinfra.NewSessionRepository(redisClient)
		stats = redisinfra.NewStatsRepository(redisClient)
		leaderboard = redisinfra.NewLeaderboard(redisClient)
	} else {
		decks = memory.NewDeckRepository(loader, theme)
		sessions = memory.NewSessionRepository()
		stats = memory.NewStatsRepository()
		leaderboard = memory.NewLeaderboard()
	}

	hub := app.NewLeaderboardHub()
	service := app.NewGameService(decks, sessions, stats, leaderboard, hub)
	handler := transport.NewHandler(service, hub)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting debate dueler on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
