// Command play is the console host of the adventure runtime. It connects
// the engine to PostgreSQL (world data, high scores) and Redis (saved
// games) and runs a read-eval-print loop over stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"adventure-server/internal/config"
	"adventure-server/internal/database"
	"adventure-server/internal/engine"
	"adventure-server/internal/logger"
	"adventure-server/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	gameID, err := uuid.Parse(cfg.GameID)
	if err != nil {
		log.Fatal("GAME_ID is not a valid UUID", zap.String("value", cfg.GameID), zap.Error(err))
	}
	userID := uuid.New()
	if cfg.UserID != "" {
		userID, err = uuid.Parse(cfg.UserID)
		if err != nil {
			log.Fatal("USER_ID is not a valid UUID", zap.String("value", cfg.UserID), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := setupPostgres(setupCtx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to PostgreSQL")

	if cfg.MigrateOnStart {
		if err := database.ApplyMigrations(pool, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	redisClient, err := setupRedis(setupCtx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis")

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, log)
	}

	world := database.NewPgWorldRepository(pool, log)
	scores := database.NewPgHighScoreRepository(pool, log)
	saves := database.NewRedisSavedGameRepository(redisClient, log)
	sessions := session.NewStore()
	eng := engine.New(world, scores, saves, sessions, log, nil)

	if err := runConsole(ctx, eng, userID, gameID); err != nil {
		log.Fatal("Play session failed", zap.Error(err))
	}
}

// runConsole drives one interactive play session until EOF, an exit
// command or context cancellation. The session lifecycle commands are
// intercepted here; everything else goes through the command interpreter.
func runConsole(ctx context.Context, eng *engine.Engine, userID, gameID uuid.UUID) error {
	start, err := eng.ResetSession(ctx, userID, gameID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	fmt.Println(start.Message)
	currentRoomID := start.NextRoomID

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Print("> ")
		var input string
		select {
		case <-ctx.Done():
			fmt.Println("\nTot ziens!")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			input = strings.TrimSpace(line)
		}
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println("Tot ziens!")
			return nil

		case "opslaan":
			result, err := eng.SaveSession(ctx, userID, gameID, currentRoomID)
			if err != nil {
				fmt.Println("Opslaan mislukt.")
				zap.L().Warn("Save failed", zap.Error(err))
				continue
			}
			fmt.Println(result.Message)

		case "laden":
			result, err := eng.LoadSession(ctx, userID, gameID)
			if err != nil {
				fmt.Println("Geen opgeslagen spel gevonden.")
				zap.L().Warn("Load failed", zap.Error(err))
				continue
			}
			fmt.Println(result.Message)
			currentRoomID = result.NextRoomID

		case "reset":
			result, err := eng.ResetSession(ctx, userID, gameID)
			if err != nil {
				fmt.Println("Reset mislukt.")
				zap.L().Warn("Reset failed", zap.Error(err))
				continue
			}
			fmt.Println(result.Message)
			currentRoomID = result.NextRoomID

		default:
			result, err := eng.ProcessCommand(ctx, userID, gameID, currentRoomID, input)
			if err != nil {
				fmt.Println("Er ging iets mis, probeer het opnieuw.")
				zap.L().Warn("Command failed", zap.String("command", input), zap.Error(err))
				continue
			}
			fmt.Println(result.Message)
			if result.PointsAwarded != 0 {
				fmt.Printf("(+%d punten, score: %d)\n", result.PointsAwarded, result.CurrentScore)
			}
			currentRoomID = result.NextRoomID

			if result.GameWon {
				fmt.Println("\n*** Gefeliciteerd, je hebt gewonnen! ***")
				if best, err := eng.HighScore(ctx, userID, gameID); err == nil {
					fmt.Printf("Beste score: %d\n", best.Score)
				}
				return nil
			}
			if result.GameLoss {
				if result.LossReason != nil {
					fmt.Printf("\n*** Verloren: %s ***\n", *result.LossReason)
				} else {
					fmt.Println("\n*** Verloren! ***")
				}
				return nil
			}
		}
	}
}

func setupPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create postgres connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping postgres: %w", err)
	}
	return pool, nil
}

func setupRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}
	return client, nil
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info("Serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("Metrics listener stopped", zap.Error(err))
	}
}
