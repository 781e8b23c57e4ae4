package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inno-quiz-service/internal/app"
	"inno-quiz-service/internal/auth"
	"inno-quiz-service/internal/config"
	"inno-quiz-service/internal/infra/memory"
	"inno-quiz-service/internal/infra/postgres"
	redisinfra "inno-quiz-service/internal/infra/redis"
	"inno-quiz-service/internal/infra/trivia"
	"inno-quiz-service/internal/logging"
	transport "inno-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// stores are the repositories selected by configuration: Postgres when a URL is
// set, otherwise a process-local memory store.
type stores struct {
	users   app.UserRepository
	quizzes app.QuizRepository
	results app.ResultRepository
	ready   transport.Pinger
	closers []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*stores, error) {
	if cfg.Postgres.URL == "" {
		log.Warn("postgres url not configured, using in-memory store")
		store := memory.NewStore()
		return &stores{users: store, quizzes: store, results: store, ready: store}, nil
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store := postgres.NewStore(db, postgres.NewLeaderboardReader(pool))
	if err := store.Ping(ctx); err != nil {
		pool.Close()
		_ = db.Close()
		return nil, err
	}
	return &stores{
		users:   store,
		quizzes: store,
		results: store,
		ready:   store,
		closers: []func(){func() { _ = db.Close() }, pool.Close},
	}, nil
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
		File:        cfg.Log.File,
	})
}

func newPasswordHasher(cfg config.Config) *auth.PasswordHasher {
	return auth.NewPasswordHasher(cfg.Auth.BcryptCost)
}

func newTokenIssuer(cfg config.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer(cfg.Auth.SecretKey, config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL))
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.SecretKey == config.Default().Auth.SecretKey {
		log.Warn("using the default secret key; set SECRET_KEY")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()
	ready := []transport.Pinger{st.ready}

	hub := app.NewHub()
	var notifier app.ResultNotifier = hub
	var source app.TriviaSource = trivia.NewClient(cfg.Trivia.BaseURL, config.TTLDuration(cfg.Trivia.Timeout, 10*time.Second))
	categoryTTL := config.TTLDuration(cfg.Trivia.CategoryTTL, 24*time.Hour)

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		ready = append(ready, redisPinger{client: redisClient})
		notifier = redisinfra.NewResultNotifier(redisClient)
		source = redisinfra.NewCategoryCache(redisClient, source, categoryTTL)

		relay := redisinfra.NewRelay(redisClient, hub, log.Named("relay"))
		relayReady := make(chan struct{})
		go func() {
			if err := relay.Run(ctx, relayReady); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("result relay stopped", zap.Error(err))
			}
		}()
		<-relayReady
	} else {
		source = memory.NewCategoryCache(source, categoryTTL)
	}

	users := app.NewUserService(st.users, newPasswordHasher(cfg), newTokenIssuer(cfg))
	quizzes := app.NewQuizService(st.quizzes)
	results := app.NewResultService(st.quizzes, st.results, st.users, notifier, log.Named("results"))

	router := transport.NewRouter(transport.Services{
		Users:   users,
		Quizzes: quizzes,
		Results: results,
		Trivia:  app.NewTriviaService(source, quizzes),
		Hub:     hub,
	}, transport.Options{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginRate:      cfg.Auth.LoginRate,
		LoginWindow:    config.TTLDuration(cfg.Auth.LoginWindow, time.Minute),
		Ready:          ready,
		Metrics:        transport.NewMetrics(),
	}, log.Named("http"))

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting quiz service", zap.String("addr", server.Addr), zap.String("environment", cfg.App.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
