package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aws-tutor/internal/database"
	"aws-tutor/internal/fetcher"
	"aws-tutor/internal/handlers"
	"aws-tutor/internal/middleware"
	"aws-tutor/internal/repository"
	"aws-tutor/internal/router"
	"aws-tutor/internal/services"
	"aws-tutor/internal/web"
)

var (
	apiOnly bool
	webOnly bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutor API and the web UI",
	Long: `Runs the tutor API (POST /chat) on PORT and the web UI on WEB_PORT.
The UI asks its questions to BACKEND_URL, which defaults to the local API.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&apiOnly, "api-only", false, "run only the tutor API")
	serveCmd.Flags().BoolVar(&webOnly, "web-only", false, "run only the web UI")
	serveCmd.MarkFlagsMutuallyExclusive("api-only", "web-only")
}

// cleanups run in reverse order of registration on shutdown.
type cleanups []func()

func (c *cleanups) add(fn func()) { *c = append(*c, fn) }

func (c cleanups) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var done cleanups
	defer done.run()

	var servers []*http.Server

	if !webOnly {
		handler, err := buildAPI(&done)
		if err != nil {
			return err
		}
		servers = append(servers, newHTTPServer(cfg.Port, handler))
		logger.Info("tutor API ready", zap.String("addr", "http://localhost:"+cfg.Port))
	}

	if !apiOnly {
		servers = append(servers, newHTTPServer(cfg.WebPort, buildWeb(&done)))
		logger.Info("web UI ready",
			zap.String("addr", "http://localhost:"+cfg.WebPort),
			zap.String("backend", cfg.BackendURL),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown failed", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}
		return nil
	})

	return g.Wait()
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	// No write timeout: a page submit waits for the tutor's answer.
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func buildAPI(done *cleanups) (http.Handler, error) {
	// ──── Documentation retrieval (optional) ────
	var retriever services.Retriever
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("PostgreSQL connection failed: %w", err)
		}
		done.add(pool.Close)
		if err := database.RunMigrations(pool, cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		retriever = repository.NewDocumentRepo(pool)
		logger.Info("PostgreSQL connected, documentation retrieval enabled")
	}

	// ──── Tutor ────
	var tutor services.Tutor = services.EchoTutor{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiTutor(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs, retriever, logger)
		if err != nil {
			return nil, fmt.Errorf("Gemini client initialization failed: %w", err)
		}
		done.add(gemini.Close)
		tutor = gemini
		logger.Info("Gemini tutor initialized", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set, answering with the echo tutor")
	}

	// ──── Answer cache (optional) ────
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("Redis connection failed: %w", err)
		}
		done.add(func() { _ = client.Close() })
		tutor = services.NewCachedTutor(tutor, services.NewRedisAnswerCache(client), cfg.AnswerCacheTTL, logger)
		logger.Info("Redis connected, answer cache enabled", zap.Duration("ttl", cfg.AnswerCacheTTL))
	}

	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute)
	done.add(chatLimiter.Stop)

	return router.New(
		logger,
		chatLimiter,
		handlers.NewChatHandler(tutor, logger),
		handlers.NewRootHandler(cfg.DatabaseURL, cfg.RedisURL),
		cfg.FrontendURL,
	), nil
}

func buildWeb(done *cleanups) http.Handler {
	f := fetcher.New(cfg.BackendURL, logger)
	done.add(func() { _ = f.Close() })

	sessions := web.NewSessionStore(cfg.SessionIdleTTL)
	done.add(sessions.Stop)

	return web.NewServer(sessions, f, logger).Routes()
}
