package cmd

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/classpilot/classpilot/pkg/assistant"
	assistanthttp "github.com/classpilot/classpilot/pkg/assistant/http"
	"github.com/classpilot/classpilot/pkg/config"
	"github.com/classpilot/classpilot/pkg/db"
	"github.com/classpilot/classpilot/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dispatch HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log, err := logger.New(logger.Config{Level: cfg.LogLevel})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer log.Sync()

			conn, err := db.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := db.RunMigrations(conn); err != nil {
				return err
			}
			queries := db.New(conn)

			if check := assistant.CheckGatewayConnectivity(cfg.ChatAPIURL); check.Success {
				log.Info("AI gateway reachable", "url", cfg.ChatAPIURL, "latency", check.Latency.String())
			} else {
				// Not fatal: the gateway may come up later, and every dispatch
				// re-checks health anyway.
				log.Warn("AI gateway unreachable at startup", "url", cfg.ChatAPIURL, "error", check.Error)
			}

			gateway := assistant.NewGatewayClient(cfg.ChatAPIURL, cfg.DispatchTimeout(), log.Named("gateway"))
			router := assistant.NewRouter(
				assistant.DefaultProviderPreferences(),
				assistant.Provider(cfg.DefaultProvider),
				gateway,
				log.Named("router"),
			)
			dispatch := assistant.NewDispatchService(gateway, router, log.Named("dispatch"))
			onboarding := assistant.NewOnboardingService(queries, gateway, router, log.Named("onboarding"))
			conversations := assistant.NewConversationService(queries)

			handler := assistanthttp.NewHandler(dispatch, onboarding, conversations, log.Named("http"))

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.Recoverer)
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			}))
			r.Route("/api", func(r chi.Router) {
				handler.RegisterRoutes(r)
			})

			log.Info("Starting dispatch server",
				"address", cfg.ListenAddress,
				"gateway", cfg.ChatAPIURL,
				"dispatch_timeout", cfg.DispatchTimeout().String(),
			)
			return http.ListenAndServe(cfg.ListenAddress, r)
		},
	}
}
