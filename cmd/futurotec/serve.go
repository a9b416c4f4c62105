package main

import (
	"fmt"

	"github.com/jonathan/futurotec/internal/config"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/server"
	"github.com/jonathan/futurotec/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal web server",
	Long:  `Start an HTTP server that renders the portal pages and accepts candidacies.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	session, err := config.NewSessionConfig()
	if err != nil {
		return fmt.Errorf("failed to create session config: %w", err)
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	ctx := cmd.Context()
	if serveMigrate {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		LandingPage: cfg.LandingPage,
		DateLayout:  cfg.DateLayout,
		RateLimit:   ratelimit.LoadConfig(cfg.RateLimitOn()),
	}, database, session, passwords, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
