package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"myshop_backend/internal/app/di"
	"myshop_backend/internal/platform/config"
	infradb "myshop_backend/internal/platform/db"
	infraredis "myshop_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "myshop-admin",
	Short: "Shop profile admin backend",
	Long: `myshop-admin serves the shop admin API and the public shop read.

Without a subcommand it runs the HTTP server. Configuration comes from the
environment, an optional .env file and the file given with --config.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var (
	adminEmail    string
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first admin user and a sample shop",
	RunE:  runSeed,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set the password of an admin, creating the admin when missing",
	RunE:  runResetPassword,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, optional)")

	for _, cmd := range []*cobra.Command{seedCmd, resetPasswordCmd} {
		cmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
		cmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
		_ = cmd.MarkFlagRequired("email")
		_ = cmd.MarkFlagRequired("password")
	}

	rootCmd.AddCommand(serveCmd, seedCmd, resetPasswordCmd)
}

// setup loads the configuration and installs the JSON logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := infradb.Open(cfg.DB, di.Models()...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	// JWT_SECRETなしでは起動しない
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	// Redis
	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without login rate limiting.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           di.NewServer(cfg, logger, db, rdb),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	res, err := di.NewAuthUsecase(cfg, db).SeedAdmin(cmd.Context(), adminEmail, adminPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s and shop %s\n", res.Email, res.ShopID)
	return nil
}

func runResetPassword(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	created, err := di.NewAuthUsecase(cfg, db).ResetPassword(cmd.Context(), adminEmail, adminPassword)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", adminEmail)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", adminEmail)
	}
	return nil
}
