package mouthpiece

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avatarworks/mouthpiece/pkg/alert"
	"github.com/avatarworks/mouthpiece/pkg/avatar"
	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/logger"
	"github.com/avatarworks/mouthpiece/pkg/server"
	"github.com/avatarworks/mouthpiece/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the mouthpiece HTTP server",
	Long: `Start the mouthpiece HTTP server to provide REST API access to the avatar
communication client.

The server provides endpoints for:
- Sending speak requests with automatic provider failover
- Live provider health probes
- Client statistics and cache management

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Avatar client flags
	serverCmd.Flags().String("avatar-id", "", "Avatar identity to speak as")
	serverCmd.Flags().String("primary-provider", "", "Primary avatar provider")
	serverCmd.Flags().StringSlice("fallback-providers", nil, "Fallback providers in order")
	serverCmd.Flags().Int("timeout", 0, "Per-call timeout in seconds")
	serverCmd.Flags().Bool("cache", true, "Enable the response cache")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for error telemetry output")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Error-level records are additionally persisted as Parquet.
	if cfg.Telemetry.ParquetPath != "" {
		handler, err := telemetry.NewParquetHandler(log.Handler(), cfg.Telemetry.ParquetPath)
		if err != nil {
			return fmt.Errorf("failed to set up telemetry: %w", err)
		}
		log = slog.New(handler)
	}

	var alerter alert.Alerter = &alert.NoOpAlerter{}
	if cfg.Alert.Enabled {
		alerter = alert.NewEmailAlerter(cfg.Alert)
	}

	client, err := avatar.New(cfg, log, alerter)
	if err != nil {
		return fmt.Errorf("failed to initialize avatar client: %w", err)
	}
	defer client.Close()

	srv := server.New(cfg, client)
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if cmd.Flags().Changed("avatar-id") {
		cfg.Avatar.AvatarID, _ = cmd.Flags().GetString("avatar-id")
	}
	if cmd.Flags().Changed("primary-provider") {
		cfg.Avatar.PrimaryProvider, _ = cmd.Flags().GetString("primary-provider")
	}
	if cmd.Flags().Changed("fallback-providers") {
		cfg.Avatar.FallbackProviders, _ = cmd.Flags().GetStringSlice("fallback-providers")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Avatar.DefaultTimeoutSeconds, _ = cmd.Flags().GetInt("timeout")
	}
	if cmd.Flags().Changed("cache") {
		cfg.Avatar.CacheEnabled, _ = cmd.Flags().GetBool("cache")
	}
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
