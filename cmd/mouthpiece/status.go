package mouthpiece

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avatarworks/mouthpiece/pkg/avatar"
	"github.com/avatarworks/mouthpiece/pkg/config"
	"github.com/avatarworks/mouthpiece/pkg/logger"
	"github.com/avatarworks/mouthpiece/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe every configured provider and print health and stats",
	RunE:  runStatus,
}

var statusSkipProbe bool

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusSkipProbe, "no-probe", false, "Skip live provider probes, print tracked state only")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	client, err := avatar.New(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize avatar client: %w", err)
	}
	defer client.Close()

	out := struct {
		Probes map[string]types.HealthReport `yaml:"probes,omitempty"`
		Stats  types.Stats                   `yaml:"stats"`
	}{}

	if !statusSkipProbe {
		timeout := time.Duration(cfg.Avatar.DefaultTimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		reports := client.HealthCheck(ctx)
		out.Probes = make(map[string]types.HealthReport, len(reports))
		for provider, report := range reports {
			out.Probes[string(provider)] = report
		}
	}

	out.Stats = client.Stats()

	encoded, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Print(string(encoded))
	return nil
}
