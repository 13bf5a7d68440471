package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"phihelper/pkg/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure API settings",
		Long:  `Interactively edit the config file. Press enter to keep the current value.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			cfg, err := config.Read(path)
			if errors.Is(err, os.ErrNotExist) {
				cfg = config.Default()
				a.logger.Debug("No config yet, starting from defaults", zap.String("path", path))
			} else if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := cfg
			shown.APIKey = cfg.MaskedKey()
			current, err := json.MarshalIndent(shown, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintf(out, "Current configuration at %s:\n%s\n", path, current)

			edited, err := config.NewPrompter(cmd.InOrStdin(), out).Edit(cfg)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if err := config.Save(path, edited); err != nil {
				return err
			}
			fmt.Fprintf(out, "Configuration saved to %s\n", path)
			return nil
		},
	}
}
