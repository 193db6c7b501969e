package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"qrlink/internal/pkg/logger"
	"qrlink/internal/platform/config"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "qrgen",
		Short: "Turn a link into a QR code image",
		Long: `qrgen normalizes a link (adding https:// when no scheme is given),
checks that it is a well-formed URL and renders it as a 300px PNG QR code.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			// Keep stdout for command output.
			cfg.Logging.Output = "stderr"
			cfg.Logging.Format = "text"
			logger.Init(cfg.Logging)

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newValidateCmd())

	return cmd
}
