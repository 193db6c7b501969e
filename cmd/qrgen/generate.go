package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"qrlink/internal/engine/download"
	"qrlink/internal/engine/links"
	"qrlink/internal/engine/qrcode"
	"qrlink/internal/engine/session"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		outDir  string
		backend string
		ascii   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate a QR code PNG for a link",
		Example: `  # Writes ./qrcode-<timestamp>.png
  qrgen generate example.com

  # Print the code in the terminal as well
  qrgen generate https://example.com/docs --ascii --out ./codes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if backend == "" {
				backend = cfg.Encoder.Backend
			}
			if outDir == "" {
				outDir = cfg.Download.Dir
			}

			encoder, err := qrcode.New(backend, 0)
			if err != nil {
				return err
			}

			c := session.NewController(encoder, session.WithTimeout(cfg.Encoder.Timeout))
			c.SetInput(args[0])
			if err := c.Submit(cmd.Context()); err != nil {
				var e *session.Error
				if errors.As(err, &e) {
					return errors.New(e.Message)
				}
				return err
			}

			name, err := c.Download(download.DirSaver{Dir: outDir}, time.Now())
			if err != nil {
				return err
			}

			if ascii {
				art, err := qrcode.Terminal(links.Normalize(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), art)
			}

			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(outDir, name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write the PNG into (default: download.dir)")
	cmd.Flags().StringVar(&backend, "backend", "", "Encoder backend: skip2 or boombuler (default: encoder.backend)")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "Also print the QR code to the terminal")

	return cmd
}
