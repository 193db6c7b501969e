package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"qrlink/internal/engine/links"
	"qrlink/internal/engine/session"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <url>",
		Short: "Show how a link is normalized and whether it is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, valid := links.Check(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tvalid=%t\n", normalized, valid)
			if strings.TrimSpace(args[0]) == "" {
				return errors.New(session.MsgEmptyInput)
			}
			if !valid {
				return errors.New(session.MsgInvalidURL)
			}
			return nil
		},
	}
}
