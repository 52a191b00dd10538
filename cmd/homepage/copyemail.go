package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpmaia/homepage/internal/clipboard"
	"github.com/gpmaia/homepage/internal/contact"
)

var copyEmailCmd = &cobra.Command{
	Use:   "copy-email",
	Short: "Copy the owner's email address to the clipboard",
	Long: `Copy the configured email address to the system clipboard, as the
page's copy button does. An obfuscated address such as "name(at)host"
is restored first.

A missing clipboard is reported as a warning; the command still succeeds
with status "not_copied".

Examples:
  homepage copy-email
  homepage copy-email --human`,
	Args: cobra.NoArgs,
	RunE: runCopyEmail,
}

// CopyEmailResponse is the response for the copy-email command.
type CopyEmailResponse struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

func init() {
	rootCmd.AddCommand(copyEmailCmd)
}

func runCopyEmail(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	email := contact.Deobfuscate(cfg.Email)

	status := "copied"
	if err := clipboard.Copy(cmd.Context(), email); err != nil {
		logger.Warn("Clipboard write failed", zap.Error(err))
		status = "not_copied"
	}

	if humanOutput {
		if status == "copied" {
			outputHuman("Copied %s to clipboard\n", email)
		} else {
			outputHuman("Clipboard unavailable; address is %s\n", email)
		}
		return nil
	}
	return outputJSON(CopyEmailResponse{Status: status, Email: email})
}
