package main

import (
	"github.com/spf13/cobra"

	"github.com/gpmaia/homepage/internal/contact"
)

var (
	mailtoSubject string
	mailtoMessage string
	mailtoTo      string
)

var mailtoCmd = &cobra.Command{
	Use:   "mailto",
	Short: "Build the contact form's mailto URI",
	Long: `Build the mailto URI the contact form navigates to on submit. Subject
and message are percent-encoded; the recipient defaults to the
configured contact address.

Examples:
  homepage mailto --subject "Collaboration" --message "Hello!"
  homepage mailto --subject "Data request" --to someone@example.org --human`,
	Args: cobra.NoArgs,
	RunE: runMailto,
}

// MailtoResponse is the response for the mailto command.
type MailtoResponse struct {
	Recipient string `json:"recipient"`
	URI       string `json:"uri"`
}

func init() {
	mailtoCmd.Flags().StringVarP(&mailtoSubject, "subject", "s", "", "Subject line")
	mailtoCmd.Flags().StringVarP(&mailtoMessage, "message", "m", "", "Message body")
	mailtoCmd.Flags().StringVar(&mailtoTo, "to", "", "Recipient (overrides config)")
	rootCmd.AddCommand(mailtoCmd)
}

func runMailto(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	recipient := cfg.ContactRecipient
	if mailtoTo != "" {
		recipient = contact.Deobfuscate(mailtoTo)
	}

	uri := contact.Mailto(recipient, mailtoSubject, mailtoMessage)
	if humanOutput {
		outputHuman("%s\n", uri)
		return nil
	}
	return outputJSON(MailtoResponse{Recipient: recipient, URI: uri})
}
