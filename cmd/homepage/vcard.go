package main

import (
	"github.com/spf13/cobra"

	"github.com/gpmaia/homepage/internal/vcard"
)

var vcardURI bool

var vcardCmd = &cobra.Command{
	Use:   "vcard",
	Short: "Print the owner's vCard",
	Long: `Print the vCard 3.0 card built from the configured owner name, email
and identifier URL. With --uri, print the data URI used by the
download link instead.

Examples:
  homepage vcard --human > owner.vcf
  homepage vcard --uri --human`,
	Args: cobra.NoArgs,
	RunE: runVCard,
}

// VCardResponse is the response for the vcard command.
type VCardResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	URL     string `json:"url"`
	Card    string `json:"card"`
	DataURI string `json:"data_uri"`
}

func init() {
	vcardCmd.Flags().BoolVar(&vcardURI, "uri", false, "Print the data URI instead of the card")
	rootCmd.AddCommand(vcardCmd)
}

func runVCard(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	card := vcard.Card{
		FormattedName: cfg.OwnerName,
		Email:         cfg.Email,
		URL:           cfg.IdentifierURL,
	}

	if humanOutput {
		if vcardURI {
			outputHuman("%s\n", card.DataURI())
		} else {
			outputHuman("%s", card.String())
		}
		return nil
	}
	return outputJSON(VCardResponse{
		Name:    card.FormattedName,
		Email:   card.Email,
		URL:     card.URL,
		Card:    card.String(),
		DataURI: card.DataURI(),
	})
}
