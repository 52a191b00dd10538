package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gpmaia/homepage/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  homepage config                            # Show all config
  homepage config email                      # Get specific value
  homepage config bibliography pubs.bib      # Set value

Keys:
  owner-name         Formatted name on the vCard
  email              Address on the vCard and the copy button
  identifier-url     ORCID or similar identifier URL
  contact-recipient  Recipient of the contact form
  bibliography       Path or http(s) URL of the BibTeX file
  rate-limit         Requests per second for HTTP bibliographies

The HOMEPAGE_BIB_URL environment variable (or .env entry) overrides the
bibliography when reading, but is never written to the file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for showing all config.
type ConfigResponse struct {
	Path             string  `json:"path"`
	OwnerName        string  `json:"owner_name"`
	Email            string  `json:"email"`
	IdentifierURL    string  `json:"identifier_url"`
	ContactRecipient string  `json:"contact_recipient"`
	Bibliography     string  `json:"bibliography"`
	RateLimit        float64 `json:"rate_limit"`
}

// UpdateResponse is the response for a config update.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := resolvedConfigPath()

	// No args: show all config
	if len(args) == 0 {
		cfg := mustLoadConfig()
		if humanOutput {
			fmt.Printf("config:             %s\n", path)
			fmt.Printf("owner-name:         %s\n", cfg.OwnerName)
			fmt.Printf("email:              %s\n", cfg.Email)
			fmt.Printf("identifier-url:     %s\n", cfg.IdentifierURL)
			fmt.Printf("contact-recipient:  %s\n", cfg.ContactRecipient)
			fmt.Printf("bibliography:       %s\n", cfg.Bibliography)
			fmt.Printf("rate-limit:         %g\n", cfg.RateLimit)
			return nil
		}
		return outputJSON(ConfigResponse{
			Path:             path,
			OwnerName:        cfg.OwnerName,
			Email:            cfg.Email,
			IdentifierURL:    cfg.IdentifierURL,
			ContactRecipient: cfg.ContactRecipient,
			Bibliography:     cfg.Bibliography,
			RateLimit:        cfg.RateLimit,
		})
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		cfg := mustLoadConfig()
		value, ok := configValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	// Two args: set value. The environment override must not leak into the file.
	os.Unsetenv(config.BibEnvVar)
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	value := args[1]
	if err := setConfigValue(cfg, key, value); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// configValue returns the string form of a config key.
func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "owner-name":
		return cfg.OwnerName, true
	case "email":
		return cfg.Email, true
	case "identifier-url":
		return cfg.IdentifierURL, true
	case "contact-recipient":
		return cfg.ContactRecipient, true
	case "bibliography":
		return cfg.Bibliography, true
	case "rate-limit":
		return strconv.FormatFloat(cfg.RateLimit, 'g', -1, 64), true
	}
	return "", false
}

// setConfigValue assigns a config key from its string form.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "owner-name":
		cfg.OwnerName = value
	case "email":
		cfg.Email = value
	case "identifier-url":
		cfg.IdentifierURL = value
	case "contact-recipient":
		cfg.ContactRecipient = value
	case "bibliography":
		cfg.Bibliography = value
	case "rate-limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("rate-limit must be a number: %q", value)
		}
		cfg.RateLimit = f
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// normalizeKey converts key formats (owner-name, owner_name, Owner-Name) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
