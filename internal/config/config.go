// Package config handles site configuration.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the site configuration stored in config.yml.
type Config struct {
	OwnerName        string  `yaml:"owner_name,omitempty"`        // Formatted name on the vCard
	Email            string  `yaml:"email,omitempty"`             // Address on the vCard and copy button
	IdentifierURL    string  `yaml:"identifier_url,omitempty"`    // ORCID or similar
	ContactRecipient string  `yaml:"contact_recipient,omitempty"` // mailto target of the contact form
	Bibliography     string  `yaml:"bibliography,omitempty"`      // Path or http(s) URL of the .bib file
	RateLimit        float64 `yaml:"rate_limit,omitempty"`        // Requests per second for HTTP bibliographies
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "homepage"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// BibEnvVar overrides the bibliography location.
	BibEnvVar = "HOMEPAGE_BIB_URL"
)

// Default values for the published site.
const (
	DefaultOwnerName        = "Gustavo P. Maia"
	DefaultEmail            = "gustavopinho.maia@mnhn.fr"
	DefaultIdentifierURL    = "https://orcid.org/0000-0001-5314-8816"
	DefaultContactRecipient = "gustavopinhomaia@gmail.com"
	DefaultBibliography     = "publications.bib"
	DefaultRateLimit        = 1.0
)

// ErrInvalidEmail is returned when an address field cannot be parsed.
var ErrInvalidEmail = errors.New("invalid email address")

// Default returns the configuration of the published site.
func Default() *Config {
	return &Config{
		OwnerName:        DefaultOwnerName,
		Email:            DefaultEmail,
		IdentifierURL:    DefaultIdentifierURL,
		ContactRecipient: DefaultContactRecipient,
		Bibliography:     DefaultBibliography,
		RateLimit:        DefaultRateLimit,
	}
}

// Path returns the default config file path.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/homepage/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads configuration from path. A missing file yields the defaults,
// and fields left empty in the file keep their default value. The
// HOMEPAGE_BIB_URL environment variable overrides the bibliography.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
			cfg.merge(fileCfg)
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if loc := os.Getenv(BibEnvVar); loc != "" {
		cfg.Bibliography = loc
	}
	return cfg, nil
}

// merge copies the non-empty fields of o into c.
func (c *Config) merge(o Config) {
	if o.OwnerName != "" {
		c.OwnerName = o.OwnerName
	}
	if o.Email != "" {
		c.Email = o.Email
	}
	if o.IdentifierURL != "" {
		c.IdentifierURL = o.IdentifierURL
	}
	if o.ContactRecipient != "" {
		c.ContactRecipient = o.ContactRecipient
	}
	if o.Bibliography != "" {
		c.Bibliography = o.Bibliography
	}
	if o.RateLimit != 0 {
		c.RateLimit = o.RateLimit
	}
}

// Validate checks the address fields.
func (c *Config) Validate() error {
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: email %q", ErrInvalidEmail, c.Email)
	}
	if _, err := mail.ParseAddress(c.ContactRecipient); err != nil {
		return fmt.Errorf("%w: contact_recipient %q", ErrInvalidEmail, c.ContactRecipient)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative: %v", c.RateLimit)
	}
	return nil
}

// Save writes configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
