package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultAPIURL is the Hyblock API host used when HYBLOCK_API_URL is unset.
const DefaultAPIURL = "https://api1.dev.hyblockcapital.com/v1"

// ErrMissingCredentials is returned by Credentials.Require when a key or secret is empty.
var ErrMissingCredentials = errors.New("hyblock api credentials not configured")

// Credentials holds the API access settings read from the environment.
// It is built once at startup and passed by value.
type Credentials struct {
	APIKey    string `envconfig:"HYBLOCK_API_KEY"`
	APISecret string `envconfig:"HYBLOCK_API_SECRET"`
	APIURL    string `envconfig:"HYBLOCK_API_URL" default:"https://api1.dev.hyblockcapital.com/v1"`
}

// LoadCredentials reads credentials from the environment after loading the
// given .env files. Missing .env files are ignored; variables already present
// in the environment win over .env values.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return Credentials{}, fmt.Errorf("processing env config: %w", err)
	}
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	return c, nil
}

// Require reports ErrMissingCredentials unless both key and secret are set.
func (c Credentials) Require() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "HYBLOCK_API_KEY")
	}
	if c.APISecret == "" {
		missing = append(missing, "HYBLOCK_API_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// MaskedKey returns the first eight characters of the key for display.
func (c Credentials) MaskedKey() string {
	if len(c.APIKey) <= 8 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return c.APIKey[:8] + "..."
}
