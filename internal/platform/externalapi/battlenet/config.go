// Package battlenet provides a client for the Battle.net OAuth and World of Warcraft game-data APIs.
package battlenet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultConfigPath is read when AUCTION_CONFIG is not set.
	DefaultConfigPath = "data/config/my_config.json"
	// DefaultTimeout bounds every request, including the body read.
	DefaultTimeout = 30 * time.Second
)

var (
	tokenURLByRegion = map[string]string{
		"us": "https://us.battle.net/oauth/token",
		"eu": "https://eu.battle.net/oauth/token",
	}
	apiURLByRegion = map[string]string{
		"us": "https://us.api.blizzard.com/data/wow/",
		"eu": "https://eu.api.blizzard.com/data/wow/",
	}

	// defaultErrorStatuses are the statuses that make the fetcher move on to the next realm.
	defaultErrorStatuses = []int{404}

	validate = validator.New()
)

// RealmIDs is an ordered list of connected-realm IDs. In JSON it may be a single number or a list.
type RealmIDs []int64

// UnmarshalJSON accepts both 3676 and [3676, 3678].
func (r *RealmIDs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var ids []int64
		if err := json.Unmarshal(b, &ids); err != nil {
			return fmt.Errorf("realm_id list: %w", err)
		}
		*r = ids
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return fmt.Errorf("realm_id: %w", err)
	}
	*r = RealmIDs{id}
	return nil
}

// Credentials is the content of the JSON config file.
type Credentials struct {
	TokenData map[string]string `json:"token_data" validate:"required,min=1"`
	RealmIDs  RealmIDs          `json:"realm_id" validate:"required,min=1,dive,gt=0"`
	Region    string            `json:"region" validate:"required,oneof=us eu"`
	Locale    string            `json:"locale" validate:"required"`
}

// ParseCredentials decodes and validates a config file.
func ParseCredentials(r io.Reader) (Credentials, error) {
	var c Credentials
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return Credentials{}, fmt.Errorf("invalid credentials: %w", err)
	}
	return c, nil
}

// LoadCredentials reads the config file at path.
func LoadCredentials(path string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return ParseCredentials(f)
}

// Config holds configuration for the Battle.net API client.
type Config struct {
	Credentials
	TokenURL      string        // overrides the region token endpoint
	APIBaseURL    string        // overrides the region game-data base URL, ends with "/"
	Timeout       time.Duration // HTTP request timeout
	ErrorStatuses []int         // statuses that make a realm unusable
}

// LoadConfig loads the credentials file named by AUCTION_CONFIG and the
// client settings from environment variables.
func LoadConfig() (Config, error) {
	path := os.Getenv("AUCTION_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	creds, err := LoadCredentials(path)
	if err != nil {
		return Config{}, err
	}

	timeout, err := durationFromEnv("AUCTION_HTTP_TIMEOUT", DefaultTimeout)
	if err != nil {
		return Config{}, err
	}
	statuses, err := statusesFromEnv("AUCTION_ERROR_STATUSES")
	if err != nil {
		return Config{}, err
	}

	return Config{
		Credentials:   creds,
		TokenURL:      os.Getenv("AUCTION_TOKEN_URL"),
		APIBaseURL:    os.Getenv("AUCTION_API_BASE_URL"),
		Timeout:       timeout,
		ErrorStatuses: statuses,
	}, nil
}

func (c Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return tokenURLByRegion[c.Region]
}

func (c Config) apiBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return apiURLByRegion[c.Region]
}

func (c Config) isErrorStatus(code int) bool {
	statuses := c.ErrorStatuses
	if len(statuses) == 0 {
		statuses = defaultErrorStatuses
	}
	for _, s := range statuses {
		if s == code {
			return true
		}
	}
	return false
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// statusesFromEnv parses a comma separated list such as "404,403".
// The default set is always included.
func statusesFromEnv(key string) ([]int, error) {
	statuses := append([]int(nil), defaultErrorStatuses...)
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil || code < 100 || code > 599 {
			return nil, fmt.Errorf("%s: invalid status %q", key, part)
		}
		statuses = append(statuses, code)
	}
	return statuses, nil
}
