// Package config provides persistent configuration for the ramadan CLI and server.
//
// Configuration is stored as JSON at ~/.config/ramadan/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	configDirName  = "ramadan"
	configFileName = "config.json"
	dbFileName     = "ramadan.db"
)

// DefaultMethod is the Al Adhan calculation method used when none is set (ISNA).
const DefaultMethod = 2

// DefaultListen is the server address used when none is set.
const DefaultListen = ":8080"

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude",
	"method",
	"lang",
	"time_format",
	"prayers",
	"data_dir",
	"database",
	"listen",
	"cors_origins",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Method      *int    `json:"method,omitempty"`      // pointer so we can distinguish "not set" from 0
	Lang        string  `json:"lang,omitempty"`        // "bn" or "en"
	TimeFormat  string  `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers     string  `json:"prayers,omitempty"`     // comma-separated list
	DataDir     string  `json:"data_dir,omitempty"`
	Database    string  `json:"database,omitempty"` // sqlite path or postgres:// URL
	Listen      string  `json:"listen,omitempty"`
	CORSOrigins string  `json:"cors_origins,omitempty"` // comma-separated list
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := DefaultMethod
	return Config{
		Method:     &method,
		Lang:       "bn",
		TimeFormat: "24h",
		Listen:     DefaultListen,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultDataDir is where the session pointer and SQLite database live.
// It respects $XDG_DATA_HOME if set, otherwise uses ~/.local/share/.
func DefaultDataDir() (string, error) {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, configDirName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "lang":
		if value != "bn" && value != "en" {
			return fmt.Errorf("invalid lang %q: must be \"bn\" or \"en\"", value)
		}
		c.Lang = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		names := strings.Split(value, ",")
		for _, n := range names {
			n = strings.TrimSpace(n)
			if !isValidPrayerName(n) {
				return fmt.Errorf("invalid prayer name %q in prayers list", n)
			}
		}
		c.Prayers = value
	case "data_dir":
		c.DataDir = value
	case "database":
		c.Database = value
	case "listen":
		if _, _, err := net.SplitHostPort(value); err != nil {
			return fmt.Errorf("invalid listen address %q: must be host:port", value)
		}
		c.Listen = value
	case "cors_origins":
		c.CORSOrigins = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		if c.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "lang":
		return c.Lang, nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "data_dir":
		return c.DataDir, nil
	case "database":
		return c.Database, nil
	case "listen":
		return c.Listen, nil
	case "cors_origins":
		return c.CORSOrigins, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// validPrayerNames are the prayer names the API supports.
var validPrayerNames = map[string]bool{
	"Fajr": true, "Sunrise": true, "Dhuhr": true, "Asr": true,
	"Sunset": true, "Maghrib": true, "Isha": true,
	"Imsak": true, "Midnight": true, "Firstthird": true, "Lastthird": true,
}

func isValidPrayerName(name string) bool {
	return validPrayerNames[name]
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// HasCoordinates reports whether both latitude and longitude are set.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != 0 && c.Longitude != 0
}

// DataDirOrDefault returns the configured data directory or the XDG default.
func (c *Config) DataDirOrDefault() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DefaultDataDir()
}

// DatabaseOrDefault returns the configured DSN, or a SQLite file in the data directory.
func (c *Config) DatabaseOrDefault() (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	dir, err := c.DataDirOrDefault()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// Origins splits CORSOrigins into a trimmed list, skipping blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
