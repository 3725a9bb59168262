package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// config errors
var (
	ErrMissingNextcloudCredentials = errors.New("NC_USERNAME and NC_PASSWORD are required")
	ErrMissingWordPressCredentials = errors.New("WP_USERNAME and WP_PASSWORD are required when WP_PAGE_ID is set")
	ErrUnknownSnapshotBackend      = errors.New("unknown snapshot backend")
)

// snapshot backends
const (
	SnapshotBackendFile      = "file"
	SnapshotBackendTarantool = "tarantool"
	SnapshotBackendRedis     = "redis"
)

// Config contains app config
type Config struct {
	AppConfig
	NextcloudConfig
	WordPressConfig
	MattermostConfig
	TarantoolConfig
	RedisConfig
}

// AppConfig contains settings of the report run itself
type AppConfig struct {
	Debug           bool
	LogLevel        string
	Timezone        string
	OutputPath      string
	SnapshotBackend string
	SnapshotPath    string
	LinksPath       string
	ListsPath       string
	ChatGroupsPath  string
}

// NextcloudConfig contains Nextcloud config
type NextcloudConfig struct {
	NextcloudURL      string
	NextcloudUser     string
	NextcloudPassword string
	NextcloudTimeout  time.Duration
	NextcloudRetries  int
	NextcloudRPS      float64
}

// WordPressConfig contains WordPress config
type WordPressConfig struct {
	WordPressURL      string
	WordPressUser     string
	WordPressPassword string
	WordPressPageID   int
}

// MattermostConfig contains Mattermost config
type MattermostConfig struct {
	MattermostURL       string
	MattermostToken     string
	MattermostChannelID string
}

// TarantoolConfig contains Tarantool config
type TarantoolConfig struct {
	TarantoolAddr string
	TarantoolUser string
	TarantoolPass string
}

// RedisConfig contains Redis config
type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewConfig creates a new config
func NewConfig() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Println("Error loading .env file:", err)
	}

	return &Config{
		AppConfig: AppConfig{
			Debug:           getEnvAsBool("DEBUG", false),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			Timezone:        getEnv("TIMEZONE", "Europe/Berlin"),
			OutputPath:      getEnv("OUTPUT_PATH", "index.html"),
			SnapshotBackend: getEnv("SNAPSHOT_BACKEND", SnapshotBackendFile),
			SnapshotPath:    getEnv("SNAPSHOT_PATH", "dummy_data.json"),
			LinksPath:       getEnv("LINKS_PATH", "links.json"),
			ListsPath:       getEnv("LISTS_PATH", "lists.json"),
			ChatGroupsPath:  getEnv("CHAT_GROUPS_PATH", "chatgroups.json"),
		},
		NextcloudConfig: NextcloudConfig{
			NextcloudURL:      strings.TrimSuffix(getEnv("NC_URL", "https://cloud.akablas.de"), "/"),
			NextcloudUser:     getEnv("NC_USERNAME", ""),
			NextcloudPassword: getEnv("NC_PASSWORD", ""),
			NextcloudTimeout:  getEnvAsDuration("NC_TIMEOUT", 10*time.Second),
			NextcloudRetries:  getEnvAsInt("NC_RETRIES", 3),
			NextcloudRPS:      getEnvAsFloat("NC_RATE_LIMIT", 10),
		},
		WordPressConfig: WordPressConfig{
			WordPressURL:      strings.TrimSuffix(getEnv("WP_URL", "https://akablas.de"), "/"),
			WordPressUser:     getEnv("WP_USERNAME", ""),
			WordPressPassword: getEnv("WP_PASSWORD", ""),
			WordPressPageID:   getEnvAsInt("WP_PAGE_ID", 0),
		},
		MattermostConfig: MattermostConfig{
			MattermostURL:       getEnv("MATTERMOST_URL", ""),
			MattermostToken:     getEnv("MATTERMOST_TOKEN", ""),
			MattermostChannelID: getEnv("MATTERMOST_CHANNEL_ID", ""),
		},
		TarantoolConfig: TarantoolConfig{
			TarantoolAddr: getEnv("TARANTOOL_ADDR", "localhost:3301"),
			TarantoolUser: getEnv("TARANTOOL_USER", "storage"),
			TarantoolPass: getEnv("TARANTOOL_PASS", "password"),
		},
		RedisConfig: RedisConfig{
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
	}
}

// Validate checks that the settings needed for a live run are present.
// Credentials are not needed when the run is served from a debug snapshot,
// so callers decide when to validate.
func (c *Config) Validate() error {
	if c.NextcloudUser == "" || c.NextcloudPassword == "" {
		return ErrMissingNextcloudCredentials
	}
	if c.PublishEnabled() && (c.WordPressUser == "" || c.WordPressPassword == "") {
		return ErrMissingWordPressCredentials
	}
	switch c.SnapshotBackend {
	case SnapshotBackendFile, SnapshotBackendTarantool, SnapshotBackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSnapshotBackend, c.SnapshotBackend)
	}
	return nil
}

// PublishEnabled reports whether the rendered page should be pushed to WordPress
func (c *Config) PublishEnabled() bool {
	return c.WordPressPageID > 0
}

// NotifyEnabled reports whether a Mattermost notification should be sent
func (c *Config) NotifyEnabled() bool {
	return c.MattermostURL != "" && c.MattermostToken != "" && c.MattermostChannelID != ""
}

// Location returns the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv is a helper function for receiving env variables with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
