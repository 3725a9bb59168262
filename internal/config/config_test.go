package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("NC_URL", "")
	t.Setenv("NC_RETRIES", "")
	t.Setenv("WP_PAGE_ID", "")
	t.Setenv("DEBUG", "")

	cfg := NewConfig()

	assert.Equal(t, "https://cloud.akablas.de", cfg.NextcloudURL)
	assert.Equal(t, 3, cfg.NextcloudRetries)
	assert.Equal(t, 10*time.Second, cfg.NextcloudTimeout)
	assert.Equal(t, SnapshotBackendFile, cfg.SnapshotBackend)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.PublishEnabled())
}

func TestNewConfig_EnvVars(t *testing.T) {
	t.Setenv("NC_URL", "https://cloud.example.org/")
	t.Setenv("NC_RETRIES", "5")
	t.Setenv("NC_TIMEOUT", "3s")
	t.Setenv("WP_PAGE_ID", "42")
	t.Setenv("DEBUG", "true")
	t.Setenv("MATTERMOST_URL", "http://mm.local")
	t.Setenv("MATTERMOST_TOKEN", "token")
	t.Setenv("MATTERMOST_CHANNEL_ID", "channel")

	cfg := NewConfig()

	assert.Equal(t, "https://cloud.example.org", cfg.NextcloudURL)
	assert.Equal(t, 5, cfg.NextcloudRetries)
	assert.Equal(t, 3*time.Second, cfg.NextcloudTimeout)
	assert.Equal(t, 42, cfg.WordPressPageID)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.PublishEnabled())
	assert.True(t, cfg.NotifyEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "complete",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing nextcloud password",
			mutate:  func(c *Config) { c.NextcloudPassword = "" },
			wantErr: ErrMissingNextcloudCredentials,
		},
		{
			name: "publish without wordpress credentials",
			mutate: func(c *Config) {
				c.WordPressPageID = 7
				c.WordPressUser = ""
			},
			wantErr: ErrMissingWordPressCredentials,
		},
		{
			name:   "redis snapshot backend",
			mutate: func(c *Config) { c.SnapshotBackend = SnapshotBackendRedis },
		},
		{
			name:    "unknown snapshot backend",
			mutate:  func(c *Config) { c.SnapshotBackend = "s3" },
			wantErr: ErrUnknownSnapshotBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				AppConfig: AppConfig{SnapshotBackend: SnapshotBackendFile},
				NextcloudConfig: NextcloudConfig{
					NextcloudUser:     "user",
					NextcloudPassword: "secret",
				},
				WordPressConfig: WordPressConfig{
					WordPressUser:     "wp",
					WordPressPassword: "wp-secret",
				},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{AppConfig: AppConfig{Timezone: "Not/AZone"}}
	assert.Equal(t, time.UTC, cfg.Location())
}
