package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "ru-RU", cfg.Browser.Locale)
	assert.Equal(t, "Europe/Moscow", cfg.Browser.TimezoneID)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, "https://www.ozon.ru", cfg.Crawler.BaseURL)
	assert.Equal(t, 15, cfg.Crawler.MaxScrolls)
	assert.Equal(t, 25*time.Second, cfg.Crawler.NavTimeout)
	assert.Equal(t, 2*time.Second, cfg.Crawler.DelayMin)
	assert.Equal(t, "csv", cfg.Export.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CRAWLER_BASE_URL", "https://example.com")
	t.Setenv("CRAWLER_MAX_PAGES", "10")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("CRAWLER_DELAY_MIN", "500ms")

	cfg := Load()

	assert.Equal(t, "https://example.com", cfg.Crawler.BaseURL)
	assert.Equal(t, 10, cfg.Crawler.MaxPages)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawler.DelayMin)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.Crawler.BaseURL = "" },
			wantErr: "base URL is required",
		},
		{
			name:    "non-http base URL",
			mutate:  func(c *Config) { c.Crawler.BaseURL = "ftp://host" },
			wantErr: "must start with http",
		},
		{
			name: "inverted delay range",
			mutate: func(c *Config) {
				c.Crawler.DelayMin = 5 * time.Second
				c.Crawler.DelayMax = time.Second
			},
			wantErr: "invalid delay range",
		},
		{
			name:    "zero max pages",
			mutate:  func(c *Config) { c.Crawler.MaxPages = 0 },
			wantErr: "max pages",
		},
		{
			name:    "bad export format",
			mutate:  func(c *Config) { c.Export.Format = "xml" },
			wantErr: "unsupported export format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
