package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings, loaded from environment variables
// with sensible defaults for Russian marketplace storefronts.
type Config struct {
	Browser BrowserConfig
	Crawler CrawlerConfig
	Export  ExportConfig
	Logging LoggingConfig
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
	AcceptLanguage string
	UserAgent      string
	Proxy          string
}

type CrawlerConfig struct {
	BaseURL         string
	DelayMin        time.Duration
	DelayMax        time.Duration
	MaxPages        int
	MaxItems        int
	MaxScrolls      int
	NavTimeout      time.Duration
	SelectorTimeout time.Duration
	IdleTimeout     time.Duration
	ItemRetries     int
}

type ExportConfig struct {
	Output string
	Format string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "ru-RU"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "Europe/Moscow"),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7"),
			UserAgent: getEnvOrDefault("BROWSER_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
			Proxy: getEnvOrDefault("BROWSER_PROXY", ""),
		},
		Crawler: CrawlerConfig{
			BaseURL:         getEnvOrDefault("CRAWLER_BASE_URL", "https://www.ozon.ru"),
			DelayMin:        getDurationOrDefault("CRAWLER_DELAY_MIN", 2*time.Second),
			DelayMax:        getDurationOrDefault("CRAWLER_DELAY_MAX", 5*time.Second),
			MaxPages:        getIntOrDefault("CRAWLER_MAX_PAGES", 3),
			MaxItems:        getIntOrDefault("CRAWLER_MAX_ITEMS", 100),
			MaxScrolls:      getIntOrDefault("CRAWLER_MAX_SCROLLS", 15),
			NavTimeout:      getDurationOrDefault("CRAWLER_NAV_TIMEOUT", 25*time.Second),
			SelectorTimeout: getDurationOrDefault("CRAWLER_SELECTOR_TIMEOUT", 7*time.Second),
			IdleTimeout:     getDurationOrDefault("CRAWLER_IDLE_TIMEOUT", 8*time.Second),
			ItemRetries:     getIntOrDefault("CRAWLER_ITEM_RETRIES", 2),
		},
		Export: ExportConfig{
			Output: getEnvOrDefault("EXPORT_OUTPUT", "products"),
			Format: getEnvOrDefault("EXPORT_FORMAT", "csv"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("crawler base URL is required")
	}
	if !strings.HasPrefix(c.Crawler.BaseURL, "http") {
		return fmt.Errorf("crawler base URL must start with http(s): %s", c.Crawler.BaseURL)
	}
	if c.Crawler.DelayMin < 0 || c.Crawler.DelayMax < c.Crawler.DelayMin {
		return fmt.Errorf("invalid delay range: min=%s max=%s", c.Crawler.DelayMin, c.Crawler.DelayMax)
	}
	if c.Crawler.MaxPages < 1 {
		return fmt.Errorf("max pages must be at least 1, got %d", c.Crawler.MaxPages)
	}
	if c.Crawler.MaxScrolls < 1 {
		return fmt.Errorf("max scrolls must be at least 1, got %d", c.Crawler.MaxScrolls)
	}
	switch c.Export.Format {
	case "csv", "json", "both":
	default:
		return fmt.Errorf("unsupported export format: %s", c.Export.Format)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
