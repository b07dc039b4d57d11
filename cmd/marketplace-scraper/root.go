package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maltedev/marketplace-scraper/internal/browser"
	"github.com/maltedev/marketplace-scraper/internal/config"
	"github.com/maltedev/marketplace-scraper/internal/export"
	"github.com/maltedev/marketplace-scraper/internal/models"
	"github.com/maltedev/marketplace-scraper/internal/scraper"
)

type rootFlags struct {
	query     string
	url       string
	sellerURL string
	pages     int
	maxItems  int
	output    string
	format    string
	headful   bool
	verbose   bool
}

func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "marketplace-scraper",
		Short: "Extract product catalogs from marketplace storefronts",
		Long: `marketplace-scraper crawls a marketplace storefront through a real
browser and exports the discovered product records to CSV or JSON.

The crawl target is a free-text search query, a product URL, a seller
page or a brand page; listing pagination and infinite scroll are both
handled.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "free-text search query")
	cmd.Flags().StringVarP(&flags.url, "url", "u", "", "product or brand page URL")
	cmd.Flags().StringVarP(&flags.sellerURL, "seller-url", "s", "", "seller page URL")
	cmd.Flags().IntVarP(&flags.pages, "pages", "p", 0, "maximum listing pages to walk")
	cmd.Flags().IntVarP(&flags.maxItems, "max-items", "m", 0, "maximum products to extract")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path without extension")
	cmd.Flags().StringVar(&flags.format, "format", "", "export format: csv, json or both")
	cmd.Flags().BoolVar(&flags.headful, "headful", false, "run the browser with a visible window")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.MarkFlagsMutuallyExclusive("query", "url", "seller-url")
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runCrawl(cmd *cobra.Command, flags *rootFlags) error {
	input := flags.query
	if input == "" {
		input = flags.url
	}
	if input == "" {
		input = flags.sellerURL
	}
	if input == "" {
		return fmt.Errorf("one of --query, --url or --seller-url is required")
	}

	cfg := config.Load()
	if flags.pages > 0 {
		cfg.Crawler.MaxPages = flags.pages
	}
	if flags.maxItems > 0 {
		cfg.Crawler.MaxItems = flags.maxItems
	}
	if flags.output != "" {
		cfg.Export.Output = flags.output
	}
	if flags.format != "" {
		cfg.Export.Format = flags.format
	}
	if flags.headful {
		cfg.Browser.Headless = false
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cfg.Logging)
	logger := slog.Default()

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
		ProxyServer:    cfg.Browser.Proxy,
		ExtraHeaders:   browser.DefaultOptions().ExtraHeaders,
	})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("browser shutdown incomplete", "error", err)
		}
	}()

	service := scraper.NewService(b, cfg.Crawler)

	result, err := service.Run(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	if err := writeResult(result, cfg.Export); err != nil {
		return err
	}

	logger.Info("crawl finished",
		"run_id", result.RunID,
		"total", result.Summary.Total,
		"with_price", result.Summary.WithPrice,
		"with_rating", result.Summary.WithRating,
		"output", cfg.Export.Output)

	if result.Summary.Message != "" {
		logger.Warn("crawl note", "message", result.Summary.Message)
	}

	return nil
}

func writeResult(result *models.CrawlResult, cfg config.ExportConfig) error {
	writer, err := export.New(cfg.Format, cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to open export writer: %w", err)
	}
	if err := writer.Write(result.Products); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}

	summaryPath := cfg.Output + ".summary.json"
	data, err := json.MarshalIndent(result.Summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(summaryPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
