/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/config"
	"github.com/tieubaoca/coredna-chatbot/logger"
	"github.com/tieubaoca/coredna-chatbot/service"
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Build the knowledge base from the configured marketing pages",
	Long: `Fetches each configured CoreDNA marketing page, extracts its text,
headings and meta description, and writes data/knowledge-base.json plus a
summary.json next to it.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		zapLogger := logger.New(cfg.Debug)
		defer zapLogger.Sync()

		scraper := service.NewScraperService(service.ScraperServiceConfig{
			Pages:          cfg.Scraper.Pages,
			OutputDir:      cfg.Scraper.OutputDir,
			ContentLimit:   cfg.Scraper.ContentLimit,
			MaxKeyPoints:   cfg.Scraper.MaxKeyPoints,
			RequestDelay:   cfg.Scraper.RequestDelay,
			RequestTimeout: cfg.Scraper.RequestTimeout,
			UserAgent:      cfg.Scraper.UserAgent,
		}, zapLogger)

		base, err := scraper.ScrapeAll(context.Background())
		if err != nil {
			zapLogger.Fatal("scraping failed", zap.Error(err))
		}
		if err := scraper.SaveKnowledgeBase(base); err != nil {
			zapLogger.Fatal("failed to save knowledge base", zap.Error(err))
		}

		for _, slug := range base.Slugs {
			page := base.Pages[slug]
			zapLogger.Info("scraped page", zap.String("slug", slug), zap.String("title", page.Title))
		}
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
