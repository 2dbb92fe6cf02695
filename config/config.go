package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"port"`
	Debug          bool          `mapstructure:"debug"`
	KnowledgePath  string        `mapstructure:"knowledge_path"`
	PublicDir      string        `mapstructure:"public_dir"`
	WatchKnowledge bool          `mapstructure:"watch_knowledge"`
	Scraper        ScraperConfig `mapstructure:"scraper"`
}

type ScraperConfig struct {
	Pages          []string      `mapstructure:"pages"`
	OutputDir      string        `mapstructure:"output_dir"`
	ContentLimit   int           `mapstructure:"content_limit"`
	MaxKeyPoints   int           `mapstructure:"max_key_points"`
	RequestDelay   time.Duration `mapstructure:"request_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "3000")
	v.SetDefault("knowledge_path", "data/knowledge-base.json")
	v.SetDefault("watch_knowledge", true)
	v.SetDefault("scraper.pages", []string{
		"https://www.coredna.com/why-coredna",
		"https://www.coredna.com/ecommerce-platform",
		"https://www.coredna.com/pricing",
		"https://www.coredna.com/content-management-platform",
		"https://www.coredna.com/features",
	})
	v.SetDefault("scraper.output_dir", "data")
	v.SetDefault("scraper.content_limit", 5000)
	v.SetDefault("scraper.max_key_points", 10)
	v.SetDefault("scraper.request_delay", "2s")
	v.SetDefault("scraper.request_timeout", "30s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	// Read config file; a missing file means defaults plus environment.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
