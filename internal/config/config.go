package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Server   ServerConfig   `yaml:"server"`
	Sync     SyncConfig     `yaml:"sync"`
	Sitemap  SitemapConfig  `yaml:"sitemap"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RabbitMQConfig configures the CMS event publisher. An empty URL disables
// publishing entirely.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type YouTubeConfig struct {
	APIKey          string        `yaml:"api_key"`
	ChannelID       string        `yaml:"channel_id"`
	BaseURL         string        `yaml:"base_url"`
	OEmbedURL       string        `yaml:"oembed_url"`
	PageSize        int           `yaml:"page_size"`
	ShortsThreshold int           `yaml:"shorts_threshold_seconds"`
	Timeout         time.Duration `yaml:"timeout"`
	Retry           RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	CronSecret     string   `yaml:"cron_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type SitemapConfig struct {
	Hostname   string `yaml:"hostname"`
	OutputPath string `yaml:"output_path"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports every missing required setting by name, so a misconfigured
// deployment fails before any network call is made.
func (c *Config) Validate() error {
	var missing []string
	if c.YouTube.APIKey == "" {
		missing = append(missing, "youtube.api_key")
	}
	if c.YouTube.ChannelID == "" {
		missing = append(missing, "youtube.channel_id")
	}
	if c.Database.Host == "" {
		missing = append(missing, "database.host")
	}
	if c.Database.User == "" {
		missing = append(missing, "database.user")
	}
	if c.Database.DBName == "" {
		missing = append(missing, "database.dbname")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTube.OEmbedURL == "" {
		c.YouTube.OEmbedURL = "https://www.youtube.com/oembed"
	}
	if c.YouTube.PageSize == 0 {
		c.YouTube.PageSize = 10
	}
	if c.YouTube.ShortsThreshold == 0 {
		c.YouTube.ShortsThreshold = 120
	}
	if c.YouTube.Timeout == 0 {
		c.YouTube.Timeout = 30 * time.Second
	}
	if c.YouTube.Retry.MaxAttempts == 0 {
		c.YouTube.Retry.MaxAttempts = 3
	}
	if c.YouTube.Retry.InitialBackoff == 0 {
		c.YouTube.Retry.InitialBackoff = 1 * time.Second
	}
	if c.YouTube.Retry.MaxBackoff == 0 {
		c.YouTube.Retry.MaxBackoff = 30 * time.Second
	}
	if c.RabbitMQ.URL != "" {
		if c.RabbitMQ.Exchange == "" {
			c.RabbitMQ.Exchange = "video_syncer"
		}
		if c.RabbitMQ.RoutingKey == "" {
			c.RabbitMQ.RoutingKey = "videos"
		}
		if c.RabbitMQ.QueueName == "" {
			c.RabbitMQ.QueueName = "cms_videos"
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 6 * time.Hour
	}
	if c.Sitemap.OutputPath == "" {
		c.Sitemap.OutputPath = "public/sitemap.xml"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
