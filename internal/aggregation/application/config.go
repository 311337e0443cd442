package application

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines aggregation job configuration.
type Config struct {
	Schedule   ScheduleConfig `yaml:"schedule"`
	WebhookURL string         `yaml:"webhook_url"`
}

// ScheduleConfig defines the daily trigger time.
type ScheduleConfig struct {
	DailyAt string `yaml:"daily_at"`
	Enabled bool   `yaml:"enabled"`
}

// LoadConfig loads config from yaml or env. AGGREGATION_CONFIG points at an
// optional yaml file; env vars fill whatever the file leaves empty.
func LoadConfig() (Config, error) {
	cfg := Config{
		Schedule: ScheduleConfig{Enabled: true},
	}

	if path := os.Getenv("AGGREGATION_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Schedule.DailyAt == "" {
		cfg.Schedule.DailyAt = getenvDefault("AGGREGATION_DAILY_AT", "01:00")
	}
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = os.Getenv("AGGREGATION_WEBHOOK_URL")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
