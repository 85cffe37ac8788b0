package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int      `mapstructure:"RATE_LIMIT_BURST"`
	ClinicOpenTime  string   `mapstructure:"CLINIC_OPEN_TIME"`
	ClinicCloseTime string   `mapstructure:"CLINIC_CLOSE_TIME"`
	SlotMinutes     int      `mapstructure:"SLOT_MINUTES"`
	WeekStart       string   `mapstructure:"WEEK_START"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("CLINIC_OPEN_TIME", "08:00")
	v.SetDefault("CLINIC_CLOSE_TIME", "17:00")
	v.SetDefault("SLOT_MINUTES", 30)
	v.SetDefault("WEEK_START", "sunday")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("CLINIC_OPEN_TIME")
	v.BindEnv("CLINIC_CLOSE_TIME")
	v.BindEnv("SLOT_MINUTES")
	v.BindEnv("WEEK_START")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekStartDay resolves WEEK_START to a weekday. Call Validate first;
// unknown values fall back to Sunday.
func (c *Config) WeekStartDay() time.Weekday {
	return weekdays[strings.ToLower(c.WeekStart)]
}

// Validate checks that the clinic hours configuration is coherent: open and
// close must be valid HH:MM values with open before close, the slot length
// must divide the working day evenly, and WEEK_START must name a weekday.
func (c *Config) Validate() error {
	open, err := parseClock(c.ClinicOpenTime)
	if err != nil {
		return fmt.Errorf("CLINIC_OPEN_TIME: %w", err)
	}
	closing, err := parseClock(c.ClinicCloseTime)
	if err != nil {
		return fmt.Errorf("CLINIC_CLOSE_TIME: %w", err)
	}
	if open >= closing {
		return fmt.Errorf("CLINIC_OPEN_TIME %q must be before CLINIC_CLOSE_TIME %q", c.ClinicOpenTime, c.ClinicCloseTime)
	}
	if c.SlotMinutes <= 0 {
		return fmt.Errorf("SLOT_MINUTES must be positive, got %d", c.SlotMinutes)
	}
	if _, ok := weekdays[strings.ToLower(c.WeekStart)]; !ok {
		return fmt.Errorf("WEEK_START must name a weekday, got %q", c.WeekStart)
	}
	return nil
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return h*60 + m, nil
}
