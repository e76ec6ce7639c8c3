// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"deadpigeons/domain/entities"

	validator "github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"required"`

	// HTTP server
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Week cutover: from this local weekday and hour on, submissions count
	// toward the following week's board
	Timezone    string `envconfig:"TIMEZONE" default:"Europe/Copenhagen" validate:"required"`
	CutoverDay  string `envconfig:"CUTOVER_DAY" default:"Saturday"`
	CutoverHour int    `envconfig:"CUTOVER_HOUR" default:"17" validate:"min=0,max=23"`

	// Entry pricing as "size:price" pairs
	PriceTableRaw string              `envconfig:"PRICE_TABLE" default:"5:20,6:40,7:80,8:160"`
	PriceTable    entities.PriceTable `envconfig:"-"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Environment: "development", "production" or "test"
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads environment variables into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	table, err := parsePriceTable(cfg.PriceTableRaw)
	if err != nil {
		return nil, fmt.Errorf("PRICE_TABLE: %w", err)
	}
	cfg.PriceTable = table

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := parseWeekday(cfg.CutoverDay); err != nil {
		return nil, err
	}
	if err := cfg.PriceTable.Validate(); err != nil {
		return nil, fmt.Errorf("PRICE_TABLE: %w", err)
	}

	return &cfg, nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// WeekClock builds the week clock from the configured cutover settings
func (c *Config) WeekClock() (*entities.WeekClock, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	day, err := parseWeekday(c.CutoverDay)
	if err != nil {
		return nil, err
	}
	return entities.NewWeekClock(loc, day, c.CutoverHour), nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

func parsePriceTable(raw string) (entities.PriceTable, error) {
	table := make(entities.PriceTable)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed pair %q, want size:price", pair)
		}
		size, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("bad size in %q: %w", pair, err)
		}
		price, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad price in %q: %w", pair, err)
		}
		table[size] = price
	}
	return table, nil
}
