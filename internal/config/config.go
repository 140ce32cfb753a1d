package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverOracle   = "oracle"
)

var defaultPorts = map[string]int{
	DriverMySQL:    3307,
	DriverPostgres: 5432,
	DriverOracle:   1521,
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all job settings, populated from the environment and an
// optional .env file.
type Config struct {
	ListingsPath string
	ClimatePath  string
	OutputPath   string

	DB        DBConfig
	BatchSize int

	KafkaBrokers []string
	KafkaTopic   string

	MetricsTextfile string
	LogLevel        string
	LogFormat       string
}

// DBConfig holds the relational store connection settings.
type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Table    string
}

// Load reads configuration from environment variables, applying defaults
// where unset. Variables from the .env file named by ENV_FILE are applied
// first but never override the process environment.
func Load() (*Config, error) {
	if err := loadDotEnv(sharedcfg.EnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("LISTINGS_PATH", "data/listings.csv")
	v.SetDefault("CLIMATE_PATH", "data/climate.csv")
	v.SetDefault("OUTPUT_PATH", "data/listings_enriched.json")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_USER", "appuser")
	v.SetDefault("DB_PASSWORD", "apppass")
	v.SetDefault("DB_NAME", "realestate")
	v.SetDefault("DB_TABLE", "listings_enriched")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "listings-enriched")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	// The MYSQL_* names are accepted for deployments that predate DB_DRIVER.
	for key, aliases := range map[string][]string{
		"DB_HOST":     {"DB_HOST", "MYSQL_HOST"},
		"DB_PORT":     {"DB_PORT", "MYSQL_PORT"},
		"DB_USER":     {"DB_USER", "MYSQL_USER"},
		"DB_PASSWORD": {"DB_PASSWORD", "MYSQL_PASSWORD"},
		"DB_NAME":     {"DB_NAME", "MYSQL_DATABASE"},
	} {
		if err := v.BindEnv(append([]string{key}, aliases...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	port := defaultPorts[driver]
	if v.IsSet("DB_PORT") {
		port = v.GetInt("DB_PORT")
	}

	cfg := &Config{
		ListingsPath: v.GetString("LISTINGS_PATH"),
		ClimatePath:  v.GetString("CLIMATE_PATH"),
		OutputPath:   v.GetString("OUTPUT_PATH"),
		DB: DBConfig{
			Driver:   driver,
			Host:     v.GetString("DB_HOST"),
			Port:     port,
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Table:    v.GetString("DB_TABLE"),
		},
		BatchSize:       batchSize,
		KafkaBrokers:    sharedcfg.ParseBrokers(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:      v.GetString("KAFKA_TOPIC"),
		MetricsTextfile: v.GetString("METRICS_TEXTFILE"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, ok := defaultPorts[c.DB.Driver]; !ok {
		return fmt.Errorf("DB_DRIVER %q is not one of mysql, postgres, oracle", c.DB.Driver)
	}
	if c.DB.Host == "" {
		return errors.New("DB_HOST is required")
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		return fmt.Errorf("DB_PORT %d is out of range", c.DB.Port)
	}
	if !identRe.MatchString(c.DB.Table) {
		return fmt.Errorf("DB_TABLE %q is not a valid identifier", c.DB.Table)
	}
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	return nil
}

// loadDotEnv copies KEY=VALUE pairs from path into the process environment,
// skipping keys that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	f := viper.New()
	f.SetConfigFile(path)
	f.SetConfigType("env")
	if err := f.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for _, key := range f.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, f.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}
