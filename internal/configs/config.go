package configs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lbc-crawler-service/internal/adapters/urlquery"
	"lbc-crawler-service/internal/constants"
)

// CrawlerConfig holds the crawl loop settings and the configured queries.
type CrawlerConfig struct {
	// SearchURLs are marketplace search URLs to crawl, comma-separated in
	// the SEARCH_URLS variable.
	SearchURLs []string
	// SearchFilters are structured filter sets from SEARCH_FILTERS_JSON.
	// When set they win over SearchURLs.
	SearchFilters []urlquery.FilterArgs

	MaxPages            int
	PageSize            int
	PageDelay           time.Duration
	QueryDelay          time.Duration
	MaxAgeDays          int
	ConsecutiveOldLimit int
	ProxyURL            string
	// OutputFormat is "detailed" or "compact".
	OutputFormat string
}

// SinkConfig selects and configures the record sink.
type SinkConfig struct {
	// Kind is "file", "postgres" or "rabbitmq".
	Kind        string
	OutputFile  string
	DatabaseURL string
	RabbitMQURL string
}

type HTTPConfig struct {
	// Port empty means no HTTP surface.
	Port       string
	RunOnStart bool
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	Crawler      CrawlerConfig
	Sink         SinkConfig
	HTTP         HTTPConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig reads configuration from the environment. A .env file is loaded
// first when present; its absence is not an error so the service can run on
// plain environment variables in containers.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: no .env file loaded (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "lbc-crawler-service")

	if raw := os.Getenv("SEARCH_URLS"); raw != "" {
		for _, u := range strings.Split(raw, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.Crawler.SearchURLs = append(cfg.Crawler.SearchURLs, u)
			}
		}
	}

	if raw := os.Getenv("SEARCH_FILTERS_JSON"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.Crawler.SearchFilters); err != nil {
			return nil, fmt.Errorf("SEARCH_FILTERS_JSON is not a valid JSON array of filter sets: %w", err)
		}
	}

	cfg.Crawler.MaxPages = getEnvAsInt("MAX_PAGES", 0)
	cfg.Crawler.PageSize = getEnvAsInt("PAGE_SIZE", constants.DefaultPageSize)
	cfg.Crawler.PageDelay = time.Duration(getEnvAsFloat("PAGE_DELAY_SECONDS", 1.0) * float64(time.Second))
	cfg.Crawler.QueryDelay = time.Duration(getEnvAsFloat("QUERY_DELAY_SECONDS", 2.0) * float64(time.Second))
	cfg.Crawler.MaxAgeDays = getEnvAsInt("MAX_AGE_DAYS", 0)
	cfg.Crawler.ConsecutiveOldLimit = getEnvAsInt("CONSECUTIVE_OLD_LIMIT", constants.DefaultConsecutiveOldLimit)
	cfg.Crawler.ProxyURL = getEnvAsString("PROXY_URL", "")

	cfg.Crawler.OutputFormat = getEnvAsString("OUTPUT_FORMAT", "detailed")
	switch cfg.Crawler.OutputFormat {
	case "detailed", "compact":
	case "":
		cfg.Crawler.OutputFormat = "detailed"
	default:
		return nil, fmt.Errorf("OUTPUT_FORMAT must be 'detailed' or 'compact', got %q", cfg.Crawler.OutputFormat)
	}

	cfg.Sink.Kind = getEnvAsString("SINK", "file")
	if cfg.Sink.Kind == "" {
		cfg.Sink.Kind = "file"
	}
	switch cfg.Sink.Kind {
	case "file":
		cfg.Sink.OutputFile = getEnvAsString("OUTPUT_FILE", "crawl_results.json")
	case "postgres":
		cfg.Sink.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.Sink.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required when SINK=postgres")
		}
	case "rabbitmq":
		cfg.Sink.RabbitMQURL = os.Getenv("RABBITMQ_URL")
		if cfg.Sink.RabbitMQURL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when SINK=rabbitmq")
		}
	default:
		return nil, fmt.Errorf("SINK must be 'file', 'postgres' or 'rabbitmq', got %q", cfg.Sink.Kind)
	}

	cfg.HTTP.Port = getEnvAsString("HTTP_PORT", "")
	cfg.HTTP.RunOnStart = getEnvAsBool("RUN_ON_START", cfg.HTTP.Port == "")

	if cfg.HTTP.Port == "" && !cfg.HTTP.RunOnStart {
		return nil, fmt.Errorf("nothing to do: HTTP_PORT is empty and RUN_ON_START is false")
	}
	if cfg.HTTP.RunOnStart && len(cfg.Crawler.SearchURLs) == 0 && len(cfg.Crawler.SearchFilters) == 0 {
		return nil, fmt.Errorf("RUN_ON_START requires SEARCH_URLS or SEARCH_FILTERS_JSON")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// getEnvAsString reads an environment variable or returns the default.
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or returns the default.
// A present but unparseable value is logged and replaced by the default.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsFloat reads an environment variable as float64 or returns the default.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueFloat, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueFloat
}

// getEnvAsBool reads an environment variable as bool or returns the default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
