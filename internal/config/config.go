package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Source names accepted by SOURCE.
const (
	SourceOverpass = "overpass"
	SourcePostGIS  = "postgis"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	Source        string `mapstructure:"SOURCE"`

	OverpassURL       string        `mapstructure:"OVERPASS_URL"`
	OverpassTimeout   time.Duration `mapstructure:"OVERPASS_TIMEOUT"`
	OverpassUserAgent string        `mapstructure:"OVERPASS_USER_AGENT"`
	QueryTimeout      int           `mapstructure:"QUERY_TIMEOUT_SECONDS"`
	ResultLimit       int           `mapstructure:"RESULT_LIMIT"`

	RankingMode      string  `mapstructure:"RANKING_MODE"`
	QualityThreshold float64 `mapstructure:"QUALITY_THRESHOLD"`
	AttractionScore  float64 `mapstructure:"ATTRACTION_SCORE"`
	StrictIdentity   bool    `mapstructure:"STRICT_IDENTITY"`
	BrandFallback    bool    `mapstructure:"BRAND_FALLBACK"`

	DebounceInterval    time.Duration `mapstructure:"DEBOUNCE_INTERVAL"`
	MoveThresholdMeters float64       `mapstructure:"MOVE_THRESHOLD_METERS"`
	DefaultLat          float64       `mapstructure:"DEFAULT_LAT"`
	DefaultLon          float64       `mapstructure:"DEFAULT_LON"`
	DefaultRadius       float64       `mapstructure:"DEFAULT_RADIUS_METERS"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Origins splits ALLOWED_ORIGINS on commas, dropping blanks.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SOURCE", SourceOverpass)
	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("OVERPASS_TIMEOUT", "35s")
	v.SetDefault("OVERPASS_USER_AGENT", "nearby-places/1.0")
	v.SetDefault("QUERY_TIMEOUT_SECONDS", 25)
	v.SetDefault("RESULT_LIMIT", 300)
	v.SetDefault("RANKING_MODE", "unfiltered")
	v.SetDefault("QUALITY_THRESHOLD", 80)
	v.SetDefault("ATTRACTION_SCORE", 80)
	v.SetDefault("STRICT_IDENTITY", false)
	v.SetDefault("BRAND_FALLBACK", false)
	v.SetDefault("DEBOUNCE_INTERVAL", "2s")
	v.SetDefault("MOVE_THRESHOLD_METERS", 250)
	v.SetDefault("DEFAULT_LAT", 40.7128)
	v.SetDefault("DEFAULT_LON", -74.006)
	v.SetDefault("DEFAULT_RADIUS_METERS", 1000)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// LoadConfig reads configuration from app.env in path, overridden by environment variables.
// A missing file is not an error: defaults and the environment still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.Source {
	case SourceOverpass:
	case SourcePostGIS:
		if c.DBSource == "" {
			return fmt.Errorf("config: DB_SOURCE is required when SOURCE=%s", SourcePostGIS)
		}
	default:
		return fmt.Errorf("config: unknown SOURCE %q", c.Source)
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("config: RESULT_LIMIT must be positive")
	}
	if c.DefaultRadius <= 0 {
		return fmt.Errorf("config: DEFAULT_RADIUS_METERS must be positive")
	}
	return nil
}
