package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Data        DataConfig     `mapstructure:"data"`
	Analysis    AnalysisConfig `mapstructure:"analysis"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	DatabaseURL     string `mapstructure:"database_url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// DataConfig locates the CSV inputs consumed at startup when the database has
// not been seeded yet.
type DataConfig struct {
	PricesCSV string `mapstructure:"prices_csv"`
	EventsCSV string `mapstructure:"events_csv"`
}

// AnalysisConfig carries every tunable recognized by the analysis pipeline.
type AnalysisConfig struct {
	Method            string  `mapstructure:"method"`
	NBkps             int     `mapstructure:"n_bkps"`
	WindowDays        int     `mapstructure:"window_days"`
	ToleranceDays     int     `mapstructure:"tolerance_days"`
	ACFLagCount       int     `mapstructure:"acf_lag_count"`
	SignificanceAlpha float64 `mapstructure:"significance_alpha"`
	RollingWindow     int     `mapstructure:"rolling_window"`
	LongWindow        int     `mapstructure:"long_window"`
	PeakProminence    float64 `mapstructure:"peak_prominence"`
	PeakSpacing       int     `mapstructure:"peak_spacing"`
	TrendEpsilon      float64 `mapstructure:"trend_epsilon"`
	MinSeriesLength   int     `mapstructure:"min_series_length"`
	ADFMaxLag         int     `mapstructure:"adf_max_lag"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Analysis.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configuration values that would make the pipeline fail
// mid-computation. n_bkps is validated against the series length later, at
// detection time, because the length is not known here.
func (c *AnalysisConfig) Validate() error {
	if c.Method != "exact" && c.Method != "peaks" {
		return fmt.Errorf("analysis.method must be \"exact\" or \"peaks\", got %q", c.Method)
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("analysis.window_days must be positive, got %d", c.WindowDays)
	}
	if c.ToleranceDays < 0 {
		return fmt.Errorf("analysis.tolerance_days must not be negative, got %d", c.ToleranceDays)
	}
	if c.ACFLagCount <= 0 {
		return fmt.Errorf("analysis.acf_lag_count must be positive, got %d", c.ACFLagCount)
	}
	if c.SignificanceAlpha <= 0 || c.SignificanceAlpha >= 1 {
		return fmt.Errorf("analysis.significance_alpha must be in (0, 1), got %g", c.SignificanceAlpha)
	}
	if c.RollingWindow <= 0 {
		return fmt.Errorf("analysis.rolling_window must be positive, got %d", c.RollingWindow)
	}
	if c.LongWindow <= c.RollingWindow {
		return fmt.Errorf("analysis.long_window (%d) must exceed analysis.rolling_window (%d)", c.LongWindow, c.RollingWindow)
	}
	return nil
}

// EffectiveToleranceDays returns tolerance_days, defaulting to window_days
// when unset.
func (c *AnalysisConfig) EffectiveToleranceDays() int {
	if c.ToleranceDays > 0 {
		return c.ToleranceDays
	}
	return c.WindowDays
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "petrolens")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "300s")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_ttl", "1h")

	viper.SetDefault("data.prices_csv", "data/raw/BrentOilPrices.csv")
	viper.SetDefault("data.events_csv", "")

	viper.SetDefault("analysis.method", "exact")
	viper.SetDefault("analysis.n_bkps", 5)
	viper.SetDefault("analysis.window_days", 30)
	viper.SetDefault("analysis.tolerance_days", 0) // 0 means "same as window_days"
	viper.SetDefault("analysis.acf_lag_count", 20)
	viper.SetDefault("analysis.significance_alpha", 0.05)
	viper.SetDefault("analysis.rolling_window", 30)
	viper.SetDefault("analysis.long_window", 90)
	viper.SetDefault("analysis.peak_prominence", 0.5)
	viper.SetDefault("analysis.peak_spacing", 0) // 0 means "same as long_window"
	viper.SetDefault("analysis.trend_epsilon", 0.01)
	viper.SetDefault("analysis.min_series_length", 30)
	viper.SetDefault("analysis.adf_max_lag", 0) // 0 means "Schwert rule"
}
