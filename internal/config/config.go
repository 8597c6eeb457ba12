package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/example/monex/pkg/statement"
	"github.com/example/monex/pkg/transaction"
)

// EnvPrefix is prepended to every environment override, e.g. MONEX_DATA_DIR
const EnvPrefix = "MONEX"

// Config represents the application configuration
type Config struct {
	DataDir        string            `mapstructure:"data_dir"`
	IncomeCategory string            `mapstructure:"income_category"`
	Currency       string            `mapstructure:"currency"`
	LogLevel       string            `mapstructure:"log_level"`
	DateLayouts    []string          `mapstructure:"date_layouts"`
	Columns        statement.Columns `mapstructure:"columns"`
}

// StatementOptions converts the config into reader options
func (c *Config) StatementOptions() statement.Options {
	return statement.Options{
		Columns:     c.Columns,
		DateLayouts: c.DateLayouts,
	}
}

// LoadConfig loads configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the reader or aggregator cannot work with
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.IncomeCategory) == "" {
		problems = append(problems, "income_category cannot be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	cols := statement.DefaultColumns()

	v.SetDefault("data_dir", ".")
	v.SetDefault("income_category", transaction.IncomeCategory)
	v.SetDefault("currency", "NZD")
	v.SetDefault("log_level", "warn")
	v.SetDefault("date_layouts", statement.DefaultDateLayouts)
	v.SetDefault("columns.date", cols.Date)
	v.SetDefault("columns.amount", cols.Amount)
	v.SetDefault("columns.merchant", cols.Merchant)
	v.SetDefault("columns.fees", cols.Fees)
	v.SetDefault("columns.category", cols.Category)
}
