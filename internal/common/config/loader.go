package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the YAML configuration, applies environment overrides and fills
// in defaults. Environment variables use underscores, e.g. DATABASE_POSTGRES_HOST.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tubarao-engine")
	v.SetDefault("app.environment", "development")

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "microcredito")
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.max_connections", 10)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("integrations.aws.region", "sa-east-1")
	v.SetDefault("integrations.aws.ses.subject", "Aviso de cobrança")

	v.SetDefault("score.on_time_points", 15)
	v.SetDefault("score.late_tier1_points", 10)
	v.SetDefault("score.late_tier2_points", 25)
	v.SetDefault("score.late_tier3_points", 40)
	v.SetDefault("score.relationship_points_per_month", 2)
	v.SetDefault("score.relationship_cap_months", 60)
	v.SetDefault("score.default_penalty", 150)
	v.SetDefault("score.base_multiplier", 2.0)
	v.SetDefault("score.min_suggested_limit", 100)
	v.SetDefault("score.max_suggested_limit", 20000)

	v.SetDefault("renegotiation.proposal_ttl_days", 7)

	v.SetDefault("collection.dispatch_delay_ms", 2000)
	v.SetDefault("collection.ledger_ttl_hours", 48)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validate(cfg *Config) error {
	if cfg.Collection.DispatchDelayMs < 0 {
		return fmt.Errorf("collection.dispatch_delay_ms must not be negative")
	}
	if cfg.Collection.LedgerTTLHours < 24 {
		return fmt.Errorf("collection.ledger_ttl_hours must cover at least one calendar day")
	}
	if cfg.Renegotiation.ProposalTTLDays <= 0 {
		return fmt.Errorf("renegotiation.proposal_ttl_days must be positive")
	}
	return nil
}
