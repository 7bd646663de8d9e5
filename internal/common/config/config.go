package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Integrations  IntegrationConfig   `mapstructure:"integrations"`
	Score         ScoreConfig         `mapstructure:"score"`
	Renegotiation RenegotiationConfig `mapstructure:"renegotiation"`
	Collection    CollectionConfig    `mapstructure:"collection"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// IntegrationConfig holds settings for the AWS messaging gateways.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
			Subject   string `mapstructure:"subject"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
	AlertEmail string `mapstructure:"alert_email"`
}

// ScoreConfig holds the behavioral score weights and limit bounds.
type ScoreConfig struct {
	OnTimePoints               int     `mapstructure:"on_time_points"`
	LateTier1Points            int     `mapstructure:"late_tier1_points"`
	LateTier2Points            int     `mapstructure:"late_tier2_points"`
	LateTier3Points            int     `mapstructure:"late_tier3_points"`
	RelationshipPointsPerMonth int     `mapstructure:"relationship_points_per_month"`
	RelationshipCapMonths      int     `mapstructure:"relationship_cap_months"`
	DefaultPenalty             int     `mapstructure:"default_penalty"`
	BaseMultiplier             float64 `mapstructure:"base_multiplier"`
	MinSuggestedLimit          float64 `mapstructure:"min_suggested_limit"`
	MaxSuggestedLimit          float64 `mapstructure:"max_suggested_limit"`
}

// RenegotiationConfig holds proposal lifetime settings.
type RenegotiationConfig struct {
	ProposalTTLDays int `mapstructure:"proposal_ttl_days"`
}

// CollectionConfig holds the dispatch throttle and idempotency settings.
type CollectionConfig struct {
	DispatchDelayMs int `mapstructure:"dispatch_delay_ms"`
	LedgerTTLHours  int `mapstructure:"ledger_ttl_hours"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
