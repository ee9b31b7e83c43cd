package config

// Config represents the complete configuration structure
type Config struct {
	Ballchasing BallchasingConfig `mapstructure:"ballchasing"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// BallchasingConfig holds the API token and rate-limit retry settings
type BallchasingConfig struct {
	Token    string `mapstructure:"token"`
	Backoff  bool   `mapstructure:"backoff"`
	MaxTries int    `mapstructure:"max_tries"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
