package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warning, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warning error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`
}
