package logger

import (
	"go.uber.org/zap/zapcore"
)

// Config selects the encoder and level of the logger built by New.
type Config struct {
	// Format is one of "auto", "console", "logfmt" or "json". "auto" is
	// console on a terminal and logfmt otherwise.
	Format string        `toml:"format"`
	Level  zapcore.Level `toml:"level"`
}

// NewConfig returns a new instance of Config with defaults.
func NewConfig() Config {
	return Config{
		Format: "auto",
		Level:  zapcore.InfoLevel,
	}
}
