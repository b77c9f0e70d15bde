package validate

import (
	"go.uber.org/zap"

	"github.com/arloliu/jwlf/internal/options"
)

// Config holds validator settings.
type Config struct {
	logger *zap.Logger
}

// Option configures a Validator.
type Option = options.Option[*Config]

// WithLogger sets a logger that receives a debug entry per finding.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
