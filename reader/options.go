package reader

import (
	"go.uber.org/zap"

	"github.com/arloliu/jwlf/internal/options"
	"github.com/arloliu/jwlf/welllog"
)

// DataListener is called after every row of curve data has been appended to
// l. It runs on the reader's goroutine and may modify l, typically by clearing
// its curve values. Returning false stops the read with errs.ErrInterrupted.
type DataListener func(l *welllog.Log) bool

// Config holds reader settings.
type Config struct {
	logger   *zap.Logger
	baseDir  string
	listener DataListener
}

// Option configures a Reader.
type Option = options.Option[*Config]

// WithLogger sets the logger for recoverable format deviations.
// The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithBaseDir sets the directory relative dataUri values resolve against.
// File readers default to the directory of the file.
func WithBaseDir(dir string) Option {
	return options.NoError(func(c *Config) { c.baseDir = dir })
}

// WithDataListener registers fn to be called after every row of data.
func WithDataListener(fn DataListener) Option {
	return options.NoError(func(c *Config) { c.listener = fn })
}

func newConfig(opts []Option) *Config {
	c := &Config{logger: zap.NewNop()}
	// The options above never fail.
	_ = options.Apply(c, opts...)

	return c
}
