package writer

import (
	"go.uber.org/zap"

	"github.com/arloliu/jwlf/internal/options"
)

// DefaultIndent is the indent unit of WithPretty.
const DefaultIndent = "  "

// Config holds writer settings.
type Config struct {
	logger  *zap.Logger
	indent  string
	inline  bool
	baseDir string
}

// Option configures a Writer.
type Option = options.Option[*Config]

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithIndent selects pretty output with the given indent unit.
// An empty indent selects dense output, the default.
func WithIndent(indent string) Option {
	return options.NoError(func(c *Config) { c.indent = indent })
}

// WithPretty selects pretty output indented by DefaultIndent.
func WithPretty() Option {
	return WithIndent(DefaultIndent)
}

// WithInlineData writes curve data inline even for logs with a dataUri. The
// dataUri property is left out of the written header.
func WithInlineData() Option {
	return options.NoError(func(c *Config) { c.inline = true })
}

// WithBaseDir sets the directory relative dataUri values resolve against.
// File writers default to the directory of the file.
func WithBaseDir(dir string) Option {
	return options.NoError(func(c *Config) { c.baseDir = dir })
}

func newConfig(opts []Option) *Config {
	c := &Config{logger: zap.NewNop()}
	// The options above never fail.
	_ = options.Apply(c, opts...)

	return c
}
