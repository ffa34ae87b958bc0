package dataobj

import (
	"github.com/charmbracelet/log"

	"github.com/reoring/dataobj/rules"
)

// Option configures a single fill. Later options override earlier ones.
type Option func(*options)

type options struct {
	engine   rules.Engine
	settings *rules.Settings
	logger   *log.Logger
}

// WithEngine validates with e instead of the default rule engine.
func WithEngine(e rules.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithValidationSettings configures the default rule engine for this fill
// instead of the process-wide validation settings.
func WithValidationSettings(s rules.Settings) Option {
	return func(o *options) { o.settings = &s }
}

// WithLogger logs this fill to l instead of the package logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if o.engine == nil {
		s := rules.Current()
		if o.settings != nil {
			s = *o.settings
		}
		v := rules.New(s)
		v.Logger = o.logger
		o.engine = v
	}
	return o
}
