package scene

import (
	"log/slog"

	"github.com/hupe1980/vimgo/document"
)

type options struct {
	logger      *slog.Logger
	concurrency int
	mode        *document.ExpansionMode
}

// Option configures expansion and scene loading.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{concurrency: 4}
	for _, fn := range opts {
		fn(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	return o
}

// WithLogger reports skipped subtrees and load progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithConcurrency bounds the number of LoadScene tasks running at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithMode overrides the expansion mode LoadScene derives from the header.
func WithMode(m document.ExpansionMode) Option {
	return func(o *options) {
		o.mode = &m
	}
}
