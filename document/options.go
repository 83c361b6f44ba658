package document

import "log/slog"

// LoadOptions controls which large buffers are materialized on read.
type LoadOptions struct {
	// SkipGeometry leaves the geometry buffer unread. Nodes are still loaded.
	SkipGeometry bool
	// SkipAssets leaves the assets buffer unread.
	SkipAssets bool
}

type options struct {
	load      LoadOptions
	useColors bool
	header    Header
	logger    *slog.Logger
}

// Option configures reading and building.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{header: CurrentHeader()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLoadOptions sets which buffers Read skips.
func WithLoadOptions(lo LoadOptions) Option {
	return func(o *options) {
		o.load = lo
	}
}

// WithSkipGeometry is shorthand for LoadOptions{SkipGeometry: true}.
func WithSkipGeometry() Option {
	return func(o *options) {
		o.load.SkipGeometry = true
	}
}

// WithSkipAssets is shorthand for LoadOptions{SkipAssets: true}.
func WithSkipAssets() Option {
	return func(o *options) {
		o.load.SkipAssets = true
	}
}

// WithColors makes DocumentBuilder write per-vertex colors.
func WithColors(enabled bool) Option {
	return func(o *options) {
		o.useColors = enabled
	}
}

// WithHeader sets the header DocumentBuilder writes.
func WithHeader(h Header) Option {
	return func(o *options) {
		o.header = h
	}
}

// WithLogger enables debug logging of buffer handling.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
