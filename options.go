package gowergo

import (
	"github.com/hupe1980/gowergo/codec"
	"github.com/hupe1980/gowergo/schema"
)

type options struct {
	keyColumn     string
	unknown       schema.UnknownPolicy
	missingValues []string

	parallelism   int
	maxIterations int
	seed          int64

	codec   codec.Codec
	logger  *Logger
	metrics MetricsCollector
}

// Option configures pipeline construction. The fluent builder in builder.go
// is the primary configuration surface; options exist so New keeps a small
// signature.
type Option func(*options)

// WithKeyColumn names the table column holding the stable record key.
func WithKeyColumn(name string) Option {
	return func(o *options) { o.keyColumn = name }
}

// WithUnknownPolicy sets the treatment of categorical values outside a
// declared level set. Default: reject with ErrSchemaMismatch.
func WithUnknownPolicy(p schema.UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

// WithMissingValues overrides the raw cell values treated as missing.
func WithMissingValues(values ...string) Option {
	return func(o *options) { o.missingValues = values }
}

// WithParallelism bounds concurrency for the matrix build and the k scan.
// Defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithMaxSwapIterations caps PAM swap passes.
func WithMaxSwapIterations(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxIterations = n
		}
	}
}

// WithSeed fixes the embedding seed.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithCodec configures the snapshot payload codec.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging. Nil disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures a metrics collector. Nil disables collection.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}
