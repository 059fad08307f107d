package vexplore

import (
	"github.com/hupe1980/vexplore/codec"
)

// DefaultMaxRecords is the record cap applied when no option overrides it.
const DefaultMaxRecords = 1000

type options struct {
	maxRecords int
	logger     *Logger
	codec      codec.Codec
}

// Option configures extraction behavior.
type Option func(*options)

// WithMaxRecords caps the number of records returned from one extraction.
// Values below one disable extraction of any records.
func WithMaxRecords(n int) Option {
	return func(o *options) {
		o.maxRecords = n
	}
}

// WithLogger sets the logger used during extraction.
//
// If nil is passed, logging is disabled (the library default).
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithCodec configures the codec used for decoding sidecar metadata files.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		maxRecords: DefaultMaxRecords,
		logger:     NoopLogger(),
		codec:      codec.Default,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
