package jigsaw

// Option configures a Maker.
//
// Example:
//
//	// Default software rendering with random tabs
//	m := jigsaw.New()
//
//	// Reproducible tabs and a custom first shadow pass
//	m := jigsaw.New(jigsaw.WithSeed(42), jigsaw.WithDarkShadow(shadow))
type Option func(*options)

// options holds optional configuration for a Maker.
type options struct {
	renderer    Renderer
	random      BoolSource
	workers     int
	darkShadow  Shadow
	lightShadow Shadow
}

// defaultOptions returns the default maker options.
func defaultOptions() options {
	return options{
		renderer:    nil, // Will be set to SoftwareRenderer if nil
		random:      nil, // Will use the process-wide generator if nil
		workers:     0,   // GOMAXPROCS
		darkShadow:  DefaultDarkShadow(),
		lightShadow: DefaultLightShadow(),
	}
}

// WithRenderer sets the backend used to crop, clip and shade pieces.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithRandom sets the source deciding whether free tabs point outward or
// inward.
func WithRandom(src BoolSource) Option {
	return func(o *options) {
		o.random = src
	}
}

// WithSeed makes free tab directions reproducible: two makers with the same
// seed cut the same source into identical pieces.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.random = NewRandSource(seed)
	}
}

// WithWorkers sets how many pieces are composited at once.
// Zero or a negative value uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithDarkShadow replaces the first inner shadow pass.
func WithDarkShadow(s Shadow) Option {
	return func(o *options) {
		o.darkShadow = s
	}
}

// WithLightShadow replaces the second inner shadow pass.
func WithLightShadow(s Shadow) Option {
	return func(o *options) {
		o.lightShadow = s
	}
}
