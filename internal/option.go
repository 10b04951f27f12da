package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	ready  func(addr string)
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithReady registers a callback invoked once the HTTP listener is bound.
func WithReady(fn func(addr string)) Option {
	return func(a *application) {
		a.ready = fn
	}
}
