package frame

import (
	"io"

	"jordanella.com/device-framer/internal/logging"
)

// Option configures a Compositor
type Option func(*Compositor)

// WithGeometry sets the frame geometry option
func WithGeometry(g Geometry) Option {
	return func(c *Compositor) {
		c.geometry = g
	}
}

// WithLogger sets the logger option
func WithLogger(l *logging.Logger) Option {
	return func(c *Compositor) {
		c.logger = l
	}
}

// WithStatusOutput sets where the per-file status line is printed
func WithStatusOutput(w io.Writer) Option {
	return func(c *Compositor) {
		c.status = w
	}
}
