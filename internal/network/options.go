package network

import (
	"github.com/rs/zerolog"

	"github.com/Assasans/protanki-server/internal/crypto"
)

type options struct {
	logger    *zerolog.Logger
	cipher    crypto.Context
	observers []Observer
}

// Option configures a Connection.
type Option func(*options)

// WithLogger sets the base logger. Connection fields are added to it.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithCipher sets the initial cipher. The default is crypto.EmptyContext.
func WithCipher(c crypto.Context) Option {
	return func(o *options) {
		o.cipher = c
	}
}

// WithObserver adds an observer notified of traffic and disconnects.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}
