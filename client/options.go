package client

import (
	"errors"

	"github.com/pixelmint/pixelmint/common"
	"github.com/pixelmint/pixelmint/internal/logging"
)

// ErrUnsupportedProvider is returned when an unsupported provider is specified
var ErrUnsupportedProvider = errors.New("unsupported provider")

// ClientOption is a function type for configuring the Client.
// It allows for flexible and extensible client configuration.
type ClientOption func(*Client)

// WithDefaultProvider sets the default provider for the client.
// This provider will be used when a request does not address a specific
// provider. If not set, the client uses the first registered provider.
func WithDefaultProvider(provider string) ClientOption {
	return func(c *Client) {
		c.defaultProvider = provider
	}
}

// WithLogger sets the logger for the client.
// The provided logger will be used for all logging operations within the client.
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLogLevel sets the log level for the client.
// This option will only take effect if the client's logger supports setting log levels.
func WithLogLevel(level common.LogLevel) ClientOption {
	return func(c *Client) {
		if logger, ok := c.logger.(interface{ SetLevel(common.LogLevel) }); ok {
			logger.SetLevel(level)
		}
	}
}

// WithPromptRefiner sets the text-model refiner used to expand terse user
// prompts before decoration. Setting a refiner also enables refinement.
func WithPromptRefiner(refiner PromptRefiner) ClientOption {
	return func(c *Client) {
		c.refiner = refiner
		c.refineEnabled = refiner != nil
	}
}
