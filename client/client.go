package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pixelmint/pixelmint/common"
	"github.com/pixelmint/pixelmint/internal/logging"
	"github.com/pixelmint/pixelmint/models"
	"github.com/pixelmint/pixelmint/providers/dalle"
	"github.com/pixelmint/pixelmint/providers/gemini"
	"github.com/pixelmint/pixelmint/providers/imagen"
)

// ImageGenerator is the interface every image provider must implement.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, modelName string, input models.ImageGenerationInput) (*models.ImageGenerationResponse, error)
	Close() error
}

// PromptRefiner expands a terse user prompt into a richer description using a
// text model. Refinement is best-effort: callers fall back to the raw prompt
// when it fails.
type PromptRefiner interface {
	RefinePrompt(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Client represents the main pixelmint client
type Client struct {
	providers       map[string]ImageGenerator
	defaultProvider string
	refiner         PromptRefiner
	refineEnabled   bool
	logger          logging.Logger
	mu              sync.RWMutex
}

// NewClient creates a new pixelmint client without automatic provider registration
func NewClient(ctx context.Context, options ...ClientOption) (*Client, error) {
	c := &Client{
		providers: make(map[string]ImageGenerator),
		logger:    logging.NewDefaultLogger(),
	}

	// Set default log level to Disabled
	c.logger.SetLevel(common.DisabledLevel)

	// Apply options
	for _, option := range options {
		option(c)
	}

	c.logger.Info("Initializing pixelmint client")

	return c, nil
}

// setDefaultProviderIfEmpty sets the default provider if it hasn't been set yet
func (c *Client) setDefaultProviderIfEmpty(provider string) {
	if c.defaultProvider == "" {
		c.defaultProvider = provider
	}
}

// RegisterProvider registers a new image provider with the client
func (c *Client) RegisterProvider(name string, provider ImageGenerator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[name] = provider
	c.setDefaultProviderIfEmpty(name)
}

// Close closes all provider clients
func (c *Client) Close() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var wg sync.WaitGroup
	errChan := make(chan error, len(c.providers)+1)

	for _, provider := range c.providers {
		wg.Add(1)
		go func(p ImageGenerator) {
			defer wg.Done()
			if err := p.Close(); err != nil {
				errChan <- err
			}
		}(provider)
	}

	if c.refiner != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.refiner.Close(); err != nil {
				errChan <- err
			}
		}()
	}

	go func() {
		wg.Wait()
		close(errChan)
	}()

	var lastErr error
	for err := range errChan {
		if err != nil {
			c.logger.Error("Error closing provider:", err)
			lastErr = err
		}
	}

	return lastErr
}

// GenerateImages generates images for the given input. It validates the
// input, optionally refines the prompt through the configured text model,
// wraps it in the fixed descriptive framing, and issues a single call to the
// resolved provider. On success the provider's image bytes are returned
// unchanged; on failure the error is classified into one of the fixed
// user-facing messages and the response carries zero images.
func (c *Client) GenerateImages(ctx context.Context, input models.ImageGenerationInput) (*models.ImageGenerationResponse, error) {
	if err := input.Validate(); err != nil {
		c.logger.Error("Invalid generation input:", err)
		return nil, fmt.Errorf("invalid generation input: %w", err)
	}

	providerName, model, err := c.parseProviderModel(input.Model)
	if err != nil {
		c.logger.Error("Failed to parse provider/model", "error", err)
		return nil, fmt.Errorf("failed to parse provider/model: %w", err)
	}

	c.mu.RLock()
	p, ok := c.providers[providerName]
	c.mu.RUnlock()

	if !ok {
		// Provider not initialized, attempt to initialize it
		if err := c.initializeProvider(ctx, providerName); err != nil {
			c.logger.Error("Failed to initialize provider:", providerName, "error:", err)
			return nil, fmt.Errorf("failed to initialize provider %s: %w", providerName, err)
		}

		c.mu.RLock()
		p, ok = c.providers[providerName]
		c.mu.RUnlock()

		if !ok {
			c.logger.Error("Provider initialization failed:", providerName)
			return nil, ErrUnsupportedProvider
		}
	}

	prompt := input.Prompt
	if c.refineEnabled && c.refiner != nil {
		refined, err := c.refiner.RefinePrompt(ctx, prompt)
		if err != nil {
			c.logger.Warn("Prompt refinement failed, using raw prompt:", err)
		} else if refined != "" {
			prompt = refined
		}
	}
	input.Prompt = decoratePrompt(prompt)

	c.logger.Debugf("Generating %d image(s) with provider %s and model %s", input.Count, providerName, model)
	resp, err := p.GenerateImages(ctx, model, input)
	if err != nil {
		genErr := Classify(err)
		c.logger.Errorf("Image generation failed (%s): %v", genErr.Category, err)
		return nil, genErr
	}

	resp.Provider = providerName
	return resp, nil
}

// parseProviderModel splits the model string into provider and model
// components. An empty string selects the default provider and its default
// model; a bare model name (no slash) addresses the default provider.
func (c *Client) parseProviderModel(providerModel string) (string, string, error) {
	c.mu.RLock()
	defaultProvider := c.defaultProvider
	c.mu.RUnlock()

	if providerModel == "" {
		if defaultProvider == "" {
			return "", "", fmt.Errorf("no provider addressed and no default provider set")
		}
		return defaultProvider, "", nil
	}

	parts := strings.SplitN(providerModel, "/", 2)
	if len(parts) != 2 {
		if defaultProvider == "" {
			return "", "", fmt.Errorf("no provider addressed and no default provider set")
		}
		return defaultProvider, parts[0], nil
	}
	return parts[0], parts[1], nil
}

// initializeProvider initializes a specific provider
func (c *Client) initializeProvider(ctx context.Context, providerName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch providerName {
	case "imagen":
		if geminiAPIKey := os.Getenv("GEMINI_API_KEY"); geminiAPIKey != "" {
			imagenProvider, err := imagen.NewImagenProvider(ctx)
			if err != nil {
				return err
			}
			c.providers["imagen"] = imagenProvider
			c.setDefaultProviderIfEmpty("imagen")
			c.logger.Info("Registered Imagen provider")
		} else {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	case "dalle":
		if openaiAPIKey := os.Getenv("OPENAI_API_KEY"); openaiAPIKey != "" {
			dalleProvider, err := dalle.NewDalleProvider()
			if err != nil {
				return err
			}
			c.providers["dalle"] = dalleProvider
			c.setDefaultProviderIfEmpty("dalle")
			c.logger.Info("Registered DALL-E provider")
		} else {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return ErrUnsupportedProvider
	}

	return nil
}

// NewDefaultRefiner builds the Gemini text refiner when its key is present.
// Returns nil without error when the key is absent; refinement is optional.
func NewDefaultRefiner(ctx context.Context) (PromptRefiner, error) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return nil, nil
	}
	return gemini.NewRefiner(ctx)
}
