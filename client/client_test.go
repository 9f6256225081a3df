package client

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmint/pixelmint/models"
)

// fakeGenerator records the input it receives and returns canned images or a
// canned error.
type fakeGenerator struct {
	lastModel string
	lastInput models.ImageGenerationInput
	images    []models.GeneratedImage
	err       error
	closed    bool
}

func (f *fakeGenerator) GenerateImages(ctx context.Context, modelName string, input models.ImageGenerationInput) (*models.ImageGenerationResponse, error) {
	f.lastModel = modelName
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &models.ImageGenerationResponse{Images: f.images}, nil
}

func (f *fakeGenerator) Close() error {
	f.closed = true
	return nil
}

type fakeRefiner struct {
	refined string
	err     error
	closed  bool
}

func (f *fakeRefiner) RefinePrompt(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.refined, nil
}

func (f *fakeRefiner) Close() error {
	f.closed = true
	return nil
}

func newTestClient(t *testing.T, gen *fakeGenerator, opts ...ClientOption) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), opts...)
	require.NoError(t, err)
	c.RegisterProvider("fake", gen)
	return c
}

func TestGenerateImagesThreadsBytesThrough(t *testing.T) {
	gen := &fakeGenerator{images: []models.GeneratedImage{
		{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"},
		{Data: []byte{4, 5, 6}, MIMEType: "image/jpeg"},
	}}
	c := newTestClient(t, gen)

	resp, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
		Prompt:      "a red bicycle",
		AspectRatio: models.AspectPortrait,
		Count:       2,
	})
	require.NoError(t, err)

	assert.Equal(t, "fake", resp.Provider)
	require.Len(t, resp.Images, 2)
	assert.Equal(t, []byte{1, 2, 3}, resp.Images[0].Data)

	// The provider sees the decorated prompt and the untouched parameters.
	assert.True(t, strings.HasPrefix(gen.lastInput.Prompt, promptPrefix))
	assert.Contains(t, gen.lastInput.Prompt, "a red bicycle")
	assert.Equal(t, 2, gen.lastInput.Count)
	assert.Equal(t, models.AspectPortrait, gen.lastInput.AspectRatio)
}

func TestGenerateImagesClassifiesProviderErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("429: quota exceeded for project")}
	c := newTestClient(t, gen)

	resp, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
		Prompt:      "anything",
		AspectRatio: models.AspectSquare,
		Count:       1,
	})
	require.Error(t, err)
	assert.Nil(t, resp, "a failed call yields zero images")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CategoryQuota, genErr.Category)
	assert.True(t, errors.Is(err, gen.err))
}

func TestGenerateImagesRejectsInvalidInput(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestClient(t, gen)

	_, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
		Prompt:      "ok",
		AspectRatio: "2:1",
		Count:       1,
	})
	require.Error(t, err)
	assert.Empty(t, gen.lastInput.Prompt, "provider must not be called for invalid input")
}

func TestGenerateImagesModelAddressing(t *testing.T) {
	gen := &fakeGenerator{images: []models.GeneratedImage{{Data: []byte{9}}}}
	c := newTestClient(t, gen)

	_, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
		Prompt:      "x",
		AspectRatio: models.AspectSquare,
		Count:       1,
		Model:       "fake/some-model",
	})
	require.NoError(t, err)
	assert.Equal(t, "some-model", gen.lastModel)

	// Bare model name goes to the default provider.
	_, err = c.GenerateImages(context.Background(), models.ImageGenerationInput{
		Prompt:      "x",
		AspectRatio: models.AspectSquare,
		Count:       1,
		Model:       "other-model",
	})
	require.NoError(t, err)
	assert.Equal(t, "other-model", gen.lastModel)
}

func TestGenerateImagesUnknownProvider(t *testing.T) {
	c := newTestClient(t, &fakeGenerator{})

	_, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
		Prompt:      "x",
		AspectRatio: models.AspectSquare,
		Count:       1,
		Model:       "nonexistent/model",
	})
	require.Error(t, err)
}

func TestGenerateImagesRefinement(t *testing.T) {
	t.Run("refined prompt is used", func(t *testing.T) {
		gen := &fakeGenerator{images: []models.GeneratedImage{{Data: []byte{1}}}}
		refiner := &fakeRefiner{refined: "a majestic red bicycle leaning against a stone wall"}
		c := newTestClient(t, gen, WithPromptRefiner(refiner))

		_, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
			Prompt:      "red bicycle",
			AspectRatio: models.AspectSquare,
			Count:       1,
		})
		require.NoError(t, err)
		assert.Contains(t, gen.lastInput.Prompt, refiner.refined)
	})

	t.Run("refiner failure falls back to raw prompt", func(t *testing.T) {
		gen := &fakeGenerator{images: []models.GeneratedImage{{Data: []byte{1}}}}
		refiner := &fakeRefiner{err: errors.New("model overloaded")}
		c := newTestClient(t, gen, WithPromptRefiner(refiner))

		_, err := c.GenerateImages(context.Background(), models.ImageGenerationInput{
			Prompt:      "red bicycle",
			AspectRatio: models.AspectSquare,
			Count:       1,
		})
		require.NoError(t, err)
		assert.Contains(t, gen.lastInput.Prompt, "red bicycle")
	})
}

func TestClose(t *testing.T) {
	gen := &fakeGenerator{}
	refiner := &fakeRefiner{}
	c := newTestClient(t, gen, WithPromptRefiner(refiner))

	require.NoError(t, c.Close())
	assert.True(t, gen.closed)
	assert.True(t, refiner.closed)
}
