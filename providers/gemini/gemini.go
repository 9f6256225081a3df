package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the text model used to refine prompts.
const DefaultModel = "gemini-1.5-flash"

const refineInstruction = "Rewrite the following image prompt as one richly descriptive sentence " +
	"for an image generation model. Keep the subject and intent unchanged. " +
	"Reply with only the rewritten prompt.\n\nPrompt: %s"

// Refiner expands terse user prompts through a Gemini text model before they
// are handed to an image provider.
type Refiner struct {
	client *genai.Client
	model  string
}

// NewRefiner creates a new Gemini prompt refiner
func NewRefiner(ctx context.Context) (*Refiner, error) {
	apiKey, found := os.LookupEnv("GEMINI_API_KEY")
	if !found {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Refiner{
		client: client,
		model:  DefaultModel,
	}, nil
}

// Close closes the Gemini client
func (r *Refiner) Close() error {
	return r.client.Close()
}

// RefinePrompt asks the text model to rewrite the prompt. An empty model
// response is an error so that callers fall back to the raw prompt.
func (r *Refiner) RefinePrompt(ctx context.Context, prompt string) (string, error) {
	model := r.client.GenerativeModel(r.model)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(256)

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(refineInstruction, prompt)))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content generated")
	}

	var refined strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			refined.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(refined.String())
	if out == "" {
		return "", errors.New("empty refinement response")
	}
	return out, nil
}
