package dalle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pixelmint/pixelmint/models"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "dall-e-3"

const defaultBaseURL = "https://api.openai.com/v1"

// DalleProvider implements image generation against the OpenAI Images API.
type DalleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewDalleProvider creates a new DALL-E provider
func NewDalleProvider() (*DalleProvider, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}

	return &DalleProvider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Close releases provider resources.
func (p *DalleProvider) Close() error {
	return nil
}

// sizeForAspectRatio maps the fixed aspect-ratio presets onto the nearest
// size the Images API supports.
func sizeForAspectRatio(ratio models.AspectRatio) string {
	switch ratio {
	case models.AspectLandscape:
		return "1792x1024"
	case models.AspectPortrait:
		return "1024x1792"
	default:
		return "1024x1024"
	}
}

// GenerateImages issues a single generation call and decodes the returned
// base64 payloads into raw image bytes.
func (p *DalleProvider) GenerateImages(ctx context.Context, modelName string, input models.ImageGenerationInput) (*models.ImageGenerationResponse, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	url := p.baseURL + "/images/generations"

	requestBody := struct {
		Model          string `json:"model"`
		Prompt         string `json:"prompt"`
		N              int    `json:"n"`
		Size           string `json:"size"`
		ResponseFormat string `json:"response_format"`
	}{
		Model:          modelName,
		Prompt:         input.Prompt,
		N:              input.Count,
		Size:           sizeForAspectRatio(input.AspectRatio),
		ResponseFormat: "b64_json",
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("images API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("images API returned status %d", resp.StatusCode)
	}

	var result struct {
		Created int64 `json:"created"`
		Data    []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, errors.New("no images generated")
	}

	images := make([]models.GeneratedImage, 0, len(result.Data))
	for _, item := range result.Data {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image payload: %w", err)
		}
		// The Images API emits PNG for b64_json responses.
		images = append(images, models.GeneratedImage{
			Data:     data,
			MIMEType: "image/png",
		})
	}

	return &models.ImageGenerationResponse{
		Images: images,
	}, nil
}
