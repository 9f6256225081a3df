package client

import "strings"

// The service always wraps the user's prompt in the same descriptive framing
// before it reaches a provider. The wording is fixed; only the user prompt
// varies between requests.
const (
	promptPrefix = "A high-quality, visually striking digital artwork of "
	promptSuffix = ". Rich detail, vivid colors, dramatic lighting, professional composition."
)

// decoratePrompt builds the final prompt sent to the image model by wrapping
// the trimmed user prompt in the fixed prefix and suffix.
func decoratePrompt(prompt string) string {
	return promptPrefix + strings.TrimSpace(prompt) + promptSuffix
}
