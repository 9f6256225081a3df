package client

import (
	"errors"
	"strings"
)

// ErrorCategory identifies which of the fixed user-facing failure classes an
// upstream error was mapped to.
type ErrorCategory string

const (
	CategoryInvalidKey ErrorCategory = "invalid_api_key"
	CategoryQuota      ErrorCategory = "quota_exceeded"
	CategorySafety     ErrorCategory = "safety_blocked"
	CategoryNetwork    ErrorCategory = "network_error"
	CategoryGeneric    ErrorCategory = "generation_failed"
)

// The five fixed user-facing messages. Every failure from a provider call is
// surfaced as exactly one of these.
var categoryMessages = map[ErrorCategory]string{
	CategoryInvalidKey: "The configured API key is not valid or lacks permission. Check the GEMINI_API_KEY environment variable and restart.",
	CategoryQuota:      "The API quota has been exceeded. Check your plan and billing details, or try again later.",
	CategorySafety:     "The prompt was blocked by the content safety system. Adjust the prompt and try again.",
	CategoryNetwork:    "A network error occurred while contacting the image service. Check your connection and try again.",
	CategoryGeneric:    "Image generation failed. Please try again in a moment.",
}

// classificationRules is ordered: the first category whose substrings match
// the lower-cased upstream message wins.
var classificationRules = []struct {
	category   ErrorCategory
	substrings []string
}{
	{CategoryInvalidKey, []string{"api key", "api_key", "unauthenticated", "permission"}},
	{CategoryQuota, []string{"quota", "resource_exhausted", "rate limit", "billing"}},
	{CategorySafety, []string{"safety", "blocked"}},
	{CategoryNetwork, []string{"network", "connection", "timeout", "deadline", "dial", "unreachable"}},
}

// GenerationError is the single error type surfaced for failed generation
// calls. Error() returns the fixed user-facing message for the category; the
// original provider error stays reachable through Unwrap.
type GenerationError struct {
	Category ErrorCategory
	cause    error
}

func (e *GenerationError) Error() string {
	return categoryMessages[e.Category]
}

func (e *GenerationError) Unwrap() error {
	return e.cause
}

// Classify maps an upstream error onto one of the five fixed categories by
// case-insensitive substring match, falling back to the generic category.
// Errors that are already classified pass through unchanged.
func Classify(err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range classificationRules {
		for _, sub := range rule.substrings {
			if strings.Contains(msg, sub) {
				return &GenerationError{Category: rule.category, cause: err}
			}
		}
	}
	return &GenerationError{Category: CategoryGeneric, cause: err}
}
