package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrEmptyReply means the model returned nothing usable.
	ErrEmptyReply = errors.New("no usable content in model reply")
	// ErrMalformedReply means the reply could not be decoded as a recipe.
	ErrMalformedReply = errors.New("malformed structured content in model reply")
)

// ParsedRecipe is the structured record decoded from a model reply.
// Optional fields default to empty values, never nil.
type ParsedRecipe struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	MealType    string   `json:"meal_type"`
	Cuisine     string   `json:"cuisine"`
}

// ParseRecipeReply strips any markdown code fence from the raw reply and
// decodes it into a ParsedRecipe. Ingredient and step entries are trimmed
// and blank entries dropped.
func ParseRecipeReply(raw string) (*ParsedRecipe, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, ErrEmptyReply
	}

	var parsed ParsedRecipe
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	parsed.Ingredients = CleanLines(parsed.Ingredients)
	parsed.Steps = CleanLines(parsed.Steps)
	return &parsed, nil
}

// StripCodeFence removes a wrapping ``` fence, with or without a language
// tag. Content without a fence is returned unchanged, so stripping is
// idempotent.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = t[3:]
		if i := strings.IndexByte(t, '\n'); i >= 0 && isFenceTag(strings.TrimSpace(t[:i])) {
			t = t[i+1:]
		}
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// isFenceTag reports whether s looks like a fence language tag ("json",
// "JSON", ""). Anything with punctuation is already content.
func isFenceTag(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CleanLines trims every entry and drops entries that are empty after
// trimming, preserving the relative order of the rest. It never returns nil.
func CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// SplitLines breaks a text block into cleaned lines. Used by the manual
// recipe write paths, which accept ingredients and steps as one blob.
func SplitLines(block string) []string {
	return CleanLines(strings.Split(block, "\n"))
}
