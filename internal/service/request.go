package service

import (
	"encoding/base64"
	"fmt"
)

const (
	textModel   = "gpt-4o-mini"
	visionModel = "gpt-4o"
)

const textSystemPrompt = "You are a helpful assistant that extracts recipe information from recipe pages. " +
	"Return the data in a consistent JSON format. " +
	"When ingredients use US imperial measurements (cups, ounces, pounds, etc.), add metric conversions " +
	"in parentheses at the end of each ingredient (e.g., '1 cup flour (120g)', '1 lb beef (454g)'). " +
	"Keep the language the same as the original recipe."

const imageSystemPrompt = "You are a helpful assistant that extracts recipe information from images. " +
	"Return the data in a consistent JSON format. " +
	"Keep the language the same as the original recipe."

const jsonShapeInstruction = "Return a JSON object with title, description, ingredients (as array), " +
	"steps (as array), meal_type and cuisine."

// BuildScrapedContentRequest assembles the completion request for recipe
// text scraped from a web page. Pure function, no side effects.
func BuildScrapedContentRequest(markdown string) ChatRequest {
	return ChatRequest{
		Model: textModel,
		Messages: []Message{
			{Role: "system", Content: textSystemPrompt},
			{
				Role: "user",
				Content: "Extract the recipe information from this page content. " +
					jsonShapeInstruction +
					" Include metric conversions in the ingredients." +
					" Keep the language the same as the original recipe.\n\n" + markdown,
			},
		},
	}
}

// BuildCaptionRequest assembles the completion request for a social-media
// post caption.
func BuildCaptionRequest(caption string) ChatRequest {
	return ChatRequest{
		Model: textModel,
		Messages: []Message{
			{Role: "system", Content: textSystemPrompt},
			{
				Role: "user",
				Content: "Extract the recipe information from this social media caption. " +
					jsonShapeInstruction +
					" Include metric conversions in the ingredients." +
					" Keep the language the same as the original recipe.\n\n" + caption,
			},
		},
	}
}

// BuildImageRequest assembles a vision request embedding the image inline
// as a base64 data URI.
func BuildImageRequest(imageData []byte, mediaType string) ChatRequest {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(imageData))

	return ChatRequest{
		Model: visionModel,
		Messages: []Message{
			{Role: "system", Content: imageSystemPrompt},
			{
				Role: "user",
				Content: []ContentPart{
					{
						Type: "text",
						Text: "Extract the recipe information from this image. " +
							jsonShapeInstruction +
							" Keep the language the same as the original recipe.",
					},
					{
						Type:     "image_url",
						ImageURL: &ImageURLPart{URL: dataURI},
					},
				},
			},
		},
		MaxTokens: 1000,
	}
}
